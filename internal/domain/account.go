package domain

// deposit is one entry of an account's deposit log. Withdrawals are
// never logged, so they can never be disputed.
type deposit struct {
	tx       TxID
	amount   Amount
	disputed bool
}

// Account holds one client's balances and the deposit log that backs
// the dispute lifecycle. Balances change only through Apply, and a
// failed Apply leaves the account exactly as it was.
type Account struct {
	owner     ClientID
	available Amount
	held      Amount
	locked    bool
	deposits  []deposit
}

// NewAccount creates an empty, unlocked account for the given client.
func NewAccount(owner ClientID) *Account {
	return &Account{owner: owner}
}

// Owner returns the client this account belongs to.
func (a *Account) Owner() ClientID {
	return a.owner
}

// Available returns the funds immediately usable for withdrawal.
func (a *Account) Available() Amount {
	return a.available
}

// Held returns the funds frozen pending dispute resolution.
func (a *Account) Held() Amount {
	return a.held
}

// Locked reports whether a chargeback has locked the account.
func (a *Account) Locked() bool {
	return a.locked
}

// Total returns available plus held. The addition is checked, since the
// two balances may individually be valid while their sum overflows.
func (a *Account) Total() (Amount, error) {
	return a.available.Add(a.held)
}

// findDeposit returns the first logged deposit with the given id, or
// nil. Duplicate ids are not rejected at insert time, so lookups always
// resolve to the earliest entry.
func (a *Account) findDeposit(id TxID) *deposit {
	for i := range a.deposits {
		if a.deposits[i].tx == id {
			return &a.deposits[i]
		}
	}
	return nil
}

// Apply mutates the account according to one transaction.
//
// Each deposit moves through Normal -> Disputed -> {Normal, ChargedBack}:
// a dispute holds its funds, a resolve releases them back, a chargeback
// removes them and locks the account. Dispute-family transactions that
// reference an unknown deposit, or a deposit in the wrong state, are
// silent no-ops rather than errors so that stale or adversarial
// references cannot corrupt state or halt processing. New balances are
// computed in full before any assignment, so a failing step commits
// nothing.
//
// A locked account keeps accepting transactions; the lock is reporting
// state, not a guard.
func (a *Account) Apply(tx Transaction) error {
	switch tx.kind {
	case KindDeposit:
		avail, err := a.available.Add(tx.amount)
		if err != nil {
			return err
		}
		a.available = avail
		a.deposits = append(a.deposits, deposit{tx: tx.id, amount: tx.amount})
		return nil

	case KindWithdrawal:
		avail, err := a.available.Sub(tx.amount)
		if err != nil {
			return ErrInsufficientFunds
		}
		a.available = avail
		return nil

	case KindDispute:
		dep := a.findDeposit(tx.id)
		if dep == nil || dep.disputed {
			return nil
		}
		avail, err := a.available.Sub(dep.amount)
		if err != nil {
			return ErrInsufficientFunds
		}
		held, err := a.held.Add(dep.amount)
		if err != nil {
			return err
		}
		a.available = avail
		a.held = held
		dep.disputed = true
		return nil

	case KindResolve:
		dep := a.findDeposit(tx.id)
		if dep == nil || !dep.disputed {
			return nil
		}
		held, err := a.held.Sub(dep.amount)
		if err != nil {
			return ErrInsufficientFunds
		}
		avail, err := a.available.Add(dep.amount)
		if err != nil {
			return err
		}
		a.available = avail
		a.held = held
		dep.disputed = false
		return nil

	case KindChargeback:
		dep := a.findDeposit(tx.id)
		if dep == nil || !dep.disputed {
			return nil
		}
		held, err := a.held.Sub(dep.amount)
		if err != nil {
			return ErrInsufficientFunds
		}
		a.held = held
		a.locked = true
		return nil
	}

	return nil
}

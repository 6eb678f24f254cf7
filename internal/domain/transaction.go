package domain

import "fmt"

// TxKind enumerates the transaction types the engine accepts.
type TxKind uint8

const (
	// KindDeposit credits the client's available funds.
	KindDeposit TxKind = iota
	// KindWithdrawal debits the client's available funds.
	KindWithdrawal
	// KindDispute claims a prior deposit was erroneous, holding its funds.
	KindDispute
	// KindResolve settles a dispute in the client's favor.
	KindResolve
	// KindChargeback settles a dispute against the client and locks the account.
	KindChargeback
)

var kindNames = map[TxKind]string{
	KindDeposit:    "deposit",
	KindWithdrawal: "withdrawal",
	KindDispute:    "dispute",
	KindResolve:    "resolve",
	KindChargeback: "chargeback",
}

func (k TxKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// ParseKind maps the external type string onto a TxKind.
func ParseKind(s string) (TxKind, error) {
	for kind, name := range kindNames {
		if s == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// Transaction is one event against a client account. The amount is
// meaningful only for deposits and withdrawals; the dispute family
// carries just the identifier of the deposit it references.
//
// Fields are unexported so that only the per-kind constructors can
// build a Transaction.
type Transaction struct {
	kind   TxKind
	id     TxID
	amount Amount
}

// NewDeposit builds a credit of amount under transaction id.
func NewDeposit(id TxID, amount Amount) Transaction {
	return Transaction{kind: KindDeposit, id: id, amount: amount}
}

// NewWithdrawal builds a debit of amount under transaction id.
func NewWithdrawal(id TxID, amount Amount) Transaction {
	return Transaction{kind: KindWithdrawal, id: id, amount: amount}
}

// NewDispute builds a dispute referencing the deposit with the given id.
func NewDispute(id TxID) Transaction {
	return Transaction{kind: KindDispute, id: id}
}

// NewResolve builds a resolution referencing the disputed deposit with
// the given id.
func NewResolve(id TxID) Transaction {
	return Transaction{kind: KindResolve, id: id}
}

// NewChargeback builds a chargeback referencing the disputed deposit
// with the given id.
func NewChargeback(id TxID) Transaction {
	return Transaction{kind: KindChargeback, id: id}
}

// Kind returns the transaction type.
func (t Transaction) Kind() TxKind {
	return t.kind
}

// ID returns the transaction identifier.
func (t Transaction) ID() TxID {
	return t.id
}

package store

import (
	"iter"

	"github.com/punchamoorthee/payproc/internal/domain"
)

// AccountStore owns the accounts of every client seen so far. It is a
// plain in-memory map: accounts are created lazily on first reference,
// never deleted, and the store is exclusively owned by the single call
// site driving transaction application. Callers that share a store
// across goroutines must serialize access themselves.
type AccountStore struct {
	accounts map[domain.ClientID]*domain.Account
}

// NewAccountStore creates an empty store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[domain.ClientID]*domain.Account),
	}
}

// account returns the client's account, creating it if this is the
// first reference to the client.
func (s *AccountStore) account(client domain.ClientID) *domain.Account {
	acc, ok := s.accounts[client]
	if !ok {
		acc = domain.NewAccount(client)
		s.accounts[client] = acc
	}
	return acc
}

// Apply routes one transaction to the client's account and applies it,
// propagating any domain error unchanged.
func (s *AccountStore) Apply(client domain.ClientID, tx domain.Transaction) error {
	return s.account(client).Apply(tx)
}

// Get returns the client's account if one exists. Unlike Apply it does
// not create accounts.
func (s *AccountStore) Get(client domain.ClientID) (*domain.Account, bool) {
	acc, ok := s.accounts[client]
	return acc, ok
}

// Len returns the number of accounts.
func (s *AccountStore) Len() int {
	return len(s.accounts)
}

// All iterates over every account in unspecified order. The sequence is
// lazy and restartable; consumers that need a stable order sort on
// their side.
func (s *AccountStore) All() iter.Seq2[domain.ClientID, *domain.Account] {
	return func(yield func(domain.ClientID, *domain.Account) bool) {
		for client, acc := range s.accounts {
			if !yield(client, acc) {
				return
			}
		}
	}
}

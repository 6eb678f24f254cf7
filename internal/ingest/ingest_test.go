package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/punchamoorthee/payproc/internal/domain"
	"github.com/punchamoorthee/payproc/internal/ingest"
	"github.com/punchamoorthee/payproc/internal/store"
)

func amount(t *testing.T, f float64) domain.Amount {
	t.Helper()
	a, err := domain.AmountFromFloat(f)
	require.NoError(t, err)
	return a
}

func process(t *testing.T, input string) (*store.AccountStore, error) {
	t.Helper()
	accounts := store.NewAccountStore()
	err := ingest.Process(accounts, strings.NewReader(input), zap.NewNop())
	return accounts, err
}

func TestProcessFullLifecycle(t *testing.T) {
	input := `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
dispute, 1, 1,
chargeback, 1, 1,
`
	accounts, err := process(t, input)
	require.NoError(t, err)
	require.Equal(t, 2, accounts.Len())

	// Client 1: 1.0 + 2.0 deposited, 1.5 withdrawn, then the 1.0
	// deposit is disputed and charged back.
	one, ok := accounts.Get(domain.NewClientID(1))
	require.True(t, ok)
	assert.Equal(t, amount(t, 0.5), one.Available())
	assert.True(t, one.Held().IsZero())
	assert.True(t, one.Locked())

	two, ok := accounts.Get(domain.NewClientID(2))
	require.True(t, ok)
	assert.Equal(t, amount(t, 2.0), two.Available())
	assert.False(t, two.Locked())
}

func TestProcessToleratesShortDisputeRows(t *testing.T) {
	// Dispute-family rows may omit the amount field entirely.
	input := "type,client,tx,amount\ndeposit,1,1,1.0\ndispute,1,1\n"

	accounts, err := process(t, input)
	require.NoError(t, err)

	acc, ok := accounts.Get(domain.NewClientID(1))
	require.True(t, ok)
	assert.Equal(t, amount(t, 1.0), acc.Held())
}

func TestProcessSkipsRejectedTransactions(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,1.0
withdrawal,1,2,5.0
deposit,1,3,2.0
`
	accounts, err := process(t, input)
	require.NoError(t, err)

	// The failed withdrawal is skipped, later rows still apply.
	acc, ok := accounts.Get(domain.NewClientID(1))
	require.True(t, ok)
	assert.Equal(t, amount(t, 3.0), acc.Available())
}

func TestProcessDecodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			"unknown type",
			"type,client,tx,amount\ntransfer,1,1,1.0\n",
			"unknown transaction type",
		},
		{
			"deposit without amount",
			"type,client,tx,amount\ndeposit,1,1,\n",
			"missing an amount",
		},
		{
			"withdrawal without amount",
			"type,client,tx,amount\nwithdrawal,1,1\n",
			"missing an amount",
		},
		{
			"negative amount",
			"type,client,tx,amount\ndeposit,1,1,-2.0\n",
			"invalid amount",
		},
		{
			"non-numeric client",
			"type,client,tx,amount\ndeposit,abc,1,1.0\n",
			"invalid client id",
		},
		{
			"client out of range",
			"type,client,tx,amount\ndeposit,70000,1,1.0\n",
			"invalid client id",
		},
		{
			"non-numeric tx",
			"type,client,tx,amount\ndeposit,1,x,1.0\n",
			"invalid tx id",
		},
		{
			"missing header column",
			"kind,client,tx,amount\ndeposit,1,1,1.0\n",
			"missing type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := process(t, tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProcessReportsRowNumber(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,1,1,1.0\ndeposit,1,2,bogus\n"

	_, err := process(t, input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestProcessEmptyLog(t *testing.T) {
	accounts, err := process(t, "type,client,tx,amount\n")
	require.NoError(t, err)
	assert.Equal(t, 0, accounts.Len())
}

// Package ingest decodes a delimited-text transaction log and feeds it
// to the account store. Decode failures abort the run with the row
// number; transactions the domain rejects are logged and skipped.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/punchamoorthee/payproc/internal/domain"
	"github.com/punchamoorthee/payproc/internal/store"
)

// columns maps header names onto field positions. The amount column may
// be absent entirely when the log carries only dispute-family rows.
type columns struct {
	kind   int
	client int
	tx     int
	amount int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{kind: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "type":
			cols.kind = i
		case "client":
			cols.client = i
		case "tx":
			cols.tx = i
		case "amount":
			cols.amount = i
		}
	}
	if cols.kind < 0 || cols.client < 0 || cols.tx < 0 {
		return cols, fmt.Errorf("header %v is missing type, client or tx", header)
	}
	return cols, nil
}

// field returns the trimmed field at index i, or "" when the row is too
// short. Rows are allowed to omit trailing fields (amount in
// particular), matching logs that leave the column blank.
func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// decodeRow turns one record into the client/transaction pair the store
// consumes. Deposits and withdrawals must carry a well-formed amount;
// the dispute family must not need one.
func decodeRow(record []string, cols columns) (domain.ClientID, domain.Transaction, error) {
	var zero domain.Transaction

	kind, err := domain.ParseKind(field(record, cols.kind))
	if err != nil {
		return domain.ClientID{}, zero, err
	}

	rawClient, err := strconv.ParseUint(field(record, cols.client), 10, 16)
	if err != nil {
		return domain.ClientID{}, zero, fmt.Errorf("invalid client id: %w", err)
	}
	client := domain.NewClientID(uint16(rawClient))

	rawTx, err := strconv.ParseUint(field(record, cols.tx), 10, 32)
	if err != nil {
		return domain.ClientID{}, zero, fmt.Errorf("invalid tx id: %w", err)
	}
	txID := domain.NewTxID(uint32(rawTx))

	switch kind {
	case domain.KindDeposit, domain.KindWithdrawal:
		raw := field(record, cols.amount)
		if raw == "" {
			return domain.ClientID{}, zero, fmt.Errorf("%s is missing an amount", kind)
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.ClientID{}, zero, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		amount, err := domain.AmountFromFloat(f)
		if err != nil {
			return domain.ClientID{}, zero, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		if kind == domain.KindDeposit {
			return client, domain.NewDeposit(txID, amount), nil
		}
		return client, domain.NewWithdrawal(txID, amount), nil

	case domain.KindDispute:
		return client, domain.NewDispute(txID), nil
	case domain.KindResolve:
		return client, domain.NewResolve(txID), nil
	default:
		return client, domain.NewChargeback(txID), nil
	}
}

// Process reads the transaction log from r and applies every row to
// accounts in arrival order. A row the domain rejects is skipped with a
// warning; a row that cannot be decoded aborts with its row number.
func Process(accounts *store.AccountStore, r io.Reader, logger *zap.Logger) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return err
	}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}

		client, tx, err := decodeRow(record, cols)
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}

		if err := accounts.Apply(client, tx); err != nil {
			logger.Warn("transaction rejected",
				zap.Uint32("tx", tx.ID().Value()),
				zap.Uint16("client", client.Value()),
				zap.Stringer("kind", tx.Kind()),
				zap.Error(err),
			)
		}
	}
}

// Package report renders the final account summary as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/punchamoorthee/payproc/internal/domain"
	"github.com/punchamoorthee/payproc/internal/store"
)

// Write emits one summary row per account: client, available, held,
// total and locked. The store iterates in map order, so rows are sorted
// by client id here for reproducible output. A total that overflows is
// surfaced, not swallowed.
func Write(accounts *store.AccountStore, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	snapshots := make([]*domain.Account, 0, accounts.Len())
	for _, acc := range accounts.All() {
		snapshots = append(snapshots, acc)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Owner().Value() < snapshots[j].Owner().Value()
	})

	for _, acc := range snapshots {
		total, err := acc.Total()
		if err != nil {
			return fmt.Errorf("client %s: total: %w", acc.Owner(), err)
		}
		row := []string{
			acc.Owner().String(),
			acc.Available().String(),
			acc.Held().String(),
			total.String(),
			strconv.FormatBool(acc.Locked()),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("client %s: %w", acc.Owner(), err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Package report serializes final account snapshots to the CSV output
// format consumed downstream.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"PayLedger/internal/engine"
)

// WriteAccounts writes the snapshot sequence as CSV: a
// "client,available,held,total,locked" header followed by one row per
// account, amounts rendered with exactly four fractional digits.
func WriteAccounts(w io.Writer, snaps []engine.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range snaps {
		row := []string{
			strconv.FormatUint(uint64(s.ClientID), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write account %d: %w", s.ClientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

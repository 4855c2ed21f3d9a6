// Package ingestion converts the CSV wire format into well-typed
// transaction records. It is the validating boundary in front of the
// engine: any malformed row is a fatal error for the whole run, never
// a recoverable one.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"PayLedger/internal/money"
	"PayLedger/internal/record"
)

// Reader streams transaction records from CSV input.
//
// Wire format: a "type,client,tx,amount" header followed by one row
// per record. The amount column is blank (or absent) on dispute-chain
// rows and required, non-negative, and at most 4 fractional digits on
// deposit/withdrawal rows. Whitespace around fields is tolerated.
type Reader struct {
	csv  *csv.Reader
	line int
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Dispute-chain rows may omit the trailing amount column entirely.
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Next returns the next well-typed record, io.EOF at end of stream,
// or a parse error that must abort the run.
func (r *Reader) Next() (record.Record, error) {
	for {
		fields, err := r.csv.Read()
		if err != nil {
			if err == io.EOF {
				return record.Record{}, io.EOF
			}
			return record.Record{}, fmt.Errorf("read csv: %w", err)
		}
		r.line++

		if r.line == 1 {
			if err := validateHeader(fields); err != nil {
				return record.Record{}, err
			}
			continue
		}

		return parseRow(fields, r.line)
	}
}

func validateHeader(fields []string) error {
	want := []string{"type", "client", "tx", "amount"}
	if len(fields) != len(want) {
		return fmt.Errorf("header: expected %d columns, got %d", len(want), len(fields))
	}
	for i, name := range want {
		if strings.TrimSpace(fields[i]) != name {
			return fmt.Errorf("header: column %d is %q, want %q", i, fields[i], name)
		}
	}
	return nil
}

func parseRow(fields []string, line int) (record.Record, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return record.Record{}, fmt.Errorf("line %d: expected 3 or 4 fields, got %d", line, len(fields))
	}

	recType, err := record.ParseRecordType(strings.TrimSpace(fields[0]))
	if err != nil {
		return record.Record{}, fmt.Errorf("line %d: %w", line, err)
	}

	clientID, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return record.Record{}, fmt.Errorf("line %d: parse client id: %w", line, err)
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return record.Record{}, fmt.Errorf("line %d: parse tx id: %w", line, err)
	}

	rec := record.Record{
		Type:     recType,
		ClientID: uint16(clientID),
		TxID:     uint32(txID),
	}

	var amountField string
	if len(fields) == 4 {
		amountField = strings.TrimSpace(fields[3])
	}

	if recType.MovesFunds() {
		if amountField == "" {
			return record.Record{}, fmt.Errorf("line %d: %s requires an amount", line, recType)
		}
		amount, err := money.ParseAmount(amountField)
		if err != nil {
			return record.Record{}, fmt.Errorf("line %d: %w", line, err)
		}
		if amount.IsNegative() {
			return record.Record{}, fmt.Errorf("line %d: negative %s amount %s", line, recType, amount)
		}
		rec.Amount = amount
		rec.HasAmount = true
	} else if amountField != "" {
		return record.Record{}, fmt.Errorf("line %d: %s must not carry an amount", line, recType)
	}

	return rec, nil
}

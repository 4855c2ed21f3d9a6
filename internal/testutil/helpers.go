package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"PayLedger/internal/money"
	"PayLedger/internal/record"
)

// Amount parses a decimal string into a fixed-point amount, failing
// the test on malformed input.
func Amount(t *testing.T, s string) money.Amount {
	t.Helper()
	amt, err := money.ParseAmount(s)
	if err != nil {
		t.Fatalf("parse amount %q: %v", s, err)
	}
	return amt
}

// Deposit builds a deposit record.
func Deposit(t *testing.T, client uint16, tx uint32, amount string) record.Record {
	t.Helper()
	return record.Record{
		Type:      record.RecordTypeDeposit,
		ClientID:  client,
		TxID:      tx,
		Amount:    Amount(t, amount),
		HasAmount: true,
	}
}

// Withdrawal builds a withdrawal record.
func Withdrawal(t *testing.T, client uint16, tx uint32, amount string) record.Record {
	t.Helper()
	return record.Record{
		Type:      record.RecordTypeWithdrawal,
		ClientID:  client,
		TxID:      tx,
		Amount:    Amount(t, amount),
		HasAmount: true,
	}
}

// Dispute builds a dispute record referencing tx.
func Dispute(t *testing.T, client uint16, tx uint32) record.Record {
	t.Helper()
	return record.Record{Type: record.RecordTypeDispute, ClientID: client, TxID: tx}
}

// Resolve builds a resolve record referencing tx.
func Resolve(t *testing.T, client uint16, tx uint32) record.Record {
	t.Helper()
	return record.Record{Type: record.RecordTypeResolve, ClientID: client, TxID: tx}
}

// Chargeback builds a chargeback record referencing tx.
func Chargeback(t *testing.T, client uint16, tx uint32) record.Record {
	t.Helper()
	return record.Record{Type: record.RecordTypeChargeback, ClientID: client, TxID: tx}
}

// GoldenFile reads a golden file from testdata/ and returns its contents.
func GoldenFile(t *testing.T, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}
	return data
}

// UpdateGoldenFile writes data to a golden file.
// Only used when UPDATE_GOLDEN=1 is set.
func UpdateGoldenFile(t *testing.T, name string, data []byte) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDEN") != "1" {
		return
	}
	path := filepath.Join("testdata", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create testdata dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden file %s: %v", path, err)
	}
	t.Logf("updated golden file: %s", path)
}

// AssertGolden compares data against a golden file.
// If UPDATE_GOLDEN=1, updates the golden file instead.
func AssertGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") == "1" {
		UpdateGoldenFile(t, name, got)
		return
	}

	want := GoldenFile(t, name)
	if string(got) != string(want) {
		t.Errorf("golden file mismatch for %s:\n--- want ---\n%s\n--- got ---\n%s",
			name, string(want), string(got))
	}
}

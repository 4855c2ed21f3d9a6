package report_test

import (
	"PayLedger/internal/engine"
	"PayLedger/internal/record"
	"PayLedger/internal/report"
	"PayLedger/internal/testutil"
	"bytes"
	"strings"
	"testing"
)

func TestWriteAccounts_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteAccounts(&buf, nil); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}
	if buf.String() != "client,available,held,total,locked\n" {
		t.Errorf("empty snapshot output: got %q", buf.String())
	}
}

func TestWriteAccounts_FourDecimalDigits(t *testing.T) {
	e := engine.New()
	for _, rec := range []record.Record{
		testutil.Deposit(t, 1, 1, "10.0"),
		testutil.Deposit(t, 2, 2, "0.0001"),
	} {
		if _, err := e.Apply(rec); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := report.WriteAccounts(&buf, e.Snapshot()); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[1] != "1,10.0000,0.0000,10.0000,false" {
		t.Errorf("line 1: got %q", lines[1])
	}
	if lines[2] != "2,0.0001,0.0000,0.0001,false" {
		t.Errorf("line 2: got %q", lines[2])
	}
}

func TestWriteAccounts_Golden(t *testing.T) {
	e := engine.New()
	for _, rec := range []record.Record{
		testutil.Deposit(t, 2, 1, "100.0"),
		testutil.Deposit(t, 1, 2, "42.5"),
		testutil.Withdrawal(t, 2, 3, "30.0"),
		testutil.Dispute(t, 1, 2),
		testutil.Deposit(t, 3, 4, "7.77"),
		testutil.Dispute(t, 3, 4),
		testutil.Chargeback(t, 3, 4),
	} {
		if _, err := e.Apply(rec); err != nil {
			t.Fatalf("apply %s tx %d: %v", rec.Type, rec.TxID, err)
		}
	}

	var buf bytes.Buffer
	if err := report.WriteAccounts(&buf, e.Snapshot()); err != nil {
		t.Fatalf("WriteAccounts: %v", err)
	}
	testutil.AssertGolden(t, "accounts.golden", buf.Bytes())
}

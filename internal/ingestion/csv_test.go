package ingestion_test

import (
	"PayLedger/internal/ingestion"
	"PayLedger/internal/money"
	"PayLedger/internal/record"
	"PayLedger/internal/testutil"
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string) []record.Record {
	t.Helper()
	r := ingestion.NewReader(strings.NewReader(input))

	var recs []record.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return recs
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		recs = append(recs, rec)
	}
}

func readErr(t *testing.T, input string) error {
	t.Helper()
	r := ingestion.NewReader(strings.NewReader(input))
	for {
		_, err := r.Next()
		if err == io.EOF {
			t.Fatal("expected a parse error, got clean EOF")
		}
		if err != nil {
			return err
		}
	}
}

func TestNext_DepositRow(t *testing.T) {
	recs := readAll(t, "type,client,tx,amount\ndeposit,1,1,10.5\n")
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}

	rec := recs[0]
	if rec.Type != record.RecordTypeDeposit {
		t.Errorf("type: got %s, want deposit", rec.Type)
	}
	if rec.ClientID != 1 || rec.TxID != 1 {
		t.Errorf("ids: got client %d tx %d, want 1/1", rec.ClientID, rec.TxID)
	}
	if !rec.HasAmount || rec.Amount != testutil.Amount(t, "10.5") {
		t.Errorf("amount: got %s (has=%v), want 10.5000", rec.Amount, rec.HasAmount)
	}
}

func TestNext_DisputeChainRows(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,5.0\n" +
		"dispute,1,1,\n" +
		"resolve,1,1,\n" +
		"chargeback,1,1,\n"

	recs := readAll(t, input)
	if len(recs) != 4 {
		t.Fatalf("got %d records, want 4", len(recs))
	}
	for _, rec := range recs[1:] {
		if rec.HasAmount {
			t.Errorf("%s should carry no amount", rec.Type)
		}
	}
}

func TestNext_MissingAmountColumn(t *testing.T) {
	// Dispute-chain rows may omit the trailing column entirely.
	recs := readAll(t, "type,client,tx,amount\ndeposit,1,1,5.0\ndispute,1,1\n")
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[1].Type != record.RecordTypeDispute {
		t.Errorf("type: got %s, want dispute", recs[1].Type)
	}
}

func TestNext_WhitespaceTolerated(t *testing.T) {
	recs := readAll(t, "type, client, tx, amount\nwithdrawal, 42, 7, 1.2345\n")
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Type != record.RecordTypeWithdrawal || rec.ClientID != 42 || rec.TxID != 7 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Amount != testutil.Amount(t, "1.2345") {
		t.Errorf("amount: got %s, want 1.2345", rec.Amount)
	}
}

func TestNext_BadHeader(t *testing.T) {
	if err := readErr(t, "kind,client,tx,amount\ndeposit,1,1,1.0\n"); err == nil {
		t.Error("bad header should fail")
	}
}

func TestNext_UnknownType(t *testing.T) {
	err := readErr(t, "type,client,tx,amount\ntransfer,1,1,1.0\n")
	if err == nil || !strings.Contains(err.Error(), "unknown record type") {
		t.Errorf("expected unknown record type error, got %v", err)
	}
}

func TestNext_BadClientID(t *testing.T) {
	// 70000 exceeds uint16.
	if err := readErr(t, "type,client,tx,amount\ndeposit,70000,1,1.0\n"); err == nil {
		t.Error("out-of-range client id should fail")
	}
	if err := readErr(t, "type,client,tx,amount\ndeposit,abc,1,1.0\n"); err == nil {
		t.Error("non-numeric client id should fail")
	}
}

func TestNext_MissingDepositAmount(t *testing.T) {
	err := readErr(t, "type,client,tx,amount\ndeposit,1,1,\n")
	if err == nil || !strings.Contains(err.Error(), "requires an amount") {
		t.Errorf("expected missing amount error, got %v", err)
	}
}

func TestNext_NegativeAmount(t *testing.T) {
	err := readErr(t, "type,client,tx,amount\ndeposit,1,1,-1.0\n")
	if err == nil || !strings.Contains(err.Error(), "negative") {
		t.Errorf("expected negative amount error, got %v", err)
	}
}

func TestNext_TooPreciseAmount(t *testing.T) {
	err := readErr(t, "type,client,tx,amount\ndeposit,1,1,1.00001\n")
	if !errors.Is(err, money.ErrPrecision) {
		t.Errorf("expected ErrPrecision, got %v", err)
	}
}

func TestNext_AmountOnDispute(t *testing.T) {
	err := readErr(t, "type,client,tx,amount\ndeposit,1,1,1.0\ndispute,1,1,1.0\n")
	if err == nil || !strings.Contains(err.Error(), "must not carry an amount") {
		t.Errorf("expected amount-on-dispute error, got %v", err)
	}
}

func TestNext_EmptyInput(t *testing.T) {
	r := ingestion.NewReader(strings.NewReader(""))
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("empty input: got %v, want io.EOF", err)
	}
}

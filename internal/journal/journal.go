package journal

import (
	"PayLedger/internal/money"

	"github.com/google/uuid"
)

// EntryType represents the purpose of a journal entry.
type EntryType int32

const (
	EntryTypeDeposit EntryType = iota
	EntryTypeWithdrawal
	EntryTypeDisputeHold
	EntryTypeResolveRelease
	EntryTypeChargebackDebit
)

func (et EntryType) String() string {
	switch et {
	case EntryTypeDeposit:
		return "deposit"
	case EntryTypeWithdrawal:
		return "withdrawal"
	case EntryTypeDisputeHold:
		return "dispute_hold"
	case EntryTypeResolveRelease:
		return "resolve_release"
	case EntryTypeChargebackDebit:
		return "chargeback_debit"
	default:
		return "unknown"
	}
}

// Entry records one applied balance mutation. Skipped operations are
// never journaled; the engine keeps no audit trail of rejects.
type Entry struct {
	EntryID  uuid.UUID
	Sequence int64
	Type     EntryType
	ClientID uint16
	TxID     uint32
	Amount   money.Amount // Magnitude moved, sign per the mutation
}

// Journal is an in-memory append-only log of applied mutations,
// ordered by assignment of a monotonic sequence.
type Journal struct {
	sequence int64
	entries  []Entry
}

func New() *Journal {
	return &Journal{}
}

// Append records a mutation and assigns it the next sequence number.
func (j *Journal) Append(entryType EntryType, clientID uint16, txID uint32, amount money.Amount) Entry {
	e := Entry{
		EntryID:  uuid.New(),
		Sequence: j.sequence,
		Type:     entryType,
		ClientID: clientID,
		TxID:     txID,
		Amount:   amount,
	}
	j.sequence++
	j.entries = append(j.entries, e)
	return e
}

// Entries returns a copy of all recorded entries in append order.
func (j *Journal) Entries() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

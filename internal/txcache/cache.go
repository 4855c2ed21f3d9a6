package txcache

import (
	"errors"
	"fmt"

	"PayLedger/internal/money"
)

// EntryKind classifies the cached money movement.
type EntryKind int32

const (
	KindDeposit EntryKind = iota
	KindWithdrawal
)

func (k EntryKind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// DisputeState is the per-transaction dispute state machine:
// None -> Disputed -> ResolvedFinal. ResolvedFinal is terminal and
// covers both resolve and chargeback outcomes.
type DisputeState int32

const (
	DisputeNone DisputeState = iota
	DisputeOpen
	DisputeResolvedFinal
)

func (s DisputeState) String() string {
	switch s {
	case DisputeNone:
		return "none"
	case DisputeOpen:
		return "disputed"
	case DisputeResolvedFinal:
		return "resolved_final"
	default:
		return "unknown"
	}
}

var (
	// ErrDuplicateTransaction is returned when a transaction id is
	// reused for a new deposit or withdrawal. The caller treats this
	// as fatal for the whole run.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")

	// ErrUnknownTransaction is returned by state transitions on ids
	// the cache has never seen.
	ErrUnknownTransaction = errors.New("unknown transaction id")

	// ErrBadDisputeState is returned when a transition's precondition
	// on the entry's dispute state does not hold.
	ErrBadDisputeState = errors.New("dispute state precondition violated")
)

// Entry is the cached image of one applied deposit or withdrawal.
// Amount carries the sign convention: positive for deposits, negative
// for withdrawals, so dispute reversal is a uniform magnitude move.
type Entry struct {
	ClientID uint16
	Amount   money.Amount
	Kind     EntryKind
	State    DisputeState
}

// Cache is the append-only transaction store backing dispute handling.
//
// Entries are never evicted: the whole record stream must fit the host
// process. Memory is O(n) in stream length in exchange for O(1) dispute
// lookup, which is the principal scalability limit of this design. A
// bounded-memory variant would swap the map for an indexed external
// store behind this same Put/Get/Mark contract.
type Cache struct {
	entries map[uint32]*Entry
}

func New() *Cache {
	return &Cache{
		entries: make(map[uint32]*Entry),
	}
}

// Put inserts a new entry in state DisputeNone. Reusing a transaction
// id fails with ErrDuplicateTransaction; entries are never replaced.
func (c *Cache) Put(txID uint32, clientID uint16, amount money.Amount, kind EntryKind) error {
	if _, exists := c.entries[txID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateTransaction, txID)
	}
	c.entries[txID] = &Entry{
		ClientID: clientID,
		Amount:   amount,
		Kind:     kind,
		State:    DisputeNone,
	}
	return nil
}

// Get returns a copy of the entry for txID. Absence is a normal
// outcome; the engine uses it to silently ignore dispute-chain
// records referencing unknown transactions.
func (c *Cache) Get(txID uint32) (Entry, bool) {
	e, ok := c.entries[txID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// MarkDisputed transitions None -> Disputed.
func (c *Cache) MarkDisputed(txID uint32) error {
	e, ok := c.entries[txID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTransaction, txID)
	}
	if e.State != DisputeNone {
		return fmt.Errorf("%w: tx %d is %s, want %s", ErrBadDisputeState, txID, e.State, DisputeNone)
	}
	e.State = DisputeOpen
	return nil
}

// MarkResolved transitions Disputed -> ResolvedFinal. Both resolve and
// chargeback land here; the terminal state rejects any further
// dispute-chain transition on the same transaction.
func (c *Cache) MarkResolved(txID uint32) error {
	e, ok := c.entries[txID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTransaction, txID)
	}
	if e.State != DisputeOpen {
		return fmt.Errorf("%w: tx %d is %s, want %s", ErrBadDisputeState, txID, e.State, DisputeOpen)
	}
	e.State = DisputeResolvedFinal
	return nil
}

// Len returns the number of cached transactions.
func (c *Cache) Len() int {
	return len(c.entries)
}

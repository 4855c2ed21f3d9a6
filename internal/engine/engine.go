// Package engine implements the single-pass ledger core: it replays
// transaction records against per-client accounts, tracking disputes
// through resolve/chargeback outcomes via the transaction cache.
package engine

import (
	"fmt"
	"sort"
	"time"

	"PayLedger/internal/journal"
	"PayLedger/internal/money"
	"PayLedger/internal/observability"
	"PayLedger/internal/record"
	"PayLedger/internal/txcache"
)

// Engine is the single-threaded record processor. It owns one Account
// per client and the transaction cache; the caller drives it one
// record at a time, strictly in arrival order.
type Engine struct {
	accounts map[uint16]*Account
	cache    *txcache.Cache
	journal  *journal.Journal
	metrics  *observability.Metrics
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithJournal records every applied balance mutation to j.
func WithJournal(j *journal.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithMetrics wires Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		accounts: make(map[uint16]*Account),
		cache:    txcache.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply processes one record. A non-nil error is fatal for the run
// (duplicate transaction id, fixed-point overflow, malformed record,
// invariant breach) and the caller must stop feeding records. All
// other rejected operations return a skip Outcome with a nil error and
// leave every balance untouched.
func (e *Engine) Apply(rec record.Record) (Outcome, error) {
	start := time.Now()

	outcome, err := e.dispatch(rec)
	if err != nil {
		return outcome, err
	}

	if e.metrics != nil {
		recordType := rec.Type.String()
		if outcome.Skipped() {
			e.metrics.RecordsSkipped.WithLabelValues(recordType, outcome.String()).Inc()
		} else {
			e.metrics.RecordsApplied.WithLabelValues(recordType).Inc()
		}
		e.metrics.ApplyDuration.WithLabelValues(recordType).Observe(time.Since(start).Seconds())
		e.metrics.AccountsTracked.Set(float64(len(e.accounts)))
		e.metrics.CachedTransactions.Set(float64(e.cache.Len()))
	}

	return outcome, nil
}

func (e *Engine) dispatch(rec record.Record) (Outcome, error) {
	switch rec.Type {
	case record.RecordTypeDeposit:
		return e.applyDeposit(rec)
	case record.RecordTypeWithdrawal:
		return e.applyWithdrawal(rec)
	case record.RecordTypeDispute:
		return e.applyDispute(rec)
	case record.RecordTypeResolve:
		return e.applyResolve(rec)
	case record.RecordTypeChargeback:
		return e.applyChargeback(rec)
	default:
		return OutcomeApplied, fmt.Errorf("unknown record type: %d", rec.Type)
	}
}

// account returns the client's account, creating it lazily on first
// reference. Accounts are never removed.
func (e *Engine) account(clientID uint16) *Account {
	acct, ok := e.accounts[clientID]
	if !ok {
		acct = &Account{ClientID: clientID}
		e.accounts[clientID] = acct
	}
	return acct
}

func (e *Engine) applyDeposit(rec record.Record) (Outcome, error) {
	if !rec.HasAmount || rec.Amount.IsNegative() {
		return OutcomeApplied, fmt.Errorf("deposit tx %d: missing or negative amount", rec.TxID)
	}

	acct := e.account(rec.ClientID)
	if acct.Locked {
		return OutcomeSkippedAccountLocked, nil
	}

	// Stage the new balances before inserting into the cache so a
	// fatal error on either side leaves no half-applied record.
	newAvailable, err := acct.Available.Add(rec.Amount)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("deposit tx %d: %w", rec.TxID, err)
	}
	newTotal, err := acct.Total.Add(rec.Amount)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("deposit tx %d: %w", rec.TxID, err)
	}

	if err := e.cache.Put(rec.TxID, rec.ClientID, rec.Amount, txcache.KindDeposit); err != nil {
		return OutcomeApplied, fmt.Errorf("deposit: %w", err)
	}

	acct.Available = newAvailable
	acct.Total = newTotal

	e.appendJournal(journal.EntryTypeDeposit, rec.ClientID, rec.TxID, rec.Amount)
	return OutcomeApplied, acct.checkInvariants()
}

func (e *Engine) applyWithdrawal(rec record.Record) (Outcome, error) {
	if !rec.HasAmount || rec.Amount.IsNegative() {
		return OutcomeApplied, fmt.Errorf("withdrawal tx %d: missing or negative amount", rec.TxID)
	}

	acct := e.account(rec.ClientID)
	if acct.Locked {
		return OutcomeSkippedAccountLocked, nil
	}
	if acct.Available < rec.Amount {
		// Skipped withdrawals are never cached, so they can never be
		// disputed later.
		return OutcomeSkippedInsufficientFunds, nil
	}

	newAvailable, err := acct.Available.Sub(rec.Amount)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("withdrawal tx %d: %w", rec.TxID, err)
	}
	newTotal, err := acct.Total.Sub(rec.Amount)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("withdrawal tx %d: %w", rec.TxID, err)
	}

	// Stored negative so dispute reversal is a uniform magnitude move.
	if err := e.cache.Put(rec.TxID, rec.ClientID, rec.Amount.Neg(), txcache.KindWithdrawal); err != nil {
		return OutcomeApplied, fmt.Errorf("withdrawal: %w", err)
	}

	acct.Available = newAvailable
	acct.Total = newTotal

	e.appendJournal(journal.EntryTypeWithdrawal, rec.ClientID, rec.TxID, rec.Amount.Neg())
	return OutcomeApplied, acct.checkInvariants()
}

// applyDispute moves the disputed magnitude from available to held.
// Disputes apply even on locked accounts: locking only blocks
// forward-moving money, never dispute-chain operations on transactions
// that predate the lock.
func (e *Engine) applyDispute(rec record.Record) (Outcome, error) {
	entry, ok := e.cache.Get(rec.TxID)
	if !ok {
		return OutcomeSkippedUnknownTransaction, nil
	}
	if entry.ClientID != rec.ClientID {
		return OutcomeSkippedClientMismatch, nil
	}
	if entry.State != txcache.DisputeNone {
		return OutcomeSkippedBadDisputeState, nil
	}

	acct := e.account(rec.ClientID)
	magnitude := entry.Amount.Abs()

	newAvailable, err := acct.Available.Sub(magnitude)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("dispute tx %d: %w", rec.TxID, err)
	}
	newHeld, err := acct.Held.Add(magnitude)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("dispute tx %d: %w", rec.TxID, err)
	}

	if err := e.cache.MarkDisputed(rec.TxID); err != nil {
		// Precondition was checked above; failing here is an engine fault.
		return OutcomeApplied, fmt.Errorf("dispute tx %d: %w", rec.TxID, err)
	}

	acct.Available = newAvailable
	acct.Held = newHeld

	if e.metrics != nil {
		e.metrics.DisputesOpen.Inc()
	}
	e.appendJournal(journal.EntryTypeDisputeHold, rec.ClientID, rec.TxID, magnitude)
	return OutcomeApplied, acct.checkInvariants()
}

// applyResolve releases held funds back to available, closing the
// dispute terminally.
func (e *Engine) applyResolve(rec record.Record) (Outcome, error) {
	entry, ok := e.cache.Get(rec.TxID)
	if !ok {
		return OutcomeSkippedUnknownTransaction, nil
	}
	if entry.ClientID != rec.ClientID {
		return OutcomeSkippedClientMismatch, nil
	}
	if entry.State != txcache.DisputeOpen {
		return OutcomeSkippedBadDisputeState, nil
	}

	acct := e.account(rec.ClientID)
	magnitude := entry.Amount.Abs()

	newHeld, err := acct.Held.Sub(magnitude)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("resolve tx %d: %w", rec.TxID, err)
	}
	newAvailable, err := acct.Available.Add(magnitude)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("resolve tx %d: %w", rec.TxID, err)
	}

	if err := e.cache.MarkResolved(rec.TxID); err != nil {
		return OutcomeApplied, fmt.Errorf("resolve tx %d: %w", rec.TxID, err)
	}

	acct.Held = newHeld
	acct.Available = newAvailable

	if e.metrics != nil {
		e.metrics.DisputesOpen.Dec()
	}
	e.appendJournal(journal.EntryTypeResolveRelease, rec.ClientID, rec.TxID, magnitude)
	return OutcomeApplied, acct.checkInvariants()
}

// applyChargeback permanently withdraws the held funds and freezes the
// account.
func (e *Engine) applyChargeback(rec record.Record) (Outcome, error) {
	entry, ok := e.cache.Get(rec.TxID)
	if !ok {
		return OutcomeSkippedUnknownTransaction, nil
	}
	if entry.ClientID != rec.ClientID {
		return OutcomeSkippedClientMismatch, nil
	}
	if entry.State != txcache.DisputeOpen {
		return OutcomeSkippedBadDisputeState, nil
	}

	acct := e.account(rec.ClientID)
	magnitude := entry.Amount.Abs()

	newHeld, err := acct.Held.Sub(magnitude)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("chargeback tx %d: %w", rec.TxID, err)
	}
	newTotal, err := acct.Total.Sub(magnitude)
	if err != nil {
		return OutcomeApplied, fmt.Errorf("chargeback tx %d: %w", rec.TxID, err)
	}

	if err := e.cache.MarkResolved(rec.TxID); err != nil {
		return OutcomeApplied, fmt.Errorf("chargeback tx %d: %w", rec.TxID, err)
	}

	acct.Held = newHeld
	acct.Total = newTotal
	acct.Locked = true

	if e.metrics != nil {
		e.metrics.DisputesOpen.Dec()
		e.metrics.AccountsLocked.Inc()
	}
	e.appendJournal(journal.EntryTypeChargebackDebit, rec.ClientID, rec.TxID, magnitude)
	return OutcomeApplied, acct.checkInvariants()
}

func (e *Engine) appendJournal(entryType journal.EntryType, clientID uint16, txID uint32, amount money.Amount) {
	if e.journal != nil {
		e.journal.Append(entryType, clientID, txID, amount)
	}
}

// Snapshot returns a point-in-time copy of every account currently
// known, sorted by client id for deterministic output. The returned
// values are independent copies, not live references.
func (e *Engine) Snapshot() []Snapshot {
	snaps := make([]Snapshot, 0, len(e.accounts))
	for _, acct := range e.accounts {
		snaps = append(snaps, acct.snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].ClientID < snaps[j].ClientID
	})
	return snaps
}

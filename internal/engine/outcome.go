package engine

// Outcome classifies the effect of applying one record. Skips leave
// all state untouched; the reason is carried in the return type so
// tests and side-channel logging can observe it. An Outcome is
// meaningful only when Apply returned a nil error.
type Outcome int32

const (
	OutcomeApplied Outcome = iota
	OutcomeSkippedInsufficientFunds
	OutcomeSkippedAccountLocked
	OutcomeSkippedUnknownTransaction
	OutcomeSkippedBadDisputeState
	OutcomeSkippedClientMismatch
)

// Skipped reports whether the record had no effect.
func (o Outcome) Skipped() bool {
	return o != OutcomeApplied
}

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkippedInsufficientFunds:
		return "insufficient_funds"
	case OutcomeSkippedAccountLocked:
		return "account_locked"
	case OutcomeSkippedUnknownTransaction:
		return "unknown_transaction"
	case OutcomeSkippedBadDisputeState:
		return "bad_dispute_state"
	case OutcomeSkippedClientMismatch:
		return "client_mismatch"
	default:
		return "unknown"
	}
}

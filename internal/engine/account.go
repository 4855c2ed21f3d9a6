package engine

import (
	"fmt"

	"PayLedger/internal/money"
)

// Account is the mutable balance state for one client. The engine
// maintains Total == Available + Held at every mutation instead of
// recomputing it lazily, so drift is caught immediately.
type Account struct {
	ClientID  uint16
	Available money.Amount
	Held      money.Amount
	Total     money.Amount
	Locked    bool
}

// Snapshot is a read-only, point-in-time copy of one account. Values
// are independent copies; mutating them cannot reach engine state.
type Snapshot struct {
	ClientID  uint16
	Available money.Amount
	Held      money.Amount
	Total     money.Amount
	Locked    bool
}

func (a *Account) snapshot() Snapshot {
	return Snapshot{
		ClientID:  a.ClientID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total,
		Locked:    a.Locked,
	}
}

// checkInvariants verifies Total == Available + Held and Held >= 0.
// A violation means the engine itself mis-applied a mutation; the run
// aborts rather than emitting drifted balances.
func (a *Account) checkInvariants() error {
	sum, err := a.Available.Add(a.Held)
	if err != nil {
		return fmt.Errorf("account %d: available + held: %w", a.ClientID, err)
	}
	if sum != a.Total {
		return fmt.Errorf("account %d: total %s != available %s + held %s",
			a.ClientID, a.Total, a.Available, a.Held)
	}
	if a.Held.IsNegative() {
		return fmt.Errorf("account %d: negative held balance %s", a.ClientID, a.Held)
	}
	return nil
}

package record

import (
	"fmt"

	"PayLedger/internal/money"
)

// RecordType discriminates transaction records.
type RecordType int32

const (
	RecordTypeUnknown RecordType = iota
	RecordTypeDeposit
	RecordTypeWithdrawal
	RecordTypeDispute
	RecordTypeResolve
	RecordTypeChargeback
)

// Record is one well-typed transaction record from the input stream.
// Amount is meaningful only when HasAmount is set; dispute-chain
// records (dispute, resolve, chargeback) reference a prior transaction
// by TxID and carry no amount of their own.
type Record struct {
	Type      RecordType
	ClientID  uint16
	TxID      uint32
	Amount    money.Amount
	HasAmount bool
}

// MovesFunds reports whether the record type creates a new money
// movement (deposit or withdrawal) as opposed to referencing one.
func (rt RecordType) MovesFunds() bool {
	return rt == RecordTypeDeposit || rt == RecordTypeWithdrawal
}

func (rt RecordType) String() string {
	switch rt {
	case RecordTypeDeposit:
		return "deposit"
	case RecordTypeWithdrawal:
		return "withdrawal"
	case RecordTypeDispute:
		return "dispute"
	case RecordTypeResolve:
		return "resolve"
	case RecordTypeChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// ParseRecordType converts the wire-level type column into a RecordType.
func ParseRecordType(s string) (RecordType, error) {
	switch s {
	case "deposit":
		return RecordTypeDeposit, nil
	case "withdrawal":
		return RecordTypeWithdrawal, nil
	case "dispute":
		return RecordTypeDispute, nil
	case "resolve":
		return RecordTypeResolve, nil
	case "chargeback":
		return RecordTypeChargeback, nil
	default:
		return RecordTypeUnknown, fmt.Errorf("unknown record type: %q", s)
	}
}

package application

import "fmt"

// ErrInvalidAmount rejects a contribution before any state change: the
// amount is non-positive or not an exact multiple of the engine's current
// unit price.
type ErrInvalidAmount struct {
	Amount    uint64
	UnitPrice uint64
}

func (e ErrInvalidAmount) Error() string {
	return fmt.Sprintf(
		"invalid contribution amount %d: must be a positive multiple of unit price %d",
		e.Amount, e.UnitPrice,
	)
}

// ErrAccountingMismatch signals that the engine's reported stake diverged
// from the ledger's local fee/price computation. The contribution is not
// recorded; the drift must not be silently absorbed.
type ErrAccountingMismatch struct {
	Expected uint64
	Reported uint64
}

func (e ErrAccountingMismatch) Error() string {
	return fmt.Sprintf(
		"engine stake mismatch: expected delta %d, engine reported %d",
		e.Expected, e.Reported,
	)
}

// ErrDuplicateCapture is a defensive invariant violation: a round already
// present in the prize history was about to be captured again.
type ErrDuplicateCapture struct {
	PoolAddress string
	Round       uint64
}

func (e ErrDuplicateCapture) Error() string {
	return fmt.Sprintf(
		"prize for round %d of pool %s already captured", e.Round, e.PoolAddress,
	)
}

// ErrPayoutMismatch signals that the engine's withdrawal moved a different
// amount than it reported as claimable.
type ErrPayoutMismatch struct {
	Reported uint64
	Received uint64
}

func (e ErrPayoutMismatch) Error() string {
	return fmt.Sprintf(
		"engine withdrawal mismatch: reported claimable %d, balance increased by %d",
		e.Reported, e.Received,
	)
}

type ErrPoolNotFound struct {
	Address string
}

func (e ErrPoolNotFound) Error() string {
	return fmt.Sprintf("pool %s not found", e.Address)
}

type ErrPoolExists struct {
	Address string
}

func (e ErrPoolExists) Error() string {
	return fmt.Sprintf("pool %s already exists", e.Address)
}

package domain

// Contribution is the fee-adjusted stake a participant holds in a pool for
// a single round. The stake grows monotonically as the participant
// contributes again within the same round; entries are never deleted.
type Contribution struct {
	PoolAddress string
	Participant string
	Round       RoundID
	Stake       uint64
}

// RoundStake is the pool-wide stake total for a round. For every round it
// must equal the sum of all Contribution stakes recorded for that round.
type RoundStake struct {
	PoolAddress string
	Round       RoundID
	TotalStake  uint64
}

// PrizeCapture records the prize pulled into pool custody for a round. A
// round is captured at most once; captures are append-only and immutable.
// Seq preserves insertion order across the capture history.
type PrizeCapture struct {
	PoolAddress string
	Round       RoundID
	Amount      uint64
	Seq         uint64
	CapturedAt  int64
}

// Payout tracks the cumulative amount already paid to a participant for a
// captured round. Paid never decreases and never exceeds the participant's
// floored pro-rata entitlement.
type Payout struct {
	PoolAddress string
	Participant string
	Round       RoundID
	Paid        uint64
}

package domain

import "context"

type LedgerRepository interface {
	// AddContribution increments both the (participant, round) stake entry
	// and the round total in a single atomic write, so the conservation
	// invariant between the two can never be observed broken.
	AddContribution(
		ctx context.Context, poolAddr, participant string, round RoundID, stake uint64,
	) error
	// GetStake returns 0 for participants without an entry for the round.
	GetStake(
		ctx context.Context, poolAddr, participant string, round RoundID,
	) (uint64, error)
	GetRoundStake(ctx context.Context, poolAddr string, round RoundID) (uint64, error)
	GetContributionsForRound(
		ctx context.Context, poolAddr string, round RoundID,
	) ([]Contribution, error)
	Close()
}

type PrizeRepository interface {
	// AddCapture appends a capture to the pool's prize history. It fails if
	// the round already has a capture.
	AddCapture(ctx context.Context, capture PrizeCapture) error
	// GetCapture returns nil without error when the round was never captured.
	GetCapture(ctx context.Context, poolAddr string, round RoundID) (*PrizeCapture, error)
	// GetCaptures returns the full history in insertion order.
	GetCaptures(ctx context.Context, poolAddr string) ([]PrizeCapture, error)
	Close()
}

type PayoutRepository interface {
	// GetPaid returns 0 for (participant, round) pairs never paid.
	GetPaid(
		ctx context.Context, poolAddr, participant string, round RoundID,
	) (uint64, error)
	// UpsertPayouts writes the given cumulative payout entries atomically.
	UpsertPayouts(ctx context.Context, payouts []Payout) error
	GetPayoutsForParticipant(
		ctx context.Context, poolAddr, participant string,
	) ([]Payout, error)
	Close()
}

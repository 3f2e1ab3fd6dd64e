package ports

import (
	"context"

	"github.com/lottopool/poold/internal/core/domain"
)

// PoolEngineStatus is the (active, stake, claimable) triple the engine
// reports for a single pool account. Stake is fee-adjusted and scoped to
// the engine's current round; Claimable is the prize pending withdrawal.
type PoolEngineStatus struct {
	Active    bool
	Stake     uint64
	Claimable uint64
}

// LotteryEngine is the external draw operator. Every value it reports is
// treated as a claim to be verified against balance deltas, never as
// ground truth.
type LotteryEngine interface {
	ID() string
	UnitPrice(ctx context.Context) (uint64, error)
	FeeBasisPoints(ctx context.Context) (uint64, error)
	CurrentRound(ctx context.Context) (domain.RoundID, error)
	PoolStatus(ctx context.Context, poolAddr string) (*PoolEngineStatus, error)
	// Contribute forwards a contribution on behalf of the pool. The engine
	// draws amount from the pool's allowance; the referrer is passed through
	// opaquely.
	Contribute(ctx context.Context, referrer string, amount uint64, poolAddr string) error
	// WithdrawClaimable pays the pool's pending prize out to the pool's
	// token account and resets its claimable balance.
	WithdrawClaimable(ctx context.Context, poolAddr string) error
	Close()
}

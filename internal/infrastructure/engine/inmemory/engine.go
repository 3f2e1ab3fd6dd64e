package inmemoryengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lottopool/poold/internal/core/domain"
	"github.com/lottopool/poold/internal/core/ports"
)

const feeBasisPointsScale = 10_000

type poolState struct {
	active     bool
	stake      uint64
	stakeRound domain.RoundID
	claimable  uint64
}

// engine simulates a lottery engine for dev and test runs. Rounds advance
// with the wall clock when a round duration is configured, or manually via
// AdvanceRound otherwise. Prizes are seeded through AwardPrize.
type engine struct {
	mu sync.Mutex

	id            string
	unitPrice     uint64
	feeBps        uint64
	roundDuration time.Duration
	manualRound   domain.RoundID

	token ports.TokenService
	pools map[string]*poolState
}

type Engine interface {
	ports.LotteryEngine
	// AdvanceRound moves the round marker forward when no round duration is
	// configured.
	AdvanceRound()
	// AwardPrize marks a pool as winner of the current round. The prize is
	// minted to the engine's own account so a later withdrawal can pay it.
	AwardPrize(poolAddr string, amount uint64) error
}

func NewEngine(
	id string, unitPrice, feeBps uint64,
	roundDuration time.Duration, token ports.TokenService,
) (Engine, error) {
	if len(id) <= 0 {
		return nil, fmt.Errorf("missing engine id")
	}
	if unitPrice == 0 {
		return nil, fmt.Errorf("unit price must be positive")
	}
	if feeBps > feeBasisPointsScale {
		return nil, fmt.Errorf("fee above %d bps", feeBasisPointsScale)
	}

	return &engine{
		id:            id,
		unitPrice:     unitPrice,
		feeBps:        feeBps,
		roundDuration: roundDuration,
		manualRound:   domain.RoundID(time.Now().Unix()),
		token:         token,
		pools:         make(map[string]*poolState),
	}, nil
}

func (e *engine) ID() string {
	return e.id
}

func (e *engine) UnitPrice(_ context.Context) (uint64, error) {
	return e.unitPrice, nil
}

func (e *engine) FeeBasisPoints(_ context.Context) (uint64, error) {
	return e.feeBps, nil
}

func (e *engine) CurrentRound(_ context.Context) (domain.RoundID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentRound(), nil
}

func (e *engine) PoolStatus(
	_ context.Context, poolAddr string,
) (*ports.PoolEngineStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.pools[poolAddr]
	if !ok {
		return &ports.PoolEngineStatus{}, nil
	}

	stake := state.stake
	if state.stakeRound != e.currentRound() {
		// stakes are reset at every round boundary
		stake = 0
	}
	return &ports.PoolEngineStatus{
		Active:    state.active,
		Stake:     stake,
		Claimable: state.claimable,
	}, nil
}

func (e *engine) Contribute(
	ctx context.Context, _ string, amount uint64, poolAddr string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount == 0 || amount%e.unitPrice != 0 {
		return fmt.Errorf("amount must be a positive multiple of %d", e.unitPrice)
	}
	// draw the funds through the allowance the pool approved
	if err := e.token.TransferFrom(ctx, e.id, poolAddr, e.id, amount); err != nil {
		return fmt.Errorf("failed to draw contribution: %w", err)
	}

	state, ok := e.pools[poolAddr]
	if !ok {
		state = &poolState{}
		e.pools[poolAddr] = state
	}
	current := e.currentRound()
	if state.stakeRound != current {
		state.stake = 0
		state.stakeRound = current
	}
	state.active = true
	state.stake += (amount / e.unitPrice) * (feeBasisPointsScale - e.feeBps)
	return nil
}

func (e *engine) WithdrawClaimable(ctx context.Context, poolAddr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.pools[poolAddr]
	if !ok || state.claimable == 0 {
		return nil
	}
	if err := e.token.Transfer(ctx, e.id, poolAddr, state.claimable); err != nil {
		return fmt.Errorf("failed to pay out prize: %w", err)
	}
	state.claimable = 0
	return nil
}

func (e *engine) Close() {}

func (e *engine) AdvanceRound() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.manualRound++
}

func (e *engine) AwardPrize(poolAddr string, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.pools[poolAddr]
	if !ok {
		return fmt.Errorf("pool %s never contributed", poolAddr)
	}
	minter, ok := e.token.(interface {
		Mint(account string, amount uint64)
	})
	if !ok {
		return fmt.Errorf("token service cannot issue prize funds")
	}
	minter.Mint(e.id, amount)
	state.claimable += amount
	return nil
}

func (e *engine) currentRound() domain.RoundID {
	if e.roundDuration > 0 {
		return domain.RoundID(time.Now().Truncate(e.roundDuration).Unix())
	}
	return e.manualRound
}

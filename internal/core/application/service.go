package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lottopool/poold/internal/core/domain"
	"github.com/lottopool/poold/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// feeBasisPointsScale represents whole units in basis points: a fee of 500
// bps reduces the effective stake by exactly 5%.
const feeBasisPointsScale = 10_000

type Service interface {
	Start() error
	Stop()

	CreatePool(ctx context.Context, creator, salt string) (*domain.Pool, error)
	Contribute(
		ctx context.Context,
		poolAddr, contributor, attributeTo, referrer string, amount uint64,
	) (uint64, error)
	CaptureWinnings(ctx context.Context, poolAddr string) (uint64, error)
	Claim(ctx context.Context, poolAddr, participant string) (uint64, error)

	Claimable(ctx context.Context, poolAddr, participant string) (uint64, error)
	GetPoolInfo(ctx context.Context, poolAddr string) (*PoolInfo, error)
	GetCaptures(ctx context.Context, poolAddr string) ([]domain.PrizeCapture, error)
	GetPayouts(
		ctx context.Context, poolAddr, participant string,
	) ([]domain.Payout, error)
	GetEventsChannel(ctx context.Context) <-chan domain.Event
}

type PoolInfo struct {
	Pool         domain.Pool
	EngineStake  uint64
	PendingPrize uint64
}

type poolService struct {
	engine      ports.LotteryEngine
	token       ports.TokenService
	repoManager ports.RepoManager
	scheduler   ports.SchedulerService

	sweepInterval time.Duration

	// one mutating operation at a time; the ledger relies on a strict total
	// order of contributions, captures and claims
	mu sync.Mutex

	eventsCh chan domain.Event
}

func NewService(
	engine ports.LotteryEngine, token ports.TokenService,
	repoManager ports.RepoManager, scheduler ports.SchedulerService,
	sweepInterval time.Duration,
) (Service, error) {
	if engine == nil || token == nil || repoManager == nil {
		return nil, fmt.Errorf("missing engine, token or repo manager")
	}

	return &poolService{
		engine:        engine,
		token:         token,
		repoManager:   repoManager,
		scheduler:     scheduler,
		sweepInterval: sweepInterval,
		eventsCh:      make(chan domain.Event, 128),
	}, nil
}

func (s *poolService) Start() error {
	if s.scheduler != nil && s.sweepInterval > 0 {
		if err := s.scheduler.ScheduleTaskEvery(s.sweepInterval, s.sweepAllPools); err != nil {
			return fmt.Errorf("failed to schedule capture sweep: %w", err)
		}
		s.scheduler.Start()
	}
	return nil
}

func (s *poolService) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *poolService) CreatePool(
	ctx context.Context, creator, salt string,
) (*domain.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := domain.DerivePoolAddress(s.engine.ID(), creator, salt)
	if pool, _ := s.repoManager.Pools().GetPool(ctx, addr); pool != nil {
		return nil, ErrPoolExists{addr}
	}

	currentRound, err := s.engine.CurrentRound(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current round: %w", err)
	}

	pool, err := domain.NewPool(s.engine.ID(), creator, salt, currentRound, time.Now().Unix())
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.Pools().AddPool(ctx, *pool); err != nil {
		return nil, fmt.Errorf("failed to persist pool: %w", err)
	}

	s.emit(domain.PoolCreated{
		Id:          uuid.New().String(),
		PoolAddress: pool.Address,
		EngineID:    pool.EngineID,
		Creator:     creator,
		Salt:        salt,
		Timestamp:   pool.CreatedAt,
	})
	log.WithField("pool", pool.Address).Info("pool created")

	return pool, nil
}

func (s *poolService) Contribute(
	ctx context.Context,
	poolAddr, contributor, attributeTo, referrer string, amount uint64,
) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.getPool(ctx, poolAddr)
	if err != nil {
		return 0, err
	}

	// sweep-then-advance before attributing the contribution to any round
	if err := s.syncRound(ctx, pool); err != nil {
		return 0, err
	}

	unitPrice, err := s.engine.UnitPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unit price: %w", err)
	}
	if unitPrice == 0 {
		return 0, fmt.Errorf("engine reported zero unit price")
	}
	if amount == 0 || amount%unitPrice != 0 {
		return 0, ErrInvalidAmount{Amount: amount, UnitPrice: unitPrice}
	}

	feeBps, err := s.engine.FeeBasisPoints(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch fee: %w", err)
	}
	if feeBps > feeBasisPointsScale {
		return 0, fmt.Errorf("engine reported fee above %d bps: %d", feeBasisPointsScale, feeBps)
	}

	stake, ok := feeAdjustedStake(amount, unitPrice, feeBps)
	if !ok {
		return 0, ErrInvalidAmount{Amount: amount, UnitPrice: unitPrice}
	}

	statusBefore, err := s.engine.PoolStatus(ctx, pool.Address)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pool status: %w", err)
	}

	if err := s.token.TransferFrom(
		ctx, pool.Address, contributor, pool.Address, amount,
	); err != nil {
		return 0, fmt.Errorf("failed to pull funds from contributor: %w", err)
	}
	if err := s.token.Approve(ctx, pool.Address, s.engine.ID(), amount); err != nil {
		s.refund(ctx, pool.Address, contributor, amount)
		return 0, fmt.Errorf("failed to authorize engine: %w", err)
	}
	if err := s.engine.Contribute(ctx, referrer, amount, pool.Address); err != nil {
		s.refund(ctx, pool.Address, contributor, amount)
		return 0, fmt.Errorf("engine rejected contribution: %w", err)
	}

	statusAfter, err := s.engine.PoolStatus(ctx, pool.Address)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pool status: %w", err)
	}
	if statusAfter.Stake != statusBefore.Stake+stake {
		err := ErrAccountingMismatch{
			Expected: stake,
			Reported: statusAfter.Stake - statusBefore.Stake,
		}
		log.WithError(err).WithField("pool", pool.Address).
			Error("engine fee/price model diverged from local ledger")
		return 0, err
	}

	if err := s.repoManager.Ledger().AddContribution(
		ctx, pool.Address, attributeTo, pool.CurrentRound, stake,
	); err != nil {
		return 0, fmt.Errorf("failed to record contribution: %w", err)
	}

	s.emit(domain.ContributionMade{
		Id:          uuid.New().String(),
		PoolAddress: pool.Address,
		Participant: attributeTo,
		Round:       pool.CurrentRound,
		Stake:       stake,
		Referrer:    referrer,
		Timestamp:   time.Now().Unix(),
	})
	log.WithFields(log.Fields{
		"pool":        pool.Address,
		"participant": attributeTo,
		"round":       pool.CurrentRound,
		"stake":       stake,
	}).Info("contribution recorded")

	return stake, nil
}

func (s *poolService) CaptureWinnings(
	ctx context.Context, poolAddr string,
) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.getPool(ctx, poolAddr)
	if err != nil {
		return 0, err
	}
	return s.capture(ctx, pool)
}

func (s *poolService) Claim(
	ctx context.Context, poolAddr, participant string,
) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.getPool(ctx, poolAddr)
	if err != nil {
		return 0, err
	}

	// sweep any pending prize before computing payouts, so a settled round
	// is claimable in the very same call
	if err := s.syncRound(ctx, pool); err != nil {
		return 0, err
	}
	if _, err := s.capture(ctx, pool); err != nil {
		return 0, err
	}

	total, updates, previous, err := s.scanOutstanding(ctx, pool.Address, participant)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		// nothing owed: claim stays safely callable at any time
		return 0, nil
	}

	if err := s.repoManager.Payouts().UpsertPayouts(ctx, updates); err != nil {
		return 0, fmt.Errorf("failed to record payouts: %w", err)
	}
	if err := s.token.Transfer(ctx, pool.Address, participant, total); err != nil {
		if rbErr := s.repoManager.Payouts().UpsertPayouts(ctx, previous); rbErr != nil {
			log.WithError(rbErr).WithField("pool", pool.Address).
				Error("failed to roll back payout ledger after aborted transfer")
		}
		return 0, fmt.Errorf("failed to transfer payout: %w", err)
	}

	now := time.Now().Unix()
	for i, update := range updates {
		paid := update.Paid - previous[i].Paid
		s.emit(domain.PayoutMade{
			Id:          uuid.New().String(),
			PoolAddress: pool.Address,
			Participant: participant,
			Round:       update.Round,
			Amount:      paid,
			Timestamp:   now,
		})
	}
	log.WithFields(log.Fields{
		"pool":        pool.Address,
		"participant": participant,
		"amount":      total,
	}).Info("payout settled")

	return total, nil
}

func (s *poolService) Claimable(
	ctx context.Context, poolAddr, participant string,
) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.getPool(ctx, poolAddr)
	if err != nil {
		return 0, err
	}
	total, _, _, err := s.scanOutstanding(ctx, pool.Address, participant)
	return total, err
}

func (s *poolService) GetPoolInfo(
	ctx context.Context, poolAddr string,
) (*PoolInfo, error) {
	pool, err := s.getPool(ctx, poolAddr)
	if err != nil {
		return nil, err
	}
	status, err := s.engine.PoolStatus(ctx, pool.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pool status: %w", err)
	}
	return &PoolInfo{
		Pool:         *pool,
		EngineStake:  status.Stake,
		PendingPrize: status.Claimable,
	}, nil
}

func (s *poolService) GetCaptures(
	ctx context.Context, poolAddr string,
) ([]domain.PrizeCapture, error) {
	if _, err := s.getPool(ctx, poolAddr); err != nil {
		return nil, err
	}
	return s.repoManager.Prizes().GetCaptures(ctx, poolAddr)
}

func (s *poolService) GetPayouts(
	ctx context.Context, poolAddr, participant string,
) ([]domain.Payout, error) {
	if _, err := s.getPool(ctx, poolAddr); err != nil {
		return nil, err
	}
	return s.repoManager.Payouts().GetPayoutsForParticipant(ctx, poolAddr, participant)
}

func (s *poolService) GetEventsChannel(_ context.Context) <-chan domain.Event {
	return s.eventsCh
}

// syncRound compares the engine's round marker against the pool's pointer.
// On rollover it sweeps the round the pointer still names before advancing,
// so the pointer can never outrun an unswept prize. An engine read failure
// fails the whole enclosing call; no partial rollover is ever committed.
func (s *poolService) syncRound(ctx context.Context, pool *domain.Pool) error {
	engineRound, err := s.engine.CurrentRound(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current round: %w", err)
	}
	if engineRound == pool.CurrentRound {
		return nil
	}

	if _, err := s.capture(ctx, pool); err != nil {
		return err
	}
	if err := s.repoManager.Pools().UpdateCurrentRound(
		ctx, pool.Address, engineRound,
	); err != nil {
		return fmt.Errorf("failed to advance round pointer: %w", err)
	}
	pool.CurrentRound = engineRound

	log.WithFields(log.Fields{
		"pool":  pool.Address,
		"round": engineRound,
	}).Debug("round pointer advanced")
	return nil
}

// capture snapshots the pool's pending prize, if any, against the round the
// pointer currently names. The engine's reported claimable amount is
// verified against the custodial balance delta around the withdrawal.
func (s *poolService) capture(ctx context.Context, pool *domain.Pool) (uint64, error) {
	status, err := s.engine.PoolStatus(ctx, pool.Address)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pool status: %w", err)
	}
	if status.Claimable == 0 {
		return 0, nil
	}

	// unreachable under sweep-before-advance, enforced anyway
	existing, err := s.repoManager.Prizes().GetCapture(ctx, pool.Address, pool.CurrentRound)
	if err != nil {
		return 0, fmt.Errorf("failed to read prize history: %w", err)
	}
	if existing != nil {
		return 0, ErrDuplicateCapture{
			PoolAddress: pool.Address, Round: uint64(pool.CurrentRound),
		}
	}

	balanceBefore, err := s.token.BalanceOf(ctx, pool.Address)
	if err != nil {
		return 0, fmt.Errorf("failed to read custodial balance: %w", err)
	}
	if err := s.engine.WithdrawClaimable(ctx, pool.Address); err != nil {
		return 0, fmt.Errorf("failed to withdraw prize: %w", err)
	}
	balanceAfter, err := s.token.BalanceOf(ctx, pool.Address)
	if err != nil {
		return 0, fmt.Errorf("failed to read custodial balance: %w", err)
	}
	if balanceAfter-balanceBefore != status.Claimable {
		return 0, ErrPayoutMismatch{
			Reported: status.Claimable,
			Received: balanceAfter - balanceBefore,
		}
	}

	capture := domain.PrizeCapture{
		PoolAddress: pool.Address,
		Round:       pool.CurrentRound,
		Amount:      status.Claimable,
		CapturedAt:  time.Now().Unix(),
	}
	if err := s.repoManager.Prizes().AddCapture(ctx, capture); err != nil {
		return 0, fmt.Errorf("failed to record capture: %w", err)
	}

	s.emit(domain.PrizeCaptured{
		Id:          uuid.New().String(),
		PoolAddress: pool.Address,
		Round:       pool.CurrentRound,
		Amount:      status.Claimable,
		Timestamp:   capture.CapturedAt,
	})
	log.WithFields(log.Fields{
		"pool":   pool.Address,
		"round":  pool.CurrentRound,
		"amount": status.Claimable,
	}).Info("prize captured")

	return status.Claimable, nil
}

// scanOutstanding walks the capture history in insertion order and computes
// the participant's still-unpaid share per round. It returns the total owed
// together with the updated and previous cumulative payout entries, index
// aligned, so an aborted claim can be rolled back.
func (s *poolService) scanOutstanding(
	ctx context.Context, poolAddr, participant string,
) (uint64, []domain.Payout, []domain.Payout, error) {
	captures, err := s.repoManager.Prizes().GetCaptures(ctx, poolAddr)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read prize history: %w", err)
	}

	var total uint64
	updates := make([]domain.Payout, 0, len(captures))
	previous := make([]domain.Payout, 0, len(captures))
	for _, capture := range captures {
		stake, err := s.repoManager.Ledger().GetStake(ctx, poolAddr, participant, capture.Round)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to read stake: %w", err)
		}
		if stake == 0 {
			continue
		}
		roundStake, err := s.repoManager.Ledger().GetRoundStake(ctx, poolAddr, capture.Round)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to read round stake: %w", err)
		}
		if roundStake == 0 {
			return 0, nil, nil, fmt.Errorf(
				"captured round %d has zero recorded stake", capture.Round,
			)
		}

		entitlement := proRataShare(capture.Amount, stake, roundStake)
		paid, err := s.repoManager.Payouts().GetPaid(ctx, poolAddr, participant, capture.Round)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to read payout ledger: %w", err)
		}
		if entitlement <= paid {
			continue
		}

		total += entitlement - paid
		updates = append(updates, domain.Payout{
			PoolAddress: poolAddr,
			Participant: participant,
			Round:       capture.Round,
			Paid:        entitlement,
		})
		previous = append(previous, domain.Payout{
			PoolAddress: poolAddr,
			Participant: participant,
			Round:       capture.Round,
			Paid:        paid,
		})
	}

	return total, updates, previous, nil
}

func (s *poolService) sweepAllPools() {
	ctx := context.Background()
	pools, err := s.repoManager.Pools().GetAllPools(ctx)
	if err != nil {
		log.WithError(err).Warn("capture sweep: failed to list pools")
		return
	}
	for _, pool := range pools {
		if _, err := s.CaptureWinnings(ctx, pool.Address); err != nil {
			log.WithError(err).WithField("pool", pool.Address).
				Warn("capture sweep failed")
		}
	}
}

func (s *poolService) getPool(ctx context.Context, addr string) (*domain.Pool, error) {
	pool, err := s.repoManager.Pools().GetPool(ctx, addr)
	if err != nil || pool == nil {
		return nil, ErrPoolNotFound{addr}
	}
	return pool, nil
}

func (s *poolService) refund(ctx context.Context, poolAddr, contributor string, amount uint64) {
	if err := s.token.Transfer(ctx, poolAddr, contributor, amount); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"pool":        poolAddr,
			"contributor": contributor,
			"amount":      amount,
		}).Error("failed to refund aborted contribution")
	}
}

func (s *poolService) emit(event domain.Event) {
	select {
	case s.eventsCh <- event:
	default:
		log.Warn("events channel full, dropping event")
	}
}

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/lottopool/poold/internal/core/domain"
	"github.com/lottopool/poold/internal/core/ports"
	"github.com/lottopool/poold/internal/infrastructure/db"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestService(t *testing.T) {
	tests := []struct {
		name   string
		config db.ServiceConfig
	}{
		{
			name: "badger",
			config: db.ServiceConfig{
				DataStoreType:   "badger",
				DataStoreConfig: []interface{}{"", nil},
			},
		},
		{
			name: "sqlite",
			config: db.ServiceConfig{
				DataStoreType:   "sqlite",
				DataStoreConfig: []interface{}{":memory:"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := db.NewService(tt.config)
			require.NoError(t, err)
			defer svc.Close()

			testPoolRepository(t, svc)
			testLedgerRepository(t, svc)
			testPrizeRepository(t, svc)
			testPayoutRepository(t, svc)
		})
	}
}

func TestServiceUnknownStoreType(t *testing.T) {
	_, err := db.NewService(db.ServiceConfig{DataStoreType: "mongo"})
	require.Error(t, err)
}

func testPoolRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("pool repository", func(t *testing.T) {
		pool, err := domain.NewPool("engine-test", "creator", "pools", 10, time.Now().Unix())
		require.NoError(t, err)

		_, err = svc.Pools().GetPool(ctx, pool.Address)
		require.Error(t, err)

		require.NoError(t, svc.Pools().AddPool(ctx, *pool))
		err = svc.Pools().AddPool(ctx, *pool)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already exists")

		got, err := svc.Pools().GetPool(ctx, pool.Address)
		require.NoError(t, err)
		require.Equal(t, *pool, *got)

		require.NoError(t, svc.Pools().UpdateCurrentRound(ctx, pool.Address, 11))
		got, err = svc.Pools().GetPool(ctx, pool.Address)
		require.NoError(t, err)
		require.Equal(t, domain.RoundID(11), got.CurrentRound)

		pools, err := svc.Pools().GetAllPools(ctx)
		require.NoError(t, err)
		require.Len(t, pools, 1)
	})
}

func testLedgerRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("ledger repository", func(t *testing.T) {
		addr := newAddress(t, "ledger")

		stake, err := svc.Ledger().GetStake(ctx, addr, "alice", 1)
		require.NoError(t, err)
		require.Zero(t, stake)

		total, err := svc.Ledger().GetRoundStake(ctx, addr, 1)
		require.NoError(t, err)
		require.Zero(t, total)

		require.NoError(t, svc.Ledger().AddContribution(ctx, addr, "alice", 1, 9_500))
		require.NoError(t, svc.Ledger().AddContribution(ctx, addr, "alice", 1, 9_500))
		require.NoError(t, svc.Ledger().AddContribution(ctx, addr, "bob", 1, 28_500))
		require.NoError(t, svc.Ledger().AddContribution(ctx, addr, "alice", 2, 9_500))

		// stakes accumulate per (participant, round)
		stake, err = svc.Ledger().GetStake(ctx, addr, "alice", 1)
		require.NoError(t, err)
		require.Equal(t, uint64(19_000), stake)

		// the round total always equals the sum of its entries
		total, err = svc.Ledger().GetRoundStake(ctx, addr, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(47_500), total)

		total, err = svc.Ledger().GetRoundStake(ctx, addr, 2)
		require.NoError(t, err)
		require.Equal(t, uint64(9_500), total)

		contributions, err := svc.Ledger().GetContributionsForRound(ctx, addr, 1)
		require.NoError(t, err)
		require.Len(t, contributions, 2)
		var sum uint64
		for _, c := range contributions {
			sum += c.Stake
		}
		require.Equal(t, uint64(47_500), sum)
	})
}

func testPrizeRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("prize repository", func(t *testing.T) {
		addr := newAddress(t, "prizes")

		capture, err := svc.Prizes().GetCapture(ctx, addr, 9)
		require.NoError(t, err)
		require.Nil(t, capture)

		// inserted out of round order on purpose
		for _, round := range []domain.RoundID{9, 3, 5} {
			require.NoError(t, svc.Prizes().AddCapture(ctx, domain.PrizeCapture{
				PoolAddress: addr,
				Round:       round,
				Amount:      uint64(round) * 100,
				CapturedAt:  time.Now().Unix(),
			}))
		}

		err = svc.Prizes().AddCapture(ctx, domain.PrizeCapture{
			PoolAddress: addr,
			Round:       3,
			Amount:      42,
		})
		require.Error(t, err)

		capture, err = svc.Prizes().GetCapture(ctx, addr, 9)
		require.NoError(t, err)
		require.NotNil(t, capture)
		require.Equal(t, uint64(900), capture.Amount)

		// history comes back in insertion order, not round order
		captures, err := svc.Prizes().GetCaptures(ctx, addr)
		require.NoError(t, err)
		require.Len(t, captures, 3)
		rounds := make([]domain.RoundID, 0, len(captures))
		for _, c := range captures {
			rounds = append(rounds, c.Round)
		}
		require.Equal(t, []domain.RoundID{9, 3, 5}, rounds)
	})
}

func testPayoutRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("payout repository", func(t *testing.T) {
		addr := newAddress(t, "payouts")

		paid, err := svc.Payouts().GetPaid(ctx, addr, "alice", 1)
		require.NoError(t, err)
		require.Zero(t, paid)

		require.NoError(t, svc.Payouts().UpsertPayouts(ctx, []domain.Payout{
			{PoolAddress: addr, Participant: "alice", Round: 1, Paid: 100},
			{PoolAddress: addr, Participant: "alice", Round: 2, Paid: 200},
			{PoolAddress: addr, Participant: "bob", Round: 1, Paid: 300},
		}))

		paid, err = svc.Payouts().GetPaid(ctx, addr, "alice", 1)
		require.NoError(t, err)
		require.Equal(t, uint64(100), paid)

		// upserting replaces the cumulative amount
		require.NoError(t, svc.Payouts().UpsertPayouts(ctx, []domain.Payout{
			{PoolAddress: addr, Participant: "alice", Round: 1, Paid: 150},
		}))
		paid, err = svc.Payouts().GetPaid(ctx, addr, "alice", 1)
		require.NoError(t, err)
		require.Equal(t, uint64(150), paid)

		payouts, err := svc.Payouts().GetPayoutsForParticipant(ctx, addr, "alice")
		require.NoError(t, err)
		require.Len(t, payouts, 2)
		require.Equal(t, domain.RoundID(1), payouts[0].Round)
		require.Equal(t, uint64(150), payouts[0].Paid)
		require.Equal(t, domain.RoundID(2), payouts[1].Round)
	})
}

func newAddress(t *testing.T, salt string) string {
	return domain.DerivePoolAddress("engine-test", "creator", salt)
}

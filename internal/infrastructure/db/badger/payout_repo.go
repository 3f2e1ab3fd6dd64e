package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/lottopool/poold/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const payoutStoreDir = "payouts"

type payoutRepository struct {
	store *badgerhold.Store
}

func NewPayoutRepository(config ...interface{}) (domain.PayoutRepository, error) {
	baseDir, logger, err := parseConfig(config)
	if err != nil {
		return nil, err
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, payoutStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open payout store: %s", err)
	}

	return &payoutRepository{store}, nil
}

func (r *payoutRepository) GetPaid(
	_ context.Context, poolAddr, participant string, round domain.RoundID,
) (uint64, error) {
	var payout domain.Payout
	if err := r.store.Get(payoutKey(poolAddr, participant, round), &payout); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return payout.Paid, nil
}

func (r *payoutRepository) UpsertPayouts(
	_ context.Context, payouts []domain.Payout,
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, payout := range payouts {
			key := payoutKey(payout.PoolAddress, payout.Participant, payout.Round)
			if err := r.store.TxUpsert(tx, key, payout); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *payoutRepository) GetPayoutsForParticipant(
	_ context.Context, poolAddr, participant string,
) ([]domain.Payout, error) {
	var payouts []domain.Payout
	query := badgerhold.Where("PoolAddress").Eq(poolAddr).
		And("Participant").Eq(participant)
	if err := r.store.Find(&payouts, query); err != nil {
		return nil, err
	}
	sort.Slice(payouts, func(i, j int) bool {
		return payouts[i].Round < payouts[j].Round
	})
	return payouts, nil
}

func (r *payoutRepository) Close() {
	// nolint:all
	r.store.Close()
}

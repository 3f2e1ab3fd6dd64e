package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/lottopool/poold/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const ledgerStoreDir = "ledger"

type ledgerRepository struct {
	store *badgerhold.Store
}

func NewLedgerRepository(config ...interface{}) (domain.LedgerRepository, error) {
	baseDir, logger, err := parseConfig(config)
	if err != nil {
		return nil, err
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, ledgerStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %s", err)
	}

	return &ledgerRepository{store}, nil
}

func (r *ledgerRepository) AddContribution(
	_ context.Context, poolAddr, participant string, round domain.RoundID, stake uint64,
) error {
	// both entries move in the same txn so the conservation invariant holds
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		entry := domain.Contribution{
			PoolAddress: poolAddr,
			Participant: participant,
			Round:       round,
		}
		key := contributionKey(poolAddr, participant, round)
		if err := r.store.TxGet(tx, key, &entry); err != nil &&
			!errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}
		entry.Stake += stake
		if err := r.store.TxUpsert(tx, key, entry); err != nil {
			return err
		}

		total := domain.RoundStake{PoolAddress: poolAddr, Round: round}
		totalKey := roundStakeKey(poolAddr, round)
		if err := r.store.TxGet(tx, totalKey, &total); err != nil &&
			!errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}
		total.TotalStake += stake
		return r.store.TxUpsert(tx, totalKey, total)
	})
}

func (r *ledgerRepository) GetStake(
	_ context.Context, poolAddr, participant string, round domain.RoundID,
) (uint64, error) {
	var entry domain.Contribution
	if err := r.store.Get(contributionKey(poolAddr, participant, round), &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return entry.Stake, nil
}

func (r *ledgerRepository) GetRoundStake(
	_ context.Context, poolAddr string, round domain.RoundID,
) (uint64, error) {
	var total domain.RoundStake
	if err := r.store.Get(roundStakeKey(poolAddr, round), &total); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return total.TotalStake, nil
}

func (r *ledgerRepository) GetContributionsForRound(
	_ context.Context, poolAddr string, round domain.RoundID,
) ([]domain.Contribution, error) {
	query := badgerhold.Where("PoolAddress").Eq(poolAddr).And("Round").Eq(round)
	var contributions []domain.Contribution
	if err := r.store.Find(&contributions, query); err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *ledgerRepository) Close() {
	// nolint:all
	r.store.Close()
}

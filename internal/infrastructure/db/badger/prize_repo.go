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

const prizeStoreDir = "prizes"

type prizeRepository struct {
	store *badgerhold.Store
}

func NewPrizeRepository(config ...interface{}) (domain.PrizeRepository, error) {
	baseDir, logger, err := parseConfig(config)
	if err != nil {
		return nil, err
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, prizeStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open prize store: %s", err)
	}

	return &prizeRepository{store}, nil
}

func (r *prizeRepository) AddCapture(
	_ context.Context, capture domain.PrizeCapture,
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var existing []domain.PrizeCapture
		query := badgerhold.Where("PoolAddress").Eq(capture.PoolAddress)
		if err := r.store.TxFind(tx, &existing, query); err != nil {
			return err
		}
		capture.Seq = uint64(len(existing))

		key := captureKey(capture.PoolAddress, capture.Round)
		if err := r.store.TxInsert(tx, key, capture); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return fmt.Errorf(
					"round %d of pool %s already captured",
					capture.Round, capture.PoolAddress,
				)
			}
			return err
		}
		return nil
	})
}

func (r *prizeRepository) GetCapture(
	_ context.Context, poolAddr string, round domain.RoundID,
) (*domain.PrizeCapture, error) {
	var capture domain.PrizeCapture
	if err := r.store.Get(captureKey(poolAddr, round), &capture); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &capture, nil
}

func (r *prizeRepository) GetCaptures(
	_ context.Context, poolAddr string,
) ([]domain.PrizeCapture, error) {
	var captures []domain.PrizeCapture
	query := badgerhold.Where("PoolAddress").Eq(poolAddr)
	if err := r.store.Find(&captures, query); err != nil {
		return nil, err
	}
	sort.Slice(captures, func(i, j int) bool {
		return captures[i].Seq < captures[j].Seq
	})
	return captures, nil
}

func (r *prizeRepository) Close() {
	// nolint:all
	r.store.Close()
}

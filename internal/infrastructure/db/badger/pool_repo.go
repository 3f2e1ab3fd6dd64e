package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/lottopool/poold/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const poolStoreDir = "pools"

type poolRepository struct {
	store *badgerhold.Store
}

func NewPoolRepository(config ...interface{}) (domain.PoolRepository, error) {
	baseDir, logger, err := parseConfig(config)
	if err != nil {
		return nil, err
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, poolStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool store: %s", err)
	}

	return &poolRepository{store}, nil
}

func (r *poolRepository) AddPool(_ context.Context, pool domain.Pool) error {
	if err := r.store.Insert(pool.Address, pool); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("pool %s already exists", pool.Address)
		}
		return err
	}
	return nil
}

func (r *poolRepository) GetPool(_ context.Context, addr string) (*domain.Pool, error) {
	var pool domain.Pool
	if err := r.store.Get(addr, &pool); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("pool %s not found", addr)
		}
		return nil, err
	}
	return &pool, nil
}

func (r *poolRepository) UpdateCurrentRound(
	ctx context.Context, addr string, round domain.RoundID,
) error {
	pool, err := r.GetPool(ctx, addr)
	if err != nil {
		return err
	}
	pool.CurrentRound = round
	return r.store.Upsert(addr, *pool)
}

func (r *poolRepository) GetAllPools(_ context.Context) ([]domain.Pool, error) {
	var pools []domain.Pool
	if err := r.store.Find(&pools, nil); err != nil {
		return nil, err
	}
	return pools, nil
}

func (r *poolRepository) Close() {
	// nolint:all
	r.store.Close()
}

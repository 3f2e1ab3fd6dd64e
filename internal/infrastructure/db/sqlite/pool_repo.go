package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lottopool/poold/internal/core/domain"
)

type poolRepository struct {
	db *sql.DB
}

func NewPoolRepository(config ...interface{}) (domain.PoolRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open pool repository: invalid config, expected db at 0")
	}
	return &poolRepository{db}, nil
}

func (r *poolRepository) AddPool(ctx context.Context, pool domain.Pool) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO pool (address, engine_id, creator, salt, current_round, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		pool.Address, pool.EngineID, pool.Creator, pool.Salt,
		int64(pool.CurrentRound), pool.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pool: %w", err)
	}
	return nil
}

func (r *poolRepository) GetPool(ctx context.Context, addr string) (*domain.Pool, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT address, engine_id, creator, salt, current_round, created_at
		 FROM pool WHERE address = ?`,
		addr,
	)

	var pool domain.Pool
	var currentRound int64
	if err := row.Scan(
		&pool.Address, &pool.EngineID, &pool.Creator, &pool.Salt,
		&currentRound, &pool.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pool %s not found", addr)
		}
		return nil, err
	}
	pool.CurrentRound = domain.RoundID(currentRound)
	return &pool, nil
}

func (r *poolRepository) UpdateCurrentRound(
	ctx context.Context, addr string, round domain.RoundID,
) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE pool SET current_round = ? WHERE address = ?`,
		int64(round), addr,
	)
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("pool %s not found", addr)
	}
	return nil
}

func (r *poolRepository) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT address, engine_id, creator, salt, current_round, created_at FROM pool`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pools := make([]domain.Pool, 0)
	for rows.Next() {
		var pool domain.Pool
		var currentRound int64
		if err := rows.Scan(
			&pool.Address, &pool.EngineID, &pool.Creator, &pool.Salt,
			&currentRound, &pool.CreatedAt,
		); err != nil {
			return nil, err
		}
		pool.CurrentRound = domain.RoundID(currentRound)
		pools = append(pools, pool)
	}
	return pools, rows.Err()
}

func (r *poolRepository) Close() {
	// nolint:all
	r.db.Close()
}

package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lottopool/poold/internal/core/domain"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(config ...interface{}) (domain.LedgerRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open ledger repository: invalid config, expected db at 0")
	}
	return &ledgerRepository{db}, nil
}

func (r *ledgerRepository) AddContribution(
	ctx context.Context, poolAddr, participant string, round domain.RoundID, stake uint64,
) error {
	return execTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO contribution (pool_address, participant, round, stake)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (pool_address, participant, round)
			 DO UPDATE SET stake = stake + excluded.stake`,
			poolAddr, participant, int64(round), int64(stake),
		); err != nil {
			return fmt.Errorf("failed to upsert contribution: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO round_stake (pool_address, round, total_stake)
			 VALUES (?, ?, ?)
			 ON CONFLICT (pool_address, round)
			 DO UPDATE SET total_stake = total_stake + excluded.total_stake`,
			poolAddr, int64(round), int64(stake),
		); err != nil {
			return fmt.Errorf("failed to upsert round stake: %w", err)
		}
		return nil
	})
}

func (r *ledgerRepository) GetStake(
	ctx context.Context, poolAddr, participant string, round domain.RoundID,
) (uint64, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT stake FROM contribution
		 WHERE pool_address = ? AND participant = ? AND round = ?`,
		poolAddr, participant, int64(round),
	)
	var stake int64
	if err := row.Scan(&stake); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(stake), nil
}

func (r *ledgerRepository) GetRoundStake(
	ctx context.Context, poolAddr string, round domain.RoundID,
) (uint64, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT total_stake FROM round_stake WHERE pool_address = ? AND round = ?`,
		poolAddr, int64(round),
	)
	var total int64
	if err := row.Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(total), nil
}

func (r *ledgerRepository) GetContributionsForRound(
	ctx context.Context, poolAddr string, round domain.RoundID,
) ([]domain.Contribution, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT pool_address, participant, round, stake FROM contribution
		 WHERE pool_address = ? AND round = ?`,
		poolAddr, int64(round),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contributions := make([]domain.Contribution, 0)
	for rows.Next() {
		var c domain.Contribution
		var r0, stake int64
		if err := rows.Scan(&c.PoolAddress, &c.Participant, &r0, &stake); err != nil {
			return nil, err
		}
		c.Round = domain.RoundID(r0)
		c.Stake = uint64(stake)
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

func (r *ledgerRepository) Close() {
	// nolint:all
	r.db.Close()
}

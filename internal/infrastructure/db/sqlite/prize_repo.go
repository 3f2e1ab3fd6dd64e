package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lottopool/poold/internal/core/domain"
)

type prizeRepository struct {
	db *sql.DB
}

func NewPrizeRepository(config ...interface{}) (domain.PrizeRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open prize repository: invalid config, expected db at 0")
	}
	return &prizeRepository{db}, nil
}

func (r *prizeRepository) AddCapture(
	ctx context.Context, capture domain.PrizeCapture,
) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO prize_capture (pool_address, round, amount, captured_at)
		 VALUES (?, ?, ?, ?)`,
		capture.PoolAddress, int64(capture.Round),
		int64(capture.Amount), capture.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert capture: %w", err)
	}
	return nil
}

func (r *prizeRepository) GetCapture(
	ctx context.Context, poolAddr string, round domain.RoundID,
) (*domain.PrizeCapture, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT seq, pool_address, round, amount, captured_at
		 FROM prize_capture WHERE pool_address = ? AND round = ?`,
		poolAddr, int64(round),
	)
	capture, err := scanCapture(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return capture, nil
}

func (r *prizeRepository) GetCaptures(
	ctx context.Context, poolAddr string,
) ([]domain.PrizeCapture, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT seq, pool_address, round, amount, captured_at
		 FROM prize_capture WHERE pool_address = ? ORDER BY seq ASC`,
		poolAddr,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	captures := make([]domain.PrizeCapture, 0)
	for rows.Next() {
		capture, err := scanCapture(rows.Scan)
		if err != nil {
			return nil, err
		}
		captures = append(captures, *capture)
	}
	return captures, rows.Err()
}

func (r *prizeRepository) Close() {
	// nolint:all
	r.db.Close()
}

func scanCapture(scan func(dest ...any) error) (*domain.PrizeCapture, error) {
	var capture domain.PrizeCapture
	var seq, round, amount int64
	if err := scan(
		&seq, &capture.PoolAddress, &round, &amount, &capture.CapturedAt,
	); err != nil {
		return nil, err
	}
	capture.Seq = uint64(seq)
	capture.Round = domain.RoundID(round)
	capture.Amount = uint64(amount)
	return &capture, nil
}

package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lottopool/poold/internal/core/domain"
)

type payoutRepository struct {
	db *sql.DB
}

func NewPayoutRepository(config ...interface{}) (domain.PayoutRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open payout repository: invalid config, expected db at 0")
	}
	return &payoutRepository{db}, nil
}

func (r *payoutRepository) GetPaid(
	ctx context.Context, poolAddr, participant string, round domain.RoundID,
) (uint64, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT paid FROM payout
		 WHERE pool_address = ? AND participant = ? AND round = ?`,
		poolAddr, participant, int64(round),
	)
	var paid int64
	if err := row.Scan(&paid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return uint64(paid), nil
}

func (r *payoutRepository) UpsertPayouts(
	ctx context.Context, payouts []domain.Payout,
) error {
	return execTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, payout := range payouts {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO payout (pool_address, participant, round, paid)
				 VALUES (?, ?, ?, ?)
				 ON CONFLICT (pool_address, participant, round)
				 DO UPDATE SET paid = excluded.paid`,
				payout.PoolAddress, payout.Participant,
				int64(payout.Round), int64(payout.Paid),
			); err != nil {
				return fmt.Errorf("failed to upsert payout: %w", err)
			}
		}
		return nil
	})
}

func (r *payoutRepository) GetPayoutsForParticipant(
	ctx context.Context, poolAddr, participant string,
) ([]domain.Payout, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT pool_address, participant, round, paid FROM payout
		 WHERE pool_address = ? AND participant = ? ORDER BY round ASC`,
		poolAddr, participant,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payouts := make([]domain.Payout, 0)
	for rows.Next() {
		var payout domain.Payout
		var round, paid int64
		if err := rows.Scan(
			&payout.PoolAddress, &payout.Participant, &round, &paid,
		); err != nil {
			return nil, err
		}
		payout.Round = domain.RoundID(round)
		payout.Paid = uint64(paid)
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}

func (r *payoutRepository) Close() {
	// nolint:all
	r.db.Close()
}

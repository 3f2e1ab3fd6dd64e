package domain

import "context"

type PoolRepository interface {
	// AddPool fails if a pool already exists at the same address.
	AddPool(ctx context.Context, pool Pool) error
	GetPool(ctx context.Context, addr string) (*Pool, error)
	UpdateCurrentRound(ctx context.Context, addr string, round RoundID) error
	GetAllPools(ctx context.Context) ([]Pool, error)
	Close()
}

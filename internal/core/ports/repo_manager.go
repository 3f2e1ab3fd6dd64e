package ports

import "github.com/lottopool/poold/internal/core/domain"

type RepoManager interface {
	Pools() domain.PoolRepository
	Ledger() domain.LedgerRepository
	Prizes() domain.PrizeRepository
	Payouts() domain.PayoutRepository
	Close()
}

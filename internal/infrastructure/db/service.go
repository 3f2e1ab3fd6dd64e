package db

import (
	"fmt"
	"path/filepath"

	"github.com/lottopool/poold/internal/core/domain"
	"github.com/lottopool/poold/internal/core/ports"
	badgerdb "github.com/lottopool/poold/internal/infrastructure/db/badger"
	sqlitedb "github.com/lottopool/poold/internal/infrastructure/db/sqlite"
)

var (
	poolStoreTypes = map[string]func(...interface{}) (domain.PoolRepository, error){
		"badger": badgerdb.NewPoolRepository,
		"sqlite": sqlitedb.NewPoolRepository,
	}
	ledgerStoreTypes = map[string]func(...interface{}) (domain.LedgerRepository, error){
		"badger": badgerdb.NewLedgerRepository,
		"sqlite": sqlitedb.NewLedgerRepository,
	}
	prizeStoreTypes = map[string]func(...interface{}) (domain.PrizeRepository, error){
		"badger": badgerdb.NewPrizeRepository,
		"sqlite": sqlitedb.NewPrizeRepository,
	}
	payoutStoreTypes = map[string]func(...interface{}) (domain.PayoutRepository, error){
		"badger": badgerdb.NewPayoutRepository,
		"sqlite": sqlitedb.NewPayoutRepository,
	}
)

const sqliteDbFile = "sqlite.db"

type ServiceConfig struct {
	DataStoreType   string
	DataStoreConfig []interface{}
}

type service struct {
	poolStore   domain.PoolRepository
	ledgerStore domain.LedgerRepository
	prizeStore  domain.PrizeRepository
	payoutStore domain.PayoutRepository
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	poolStoreFactory, ok := poolStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}
	ledgerStoreFactory := ledgerStoreTypes[config.DataStoreType]
	prizeStoreFactory := prizeStoreTypes[config.DataStoreType]
	payoutStoreFactory := payoutStoreTypes[config.DataStoreType]

	storeConfig := config.DataStoreConfig
	if config.DataStoreType == "sqlite" {
		if len(storeConfig) < 1 {
			return nil, fmt.Errorf("invalid data store config")
		}
		baseDir, ok := storeConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid base directory")
		}
		dbPath := baseDir
		if baseDir != ":memory:" {
			dbPath = filepath.Join(baseDir, sqliteDbFile)
		}
		db, err := sqlitedb.OpenDb(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite db: %w", err)
		}
		storeConfig = []interface{}{db}
	}

	poolStore, err := poolStoreFactory(storeConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool store: %w", err)
	}
	ledgerStore, err := ledgerStoreFactory(storeConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger store: %w", err)
	}
	prizeStore, err := prizeStoreFactory(storeConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to create prize store: %w", err)
	}
	payoutStore, err := payoutStoreFactory(storeConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to create payout store: %w", err)
	}

	return &service{
		poolStore:   poolStore,
		ledgerStore: ledgerStore,
		prizeStore:  prizeStore,
		payoutStore: payoutStore,
	}, nil
}

func (s *service) Pools() domain.PoolRepository {
	return s.poolStore
}

func (s *service) Ledger() domain.LedgerRepository {
	return s.ledgerStore
}

func (s *service) Prizes() domain.PrizeRepository {
	return s.prizeStore
}

func (s *service) Payouts() domain.PayoutRepository {
	return s.payoutStore
}

func (s *service) Close() {
	s.poolStore.Close()
	s.ledgerStore.Close()
	s.prizeStore.Close()
	s.payoutStore.Close()
}

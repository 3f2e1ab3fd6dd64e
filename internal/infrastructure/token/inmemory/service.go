package inmemorytoken

import (
	"context"
	"fmt"
	"sync"

	"github.com/lottopool/poold/internal/core/ports"
)

type allowanceKey struct {
	owner   string
	spender string
}

// service is an in-process token transfer service with ERC20-like balance
// and allowance semantics. Every operation fails atomically on insufficient
// balance or allowance.
type service struct {
	mu         sync.Mutex
	balances   map[string]uint64
	allowances map[allowanceKey]uint64
}

func NewService() ports.TokenService {
	return &service{
		balances:   make(map[string]uint64),
		allowances: make(map[allowanceKey]uint64),
	}
}

func (s *service) BalanceOf(_ context.Context, account string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[account], nil
}

func (s *service) Transfer(_ context.Context, from, to string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer(from, to, amount)
}

func (s *service) TransferFrom(
	_ context.Context, spender, from, to string, amount uint64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := allowanceKey{owner: from, spender: spender}
	if s.allowances[key] < amount {
		return fmt.Errorf(
			"insufficient allowance: %s allowed %d to %s, need %d",
			from, s.allowances[key], spender, amount,
		)
	}
	if err := s.transfer(from, to, amount); err != nil {
		return err
	}
	s.allowances[key] -= amount
	return nil
}

func (s *service) Approve(_ context.Context, owner, spender string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowances[allowanceKey{owner: owner, spender: spender}] = amount
	return nil
}

func (s *service) Close() {}

// Mint credits freshly issued units to an account. Used to fund test and
// dev scenarios; a real deployment replaces this service entirely.
func (s *service) Mint(account string, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[account] += amount
}

func (s *service) transfer(from, to string, amount uint64) error {
	if s.balances[from] < amount {
		return fmt.Errorf(
			"insufficient balance: %s holds %d, need %d", from, s.balances[from], amount,
		)
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}

// Minter is implemented by token services that can issue new units.
type Minter interface {
	Mint(account string, amount uint64)
}

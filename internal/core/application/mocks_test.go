package application_test

import (
	"context"

	"github.com/lottopool/poold/internal/core/domain"
	"github.com/lottopool/poold/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

type mockedEngine struct {
	mock.Mock
}

func (m *mockedEngine) ID() string {
	args := m.Called()

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res
}

func (m *mockedEngine) UnitPrice(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockedEngine) FeeBasisPoints(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockedEngine) CurrentRound(ctx context.Context) (domain.RoundID, error) {
	args := m.Called(ctx)

	var res domain.RoundID
	if a := args.Get(0); a != nil {
		res = a.(domain.RoundID)
	}
	return res, args.Error(1)
}

func (m *mockedEngine) PoolStatus(
	ctx context.Context, poolAddr string,
) (*ports.PoolEngineStatus, error) {
	args := m.Called(ctx, poolAddr)

	var res *ports.PoolEngineStatus
	if a := args.Get(0); a != nil {
		res = a.(*ports.PoolEngineStatus)
	}
	return res, args.Error(1)
}

func (m *mockedEngine) Contribute(
	ctx context.Context, referrer string, amount uint64, poolAddr string,
) error {
	args := m.Called(ctx, referrer, amount, poolAddr)
	return args.Error(0)
}

func (m *mockedEngine) WithdrawClaimable(ctx context.Context, poolAddr string) error {
	args := m.Called(ctx, poolAddr)
	return args.Error(0)
}

func (m *mockedEngine) Close() {
	m.Called()
}

type mockedToken struct {
	mock.Mock
}

func (m *mockedToken) BalanceOf(ctx context.Context, account string) (uint64, error) {
	args := m.Called(ctx, account)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockedToken) Transfer(ctx context.Context, from, to string, amount uint64) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *mockedToken) TransferFrom(
	ctx context.Context, spender, from, to string, amount uint64,
) error {
	args := m.Called(ctx, spender, from, to, amount)
	return args.Error(0)
}

func (m *mockedToken) Approve(
	ctx context.Context, owner, spender string, amount uint64,
) error {
	args := m.Called(ctx, owner, spender, amount)
	return args.Error(0)
}

func (m *mockedToken) Close() {
	m.Called()
}

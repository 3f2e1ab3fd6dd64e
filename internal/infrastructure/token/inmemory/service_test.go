package inmemorytoken_test

import (
	"context"
	"testing"

	inmemorytoken "github.com/lottopool/poold/internal/infrastructure/token/inmemory"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestTransfer(t *testing.T) {
	svc := inmemorytoken.NewService()
	svc.(inmemorytoken.Minter).Mint("alice", 100)

	require.NoError(t, svc.Transfer(ctx, "alice", "bob", 60))

	balance, err := svc.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(40), balance)

	balance, err = svc.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(60), balance)

	// insufficient balance leaves both accounts untouched
	require.Error(t, svc.Transfer(ctx, "alice", "bob", 41))
	balance, err = svc.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(40), balance)
}

func TestTransferFrom(t *testing.T) {
	svc := inmemorytoken.NewService()
	svc.(inmemorytoken.Minter).Mint("alice", 100)

	// no allowance yet
	require.Error(t, svc.TransferFrom(ctx, "spender", "alice", "bob", 10))

	require.NoError(t, svc.Approve(ctx, "alice", "spender", 50))
	require.NoError(t, svc.TransferFrom(ctx, "spender", "alice", "bob", 30))

	// the allowance is consumed by the draw
	require.Error(t, svc.TransferFrom(ctx, "spender", "alice", "bob", 30))
	require.NoError(t, svc.TransferFrom(ctx, "spender", "alice", "bob", 20))

	balance, err := svc.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(50), balance)
}

func TestTransferFromInsufficientBalance(t *testing.T) {
	svc := inmemorytoken.NewService()
	svc.(inmemorytoken.Minter).Mint("alice", 10)
	require.NoError(t, svc.Approve(ctx, "alice", "spender", 50))

	require.Error(t, svc.TransferFrom(ctx, "spender", "alice", "bob", 20))

	// a failed draw must not burn allowance
	require.NoError(t, svc.TransferFrom(ctx, "spender", "alice", "bob", 10))
}

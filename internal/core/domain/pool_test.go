package domain_test

import (
	"testing"

	"github.com/lottopool/poold/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestDerivePoolAddress(t *testing.T) {
	addr := domain.DerivePoolAddress("engine-regtest", "creator", "salt")
	require.Regexp(t, "^pool1[0-9a-f]{40}$", addr)

	// same triple, same address
	require.Equal(t, addr, domain.DerivePoolAddress("engine-regtest", "creator", "salt"))

	// any component change yields a different address
	require.NotEqual(t, addr, domain.DerivePoolAddress("engine-mainnet", "creator", "salt"))
	require.NotEqual(t, addr, domain.DerivePoolAddress("engine-regtest", "creator2", "salt"))
	require.NotEqual(t, addr, domain.DerivePoolAddress("engine-regtest", "creator", ""))

	// length prefixing keeps shifted concatenations apart
	require.NotEqual(
		t,
		domain.DerivePoolAddress("ab", "c", ""),
		domain.DerivePoolAddress("a", "bc", ""),
	)
}

func TestNewPool(t *testing.T) {
	pool, err := domain.NewPool("engine-regtest", "creator", "salt", 42, 1700000000)
	require.NoError(t, err)
	require.Equal(t, domain.RoundID(42), pool.CurrentRound)
	require.Equal(
		t, domain.DerivePoolAddress("engine-regtest", "creator", "salt"), pool.Address,
	)

	_, err = domain.NewPool("", "creator", "salt", 0, 0)
	require.Error(t, err)

	_, err = domain.NewPool("engine-regtest", "", "salt", 0, 0)
	require.Error(t, err)
}

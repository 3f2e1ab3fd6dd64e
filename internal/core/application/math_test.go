package application

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeeAdjustedStake(t *testing.T) {
	testCases := []struct {
		amount    uint64
		unitPrice uint64
		feeBps    uint64
		expected  uint64
		ok        bool
	}{
		{10_000, 10_000, 500, 9_500, true},
		{30_000, 10_000, 500, 28_500, true},
		{10_000, 10_000, 0, 10_000, true},
		{10_000, 10_000, 10_000, 0, true},
		// stake units times the bps multiplier overflows 64 bits
		{math.MaxUint64, 1, 0, 0, false},
	}

	for _, tc := range testCases {
		stake, ok := feeAdjustedStake(tc.amount, tc.unitPrice, tc.feeBps)
		require.Equal(t, tc.ok, ok)
		if tc.ok {
			require.Equal(t, tc.expected, stake)
		}
	}
}

func TestProRataShare(t *testing.T) {
	testCases := []struct {
		prize      uint64
		stake      uint64
		roundStake uint64
		expected   uint64
	}{
		{1_000_001, 9_500, 57_000, 166_666},
		{1_000_001, 19_000, 57_000, 333_333},
		{1_000_001, 28_500, 57_000, 500_000},
		{1_004_466_104_303, 9_500, 9_500, 1_004_466_104_303},
		{1_004_466_104_303, 9_500, 57_000, 167_411_017_383},
		{1_004_466_104_303, 19_000, 57_000, 334_822_034_767},
		{1_004_466_104_303, 28_500, 57_000, 502_233_052_151},
		{10, 1, 3, 3},
		// prize * stake overflows 64 bits, the share still must not
		{math.MaxUint64, math.MaxUint64 / 2, math.MaxUint64, math.MaxUint64 / 2},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, proRataShare(tc.prize, tc.stake, tc.roundStake))
	}
}

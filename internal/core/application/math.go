package application

import "github.com/holiman/uint256"

// feeAdjustedStake converts a raw contribution into fee-adjusted stake
// units: (amount / unitPrice) * (10000 - feeBps). The caller has already
// checked that amount is a positive multiple of unitPrice. Returns false
// when the product does not fit the ledger's 64-bit accounting.
func feeAdjustedStake(amount, unitPrice, feeBps uint64) (uint64, bool) {
	units := new(uint256.Int).Mul(
		uint256.NewInt(amount/unitPrice),
		uint256.NewInt(feeBasisPointsScale-feeBps),
	)
	if !units.IsUint64() {
		return 0, false
	}
	return units.Uint64(), true
}

// proRataShare computes floor(prize * stake / roundStake) without
// intermediate overflow. Since stake <= roundStake the result always fits
// in 64 bits; the flooring remainder is the dust permanently left behind.
func proRataShare(prize, stake, roundStake uint64) uint64 {
	share := new(uint256.Int).Mul(uint256.NewInt(prize), uint256.NewInt(stake))
	share.Div(share, uint256.NewInt(roundStake))
	return share.Uint64()
}

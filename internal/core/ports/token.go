package ports

import "context"

// TokenService moves token units between accounts. All operations must
// fail atomically on insufficient balance or allowance, with no partial
// transfers.
type TokenService interface {
	BalanceOf(ctx context.Context, account string) (uint64, error)
	// Transfer moves amount from the sender's own balance.
	Transfer(ctx context.Context, from, to string, amount uint64) error
	// TransferFrom moves amount out of from's balance using the allowance
	// previously approved to spender.
	TransferFrom(ctx context.Context, spender, from, to string, amount uint64) error
	// Approve grants spender the right to draw up to amount from owner.
	Approve(ctx context.Context, owner, spender string, amount uint64) error
	Close()
}

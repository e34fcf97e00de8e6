package ports

import "context"

// RewardCurrency is the wallet key battle rewards are paid in.
const RewardCurrency = "gold"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for managing game currency.
type EconomyPort interface {
	// GetBalance retrieves the current gold balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes.
	// This is used when a battle ends to pay out the victory reward.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}

package repo

import (
	"context"

	"segment-service/ddd/domain/entity"
)

// CreditRepository is the metered admission-control ledger. DebitIfSufficient
// must be a single atomic check-and-decrement at the storage layer; two
// concurrent submissions must never both pass against a stale balance.
type CreditRepository interface {
	// DebitIfSufficient decrements the balance when it covers amount and
	// appends the debit transaction. False (without error) means
	// insufficient balance and no change.
	DebitIfSufficient(ctx context.Context, userUUID string, amount int, description string) (bool, error)

	// Credit adds to the balance (grant or refund) and appends a transaction.
	Credit(ctx context.Context, userUUID string, amount int, description string) error

	// Balance returns the current balance, zero for unknown users.
	Balance(ctx context.Context, userUUID string) (int, error)

	// Transactions returns the newest ledger lines.
	Transactions(ctx context.Context, userUUID string, limit int) ([]*entity.CreditTransaction, error)
}

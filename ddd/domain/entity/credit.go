package entity

import "time"

// CreditTransaction is one immutable ledger line. Amount is signed: debits
// negative, grants and refunds positive.
type CreditTransaction struct {
	ID          uint64
	UserUUID    string
	Amount      int
	Description string
	CreatedAt   time.Time
}

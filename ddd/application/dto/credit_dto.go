package dto

import (
	"time"

	"segment-service/ddd/domain/entity"
)

// CreditBalanceDto is the current spendable balance.
type CreditBalanceDto struct {
	UserUUID string `json:"user_uuid"`
	Balance  int    `json:"balance"`
}

// CreditTransactionDto is one ledger line; amount is signed.
type CreditTransactionDto struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// NewCreditTransactionDtoList converts ledger lines to their API view.
func NewCreditTransactionDtoList(txs []*entity.CreditTransaction) []*CreditTransactionDto {
	dtos := make([]*CreditTransactionDto, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, &CreditTransactionDto{
			Amount:      tx.Amount,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
		})
	}
	return dtos
}

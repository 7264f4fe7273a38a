package persistence

import (
	"context"

	"gorm.io/gorm"

	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/infrastructure/database/dao"
)

type creditRepositoryImpl struct {
	creditDao *dao.CreditDAO
}

// NewCreditRepository builds the credit ledger on the shared DB.
func NewCreditRepository() repo.CreditRepository {
	return NewCreditRepositoryWith(dao.DefaultCreditDAO())
}

// NewCreditRepositoryWith builds the ledger on an injected DAO.
func NewCreditRepositoryWith(creditDao *dao.CreditDAO) repo.CreditRepository {
	return &creditRepositoryImpl{creditDao: creditDao}
}

// NewCreditRepositoryOn builds the ledger on an injected gorm handle.
func NewCreditRepositoryOn(db *gorm.DB) repo.CreditRepository {
	return NewCreditRepositoryWith(dao.NewCreditDAO(db))
}

func (r *creditRepositoryImpl) DebitIfSufficient(ctx context.Context, userUUID string, amount int, description string) (bool, error) {
	return r.creditDao.DebitIfSufficient(ctx, userUUID, amount, description)
}

func (r *creditRepositoryImpl) Credit(ctx context.Context, userUUID string, amount int, description string) error {
	return r.creditDao.Credit(ctx, userUUID, amount, description)
}

func (r *creditRepositoryImpl) Balance(ctx context.Context, userUUID string) (int, error) {
	return r.creditDao.Balance(ctx, userUUID)
}

func (r *creditRepositoryImpl) Transactions(ctx context.Context, userUUID string, limit int) ([]*entity.CreditTransaction, error) {
	pos, err := r.creditDao.Transactions(ctx, userUUID, limit)
	if err != nil {
		return nil, err
	}
	txs := make([]*entity.CreditTransaction, 0, len(pos))
	for _, p := range pos {
		txs = append(txs, &entity.CreditTransaction{
			ID:          p.Id,
			UserUUID:    p.UserUUID,
			Amount:      p.Amount,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
		})
	}
	return txs, nil
}

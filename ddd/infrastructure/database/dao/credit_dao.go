package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"segment-service/ddd/infrastructure/database/po"
	"segment-service/internal/resource"
	"segment-service/pkg/logger"
)

// CreditDAO data access for the credit ledger. The debit is a single
// conditional UPDATE: decrement only while the balance still covers the
// amount, so two concurrent submissions can never both pass on a stale read.
type CreditDAO struct {
	db *gorm.DB
}

// NewCreditDAO creates a DAO on an injected handle (tests use sqlite).
func NewCreditDAO(db *gorm.DB) *CreditDAO {
	return &CreditDAO{db: db}
}

// DefaultCreditDAO creates a DAO on the shared MySQL resource.
func DefaultCreditDAO() *CreditDAO {
	return NewCreditDAO(resource.DefaultMysqlResource().MainDB())
}

// DebitIfSufficient atomically decrements the balance and appends the debit
// transaction. Returns false without error when the balance was insufficient.
func (d *CreditDAO) DebitIfSufficient(ctx context.Context, userUUID string, amount int, description string) (bool, error) {
	if amount <= 0 {
		return false, errors.New("debit amount must be positive")
	}

	sufficient := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&po.CreditAccount{}).
			Where("user_uuid = ? AND balance >= ?", userUUID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		sufficient = true
		return tx.Create(&po.CreditTransaction{
			UserUUID:    userUUID,
			Amount:      -amount,
			Description: description,
		}).Error
	})
	if err != nil {
		logger.Errorf("Error debiting credits %v", err)
		return false, err
	}
	return sufficient, nil
}

// Credit adds to the balance, creating the account on first grant, and
// appends the transaction.
func (d *CreditDAO) Credit(ctx context.Context, userUUID string, amount int, description string) error {
	if amount <= 0 {
		return errors.New("credit amount must be positive")
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&po.CreditAccount{}).
			Where("user_uuid = ?", userUUID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&po.CreditAccount{UserUUID: userUUID, Balance: amount}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&po.CreditTransaction{
			UserUUID:    userUUID,
			Amount:      amount,
			Description: description,
		}).Error
	})
	if err != nil {
		logger.Errorf("Error crediting account %v", err)
	}
	return err
}

// Balance returns the current balance, zero for unknown accounts.
func (d *CreditDAO) Balance(ctx context.Context, userUUID string) (int, error) {
	var account po.CreditAccount
	if err := d.db.WithContext(ctx).
		Where("user_uuid = ?", userUUID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		logger.Errorf("Error query credit balance %v", err)
		return 0, err
	}
	return account.Balance, nil
}

// Transactions returns the newest ledger lines for an account.
func (d *CreditDAO) Transactions(ctx context.Context, userUUID string, limit int) ([]*po.CreditTransaction, error) {
	var txs []*po.CreditTransaction
	query := d.db.WithContext(ctx).
		Where("user_uuid = ?", userUUID).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&txs).Error; err != nil {
		logger.Errorf("Error query credit transactions %v", err)
		return nil, err
	}
	return txs, nil
}

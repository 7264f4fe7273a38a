package app

import (
	"context"
	"sync"

	"segment-service/ddd/application/cqe"
	"segment-service/ddd/application/dto"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/pkg/errno"
	"segment-service/pkg/logger"
)

const defaultTransactionLimit = 50

// CreditApp exposes the credit ledger surface.
type CreditApp interface {
	// Balance returns the caller's spendable balance.
	Balance(ctx context.Context, userUUID string) (*dto.CreditBalanceDto, error)

	// Transactions returns the caller's newest ledger lines.
	Transactions(ctx context.Context, userUUID string) ([]*dto.CreditTransactionDto, error)

	// Grant tops up a user's balance.
	Grant(ctx context.Context, req *cqe.GrantCreditsReq) (*dto.CreditBalanceDto, error)
}

type creditAppImpl struct {
	creditRepo repo.CreditRepository
}

var (
	creditAppOnce      sync.Once
	singletonCreditApp CreditApp
)

// DefaultCreditApp returns the app singleton on the default ledger.
func DefaultCreditApp() CreditApp {
	creditAppOnce.Do(func() {
		singletonCreditApp = NewCreditAppWith(persistence.NewCreditRepository())
	})
	return singletonCreditApp
}

// NewCreditAppWith builds the app on an injected ledger.
func NewCreditAppWith(creditRepo repo.CreditRepository) CreditApp {
	return &creditAppImpl{creditRepo: creditRepo}
}

func (a *creditAppImpl) Balance(ctx context.Context, userUUID string) (*dto.CreditBalanceDto, error) {
	if userUUID == "" {
		return nil, errno.ErrUserUUIDRequired
	}
	balance, err := a.creditRepo.Balance(ctx, userUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return &dto.CreditBalanceDto{UserUUID: userUUID, Balance: balance}, nil
}

func (a *creditAppImpl) Transactions(ctx context.Context, userUUID string) ([]*dto.CreditTransactionDto, error) {
	if userUUID == "" {
		return nil, errno.ErrUserUUIDRequired
	}
	txs, err := a.creditRepo.Transactions(ctx, userUUID, defaultTransactionLimit)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewCreditTransactionDtoList(txs), nil
}

func (a *creditAppImpl) Grant(ctx context.Context, req *cqe.GrantCreditsReq) (*dto.CreditBalanceDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	description := req.Description
	if description == "" {
		description = "credit grant"
	}
	if err := a.creditRepo.Credit(ctx, req.UserUUID, req.Amount, description); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	balance, err := a.creditRepo.Balance(ctx, req.UserUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	logger.Info("Credits granted", map[string]interface{}{
		"user_uuid": req.UserUUID,
		"amount":    req.Amount,
		"balance":   balance,
	})
	return &dto.CreditBalanceDto{UserUUID: req.UserUUID, Balance: balance}, nil
}

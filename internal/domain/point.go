package domain

import (
	"context"

	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

type PointDomain interface {
	GetTransactions(context.Context, *model.GetUserTransactionsRequest) (*model.GetUserTransactionsResponse, error)
	DeleteTransaction(context.Context, *model.DeleteTransactionRequest) (*model.DeleteTransactionResponse, error)
}

type pointDomain struct {
	userRepo  repository.UserRepository
	pointRepo repository.PointTransactionRepository
	ledger    ledger.Ledger
}

func NewPointDomain(
	userRepo repository.UserRepository,
	pointRepo repository.PointTransactionRepository,
	ledger ledger.Ledger,
) *pointDomain {
	return &pointDomain{userRepo: userRepo, pointRepo: pointRepo, ledger: ledger}
}

func (d *pointDomain) GetTransactions(
	ctx context.Context, req *model.GetUserTransactionsRequest,
) (*model.GetUserTransactionsResponse, error) {
	if _, err := getUser(ctx, d.userRepo, req.UserID); err != nil {
		return nil, err
	}

	offset, limit := normalizePage(req.Offset, req.Limit)
	transactions, err := d.pointRepo.GetListByUserID(ctx, req.UserID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	clientTransactions := []model.PointTransaction{}
	for i := range transactions {
		clientTransactions = append(clientTransactions, convertPointTransaction(&transactions[i]))
	}

	return &model.GetUserTransactionsResponse{Transactions: clientTransactions}, nil
}

// DeleteTransaction reverts a ledger entry. Minted tickets and the completion
// that produced the entry are kept.
func (d *pointDomain) DeleteTransaction(
	ctx context.Context, req *model.DeleteTransactionRequest,
) (*model.DeleteTransactionResponse, error) {
	transaction, err := d.ledger.DeleteTransaction(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	xcontext.Logger(ctx).Infof("Transaction %s of user %s (%d points) is deleted by %s",
		transaction.ID, transaction.UserID, transaction.Amount, xcontext.RequestUserID(ctx))

	return &model.DeleteTransactionResponse{Transaction: convertPointTransaction(transaction)}, nil
}

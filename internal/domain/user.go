package domain

import (
	"context"

	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/enum"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

const meTransactionLimit = 10

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetList(context.Context, *model.GetUsersRequest) (*model.GetUsersResponse, error)
	Update(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
}

type userDomain struct {
	userRepo       repository.UserRepository
	completionRepo repository.TaskCompletionRepository
	photoRepo      repository.PhotoRepository
	pointRepo      repository.PointTransactionRepository
	lotteryRepo    repository.LotteryRepository
	ledger         ledger.Ledger
}

func NewUserDomain(
	userRepo repository.UserRepository,
	completionRepo repository.TaskCompletionRepository,
	photoRepo repository.PhotoRepository,
	pointRepo repository.PointTransactionRepository,
	lotteryRepo repository.LotteryRepository,
	ledger ledger.Ledger,
) *userDomain {
	return &userDomain{
		userRepo:       userRepo,
		completionRepo: completionRepo,
		photoRepo:      photoRepo,
		pointRepo:      pointRepo,
		lotteryRepo:    lotteryRepo,
		ledger:         ledger,
	}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := getUser(ctx, d.userRepo, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	completions, err := d.completionRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completions: %v", err)
		return nil, errorx.Unknown
	}

	photos, err := d.photoRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count photos: %v", err)
		return nil, errorx.Unknown
	}

	transactions, err := d.pointRepo.GetListByUserID(ctx, user.ID, 0, meTransactionLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	tickets, err := d.lotteryRepo.GetTicketsByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	clientTransactions := []model.PointTransaction{}
	for i := range transactions {
		clientTransactions = append(clientTransactions, convertPointTransaction(&transactions[i]))
	}

	clientTickets := []model.LotteryTicket{}
	for i := range tickets {
		clientTickets = append(clientTickets, convertLotteryTicket(&tickets[i], false))
	}

	return &model.GetMeResponse{
		User: convertUser(user, true),
		Stats: model.UserStats{
			Completions: completions,
			Photos:      photos,
			Tickets:     int64(len(tickets)),
		},
		Transactions: clientTransactions,
		Tickets:      clientTickets,
	}, nil
}

func (d *userDomain) GetList(ctx context.Context, req *model.GetUsersRequest) (*model.GetUsersResponse, error) {
	offset, limit := normalizePage(req.Offset, req.Limit)
	users, err := d.userRepo.GetList(ctx, repository.UserFilter{Q: req.Q, Offset: offset, Limit: limit})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.userRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
		return nil, errorx.Unknown
	}

	clientUsers := []model.AdminUser{}
	for i := range users {
		completions, err := d.completionRepo.CountByUserID(ctx, users[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count completions: %v", err)
			return nil, errorx.Unknown
		}

		tickets, err := d.lotteryRepo.CountTicketsByUserID(ctx, users[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count tickets: %v", err)
			return nil, errorx.Unknown
		}

		clientUsers = append(clientUsers, model.AdminUser{
			User:        convertUser(&users[i], true),
			Completions: completions,
			Tickets:     tickets,
		})
	}

	return &model.GetUsersResponse{Users: clientUsers, Total: total}, nil
}

// Update changes the role of a user and/or adjusts their points. A point
// adjustment is recorded in the ledger like any other grant.
func (d *userDomain) Update(ctx context.Context, req *model.UpdateUserRequest) (*model.UpdateUserResponse, error) {
	var role entity.GlobalRole
	if req.Role != "" {
		var err error
		role, err = enum.ToEnum[entity.GlobalRole](req.Role)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid role: %v", err)
			return nil, errorx.New(errorx.InvalidInput, "Invalid role %s", req.Role)
		}
	}

	if req.AdjustPoints != 0 && req.Reason == "" {
		return nil, errorx.New(errorx.InvalidInput, "Reason is required to adjust points")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := getUser(ctx, d.userRepo, req.UserID)
	if err != nil {
		return nil, err
	}

	if role != "" && role != user.Role {
		if err := d.userRepo.UpdateRole(ctx, user.ID, role); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update role: %v", err)
			return nil, errorx.Unknown
		}

		user.Role = role
	}

	newTickets := 0
	if req.AdjustPoints != 0 {
		result, err := d.ledger.AddPoints(ctx, ledger.Entry{
			UserID:      user.ID,
			Amount:      req.AdjustPoints,
			Type:        entity.PointAdminAdjust,
			ReferenceID: xcontext.RequestUserID(ctx),
			Description: req.Reason,
		})
		if err != nil {
			return nil, err
		}

		user = result.User
		newTickets = len(result.NewTickets)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit user update: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserResponse{User: convertUser(user, true), NewTickets: newTickets}, nil
}

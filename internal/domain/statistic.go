package domain

import (
	"context"

	"github.com/questx-lab/campaign/internal/domain/statistic"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetStats(context.Context, *model.GetStatsRequest) (*model.GetStatsResponse, error)
}

type statisticDomain struct {
	userRepo       repository.UserRepository
	completionRepo repository.TaskCompletionRepository
	photoRepo      repository.PhotoRepository
	pointRepo      repository.PointTransactionRepository
	lotteryRepo    repository.LotteryRepository
	leaderboard    statistic.Leaderboard
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	completionRepo repository.TaskCompletionRepository,
	photoRepo repository.PhotoRepository,
	pointRepo repository.PointTransactionRepository,
	lotteryRepo repository.LotteryRepository,
	leaderboard statistic.Leaderboard,
) *statisticDomain {
	return &statisticDomain{
		userRepo:       userRepo,
		completionRepo: completionRepo,
		photoRepo:      photoRepo,
		pointRepo:      pointRepo,
		lotteryRepo:    lotteryRepo,
		leaderboard:    leaderboard,
	}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	top, err := d.leaderboard.GetTop(ctx)
	if err != nil {
		return nil, err
	}

	resp := &model.GetLeaderboardResponse{Entries: top}
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		me, err := d.leaderboard.GetRank(ctx, userID, top)
		if err != nil {
			return nil, err
		}

		resp.Me = me
	}

	return resp, nil
}

func (d *statisticDomain) GetStats(ctx context.Context, req *model.GetStatsRequest) (*model.GetStatsResponse, error) {
	resp := &model.GetStatsResponse{}
	counters := []struct {
		name  string
		value *int64
		count func(context.Context) (int64, error)
	}{
		{"users", &resp.Users, d.userRepo.Count},
		{"completions", &resp.Completions, d.completionRepo.Count},
		{"photos", &resp.Photos, d.photoRepo.Count},
		{"points", &resp.PointsAwarded, d.pointRepo.SumAmount},
		{"active tickets", &resp.ActiveTickets, func(ctx context.Context) (int64, error) {
			return d.lotteryRepo.CountTicketsByStatus(ctx, entity.TicketActive)
		}},
		{"winner tickets", &resp.WinnerTickets, func(ctx context.Context) (int64, error) {
			return d.lotteryRepo.CountTicketsByStatus(ctx, entity.TicketWinner)
		}},
	}

	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count %s: %v", c.name, err)
			return nil, errorx.Unknown
		}

		*c.value = n
	}

	return resp, nil
}

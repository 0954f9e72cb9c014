package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/common"
	"github.com/questx-lab/campaign/internal/domain/draw"
	"github.com/questx-lab/campaign/internal/domain/notification"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

type LotteryDomain interface {
	CreatePrize(context.Context, *model.CreatePrizeRequest) (*model.CreatePrizeResponse, error)
	GetPrizes(context.Context, *model.GetPrizesRequest) (*model.GetPrizesResponse, error)
	Draw(context.Context, *model.DrawLotteryRequest) (*model.DrawLotteryResponse, error)
}

type lotteryDomain struct {
	lotteryRepo repository.LotteryRepository
	notifier    notification.Notifier
	rand        draw.Rand
}

func NewLotteryDomain(
	lotteryRepo repository.LotteryRepository,
	notifier notification.Notifier,
	rand draw.Rand,
) *lotteryDomain {
	return &lotteryDomain{lotteryRepo: lotteryRepo, notifier: notifier, rand: rand}
}

func (d *lotteryDomain) CreatePrize(
	ctx context.Context, req *model.CreatePrizeRequest,
) (*model.CreatePrizeResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.InvalidInput, "Prize name must not be empty")
	}

	if req.Quantity <= 0 {
		return nil, errorx.New(errorx.InvalidInput, "The quantity of prize must be a positive number")
	}

	prize := &entity.Prize{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     req.Name,
		Quantity: req.Quantity,
	}
	if err := d.lotteryRepo.CreatePrize(ctx, prize); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prize: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePrizeResponse{Prize: convertPrize(prize, 0)}, nil
}

func (d *lotteryDomain) GetPrizes(
	ctx context.Context, req *model.GetPrizesRequest,
) (*model.GetPrizesResponse, error) {
	prizes, err := d.lotteryRepo.GetPrizes(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	counts, err := d.lotteryRepo.CountTicketsGroupByPrize(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count tickets of prizes: %v", err)
		return nil, errorx.Unknown
	}

	countMap := map[string]int64{}
	for _, c := range counts {
		countMap[c.PrizeID] = c.Count
	}

	clientPrizes := []model.Prize{}
	for i := range prizes {
		clientPrizes = append(clientPrizes, convertPrize(&prizes[i], countMap[prizes[i].ID]))
	}

	return &model.GetPrizesResponse{Prizes: clientPrizes}, nil
}

// Draw picks up to count winners among active tickets for the prize. The
// number of winners is clamped to the remaining quantity of the prize and to
// the size of the pool.
func (d *lotteryDomain) Draw(
	ctx context.Context, req *model.DrawLotteryRequest,
) (*model.DrawLotteryResponse, error) {
	if req.Count < 1 {
		return nil, errorx.New(errorx.InvalidInput, "Count must be at least 1")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	prize, err := d.lotteryRepo.GetPrizeByID(ctx, req.PrizeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prize")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize: %v", err)
		return nil, errorx.Unknown
	}

	remaining := prize.Quantity - prize.Awarded
	if remaining <= 0 {
		return nil, errorx.New(errorx.EmptyPool, "No remaining prizes").
			WithDetail(map[string]int{"remaining": 0})
	}

	pool, err := d.lotteryRepo.GetActiveTicketIDs(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active tickets: %v", err)
		return nil, errorx.Unknown
	}

	if len(pool) == 0 {
		return nil, errorx.New(errorx.EmptyPool, "No active tickets available")
	}

	n := req.Count
	if n > remaining {
		n = remaining
	}

	winnerIDs := draw.Select(d.rand, pool, n)
	if err := d.lotteryRepo.MarkWinners(ctx, winnerIDs, prize.ID); err != nil {
		if errors.Is(err, repository.ErrStaleRows) {
			return nil, errorx.New(errorx.Conflict, "Tickets changed during the draw, please retry")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark winner tickets: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.lotteryRepo.CheckAndAwardPrize(ctx, prize.ID, len(winnerIDs)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Conflict, "Prize capacity changed during the draw, please retry")
		}

		xcontext.Logger(ctx).Errorf("Cannot award prize: %v", err)
		return nil, errorx.Unknown
	}

	winners, err := d.lotteryRepo.GetTicketsByIDs(ctx, winnerIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winner tickets: %v", err)
		return nil, errorx.Unknown
	}

	messages := []notification.Message{}
	for _, t := range winners {
		messages = append(messages, notification.LotteryWon(t.UserID, t.TicketNumber, prize.Name))
	}

	notifications, err := d.notifier.Record(ctx, messages...)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record notifications: %v", err)
		return nil, errorx.Unknown
	}

	prize.Awarded += len(winnerIDs)

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit lottery draw: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.DrawTotal].WithLabelValues("lottery").Inc()
	d.notifier.Publish(ctx, notifications)

	clientWinners := []model.LotteryTicket{}
	for i := range winners {
		winners[i].Prize = *prize
		clientWinners = append(clientWinners, convertLotteryTicket(&winners[i], true))
	}

	return &model.DrawLotteryResponse{
		Prize:   convertPrize(prize, int64(prize.Awarded)),
		Winners: clientWinners,
	}, nil
}

package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

type ScratchCardDomain interface {
	Generate(context.Context, *model.GenerateScratchCardsRequest) (*model.GenerateScratchCardsResponse, error)
	GetSummary(context.Context, *model.GetScratchCardSummaryRequest) (*model.GetScratchCardSummaryResponse, error)
	Get(context.Context, *model.GetScratchCardRequest) (*model.GetScratchCardResponse, error)
	Scratch(context.Context, *model.ScratchCardRequest) (*model.ScratchCardResponse, error)
}

type scratchCardDomain struct {
	taskRepo        repository.TaskRepository
	completionRepo  repository.TaskCompletionRepository
	scratchCardRepo repository.ScratchCardRepository
	notifier        notification.Notifier
	rand            draw.Rand
}

func NewScratchCardDomain(
	taskRepo repository.TaskRepository,
	completionRepo repository.TaskCompletionRepository,
	scratchCardRepo repository.ScratchCardRepository,
	notifier notification.Notifier,
	rand draw.Rand,
) *scratchCardDomain {
	return &scratchCardDomain{
		taskRepo:        taskRepo,
		completionRepo:  completionRepo,
		scratchCardRepo: scratchCardRepo,
		notifier:        notifier,
		rand:            rand,
	}
}

// Generate creates one card for every completer of the closed task of the
// day. Winners are fixed here and never change afterwards.
func (d *scratchCardDomain) Generate(
	ctx context.Context, req *model.GenerateScratchCardsRequest,
) (*model.GenerateScratchCardsResponse, error) {
	if req.PrizeName == "" {
		return nil, errorx.New(errorx.InvalidInput, "Prize name must not be empty")
	}

	if req.WinnerCount < 1 {
		return nil, errorx.New(errorx.InvalidInput, "Winner count must be at least 1")
	}

	task, err := requireClosedTask(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	existing, err := d.scratchCardRepo.CountByDay(ctx, req.Day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count scratch cards: %v", err)
		return nil, errorx.Unknown
	}

	if existing > 0 {
		return nil, errorx.New(errorx.Conflict, "Scratch cards of day %d were already generated", req.Day)
	}

	userIDs, err := d.completionRepo.GetUserIDsByTaskID(ctx, task.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get completers: %v", err)
		return nil, errorx.Unknown
	}

	if len(userIDs) == 0 {
		return nil, errorx.New(errorx.EmptyPool, "Nobody completed the task of day %d", req.Day)
	}

	winners := map[string]bool{}
	for _, id := range draw.Select(d.rand, userIDs, req.WinnerCount) {
		winners[id] = true
	}

	cards := []entity.ScratchCard{}
	messages := []notification.Message{}
	for _, userID := range userIDs {
		card := entity.ScratchCard{
			Base:     entity.Base{ID: uuid.NewString()},
			UserID:   userID,
			TaskDay:  req.Day,
			IsWinner: winners[userID],
		}
		if card.IsWinner {
			card.PrizeName = sql.NullString{String: req.PrizeName, Valid: true}
		}

		cards = append(cards, card)
		messages = append(messages, notification.ScratchCardReady(userID, req.Day))
	}

	if err := d.scratchCardRepo.CreateBatch(ctx, cards); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.Conflict, "Scratch cards of day %d were already generated", req.Day)
		}

		xcontext.Logger(ctx).Errorf("Cannot create scratch cards: %v", err)
		return nil, errorx.Unknown
	}

	notifications, err := d.notifier.Record(ctx, messages...)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record notifications: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit scratch cards: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.DrawTotal].WithLabelValues("scratch_card").Inc()
	d.notifier.Publish(ctx, notifications)

	return &model.GenerateScratchCardsResponse{Total: len(cards), Winners: len(winners)}, nil
}

func (d *scratchCardDomain) GetSummary(
	ctx context.Context, req *model.GetScratchCardSummaryRequest,
) (*model.GetScratchCardSummaryResponse, error) {
	cards, err := d.scratchCardRepo.GetListByDay(ctx, req.Day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get scratch cards: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetScratchCardSummaryResponse{Total: len(cards), Cards: []model.ScratchCard{}}
	for i := range cards {
		if cards[i].IsScratched {
			resp.Scratched++
		}

		if cards[i].IsWinner {
			resp.Winners++
		}

		resp.Cards = append(resp.Cards, convertScratchCard(&cards[i], true, true))
	}

	return resp, nil
}

func (d *scratchCardDomain) Get(
	ctx context.Context, req *model.GetScratchCardRequest,
) (*model.GetScratchCardResponse, error) {
	card, err := d.getCard(ctx, req.Day)
	if err != nil {
		return nil, err
	}

	return &model.GetScratchCardResponse{Card: convertScratchCard(card, false, false)}, nil
}

// Scratch reveals the card of the requesting user. It can happen only once.
func (d *scratchCardDomain) Scratch(
	ctx context.Context, req *model.ScratchCardRequest,
) (*model.ScratchCardResponse, error) {
	card, err := d.getCard(ctx, req.Day)
	if err != nil {
		return nil, err
	}

	if card.IsScratched {
		return nil, errorx.New(errorx.Conflict, "The card was already scratched")
	}

	now := time.Now()
	if err := d.scratchCardRepo.Scratch(ctx, card.ID, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Conflict, "The card was already scratched")
		}

		xcontext.Logger(ctx).Errorf("Cannot scratch card: %v", err)
		return nil, errorx.Unknown
	}

	card.IsScratched = true
	card.ScratchedAt = sql.NullTime{Time: now, Valid: true}

	return &model.ScratchCardResponse{Card: convertScratchCard(card, true, false)}, nil
}

func (d *scratchCardDomain) getCard(ctx context.Context, day int) (*entity.ScratchCard, error) {
	card, err := d.scratchCardRepo.Get(ctx, xcontext.RequestUserID(ctx), day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No scratch card of day %d", day)
		}

		xcontext.Logger(ctx).Errorf("Cannot get scratch card: %v", err)
		return nil, errorx.Unknown
	}

	return card, nil
}

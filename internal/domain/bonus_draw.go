package domain

import (
	"context"
	"database/sql"
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
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type BonusDrawDomain interface {
	Preview(context.Context, *model.PreviewBonusDrawRequest) (*model.PreviewBonusDrawResponse, error)
	Confirm(context.Context, *model.ConfirmBonusDrawRequest) (*model.ConfirmBonusDrawResponse, error)
	Donate(context.Context, *model.DonateBonusDrawRequest) (*model.DonateBonusDrawResponse, error)
	Get(context.Context, *model.GetBonusDrawRequest) (*model.GetBonusDrawResponse, error)
	GetAdmin(context.Context, *model.GetAdminBonusDrawRequest) (*model.GetAdminBonusDrawResponse, error)
}

type bonusDrawDomain struct {
	taskRepo       repository.TaskRepository
	completionRepo repository.TaskCompletionRepository
	bonusDrawRepo  repository.BonusDrawRepository
	notifier       notification.Notifier
	rand           draw.Rand
}

func NewBonusDrawDomain(
	taskRepo repository.TaskRepository,
	completionRepo repository.TaskCompletionRepository,
	bonusDrawRepo repository.BonusDrawRepository,
	notifier notification.Notifier,
	rand draw.Rand,
) *bonusDrawDomain {
	return &bonusDrawDomain{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		bonusDrawRepo:  bonusDrawRepo,
		notifier:       notifier,
		rand:           rand,
	}
}

// Preview picks a candidate winner without persisting anything.
func (d *bonusDrawDomain) Preview(
	ctx context.Context, req *model.PreviewBonusDrawRequest,
) (*model.PreviewBonusDrawResponse, error) {
	if req.PrizeName == "" {
		return nil, errorx.New(errorx.InvalidInput, "Prize name must not be empty")
	}

	task, err := requireClosedTask(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	if err := d.checkNoActiveDraw(ctx, req.Day); err != nil {
		return nil, err
	}

	eligible, err := d.getEligibleUsers(ctx, task)
	if err != nil {
		return nil, err
	}

	winner, ok := draw.PickOne(d.rand, eligible)
	if !ok {
		return nil, errorx.New(errorx.EmptyPool, "No eligible participants left")
	}

	return &model.PreviewBonusDrawResponse{
		Winner:    convertShortUser(&winner),
		PrizeName: req.PrizeName,
		PoolSize:  len(eligible),
	}, nil
}

// Confirm persists the winner of the day. At most one non-donated draw can
// exist per day, concurrent confirmations are rejected by the database.
func (d *bonusDrawDomain) Confirm(
	ctx context.Context, req *model.ConfirmBonusDrawRequest,
) (*model.ConfirmBonusDrawResponse, error) {
	if req.WinnerID == "" || req.PrizeName == "" {
		return nil, errorx.New(errorx.InvalidInput, "Winner and prize name are required")
	}

	task, err := requireClosedTask(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.checkNoActiveDraw(ctx, req.Day); err != nil {
		return nil, err
	}

	eligible, err := d.getEligibleUsers(ctx, task)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(eligible, func(u entity.User) bool { return u.ID == req.WinnerID })
	if idx < 0 {
		return nil, errorx.New(errorx.InvalidInput, "The winner is not eligible for the draw of day %d", req.Day)
	}

	bonusDraw := &entity.BonusDraw{
		Base:      entity.Base{ID: uuid.NewString()},
		TaskDay:   req.Day,
		WinnerID:  req.WinnerID,
		PrizeName: req.PrizeName,
		ActiveDay: sql.NullInt64{Int64: int64(req.Day), Valid: true},
	}
	if err := d.bonusDrawRepo.Create(ctx, bonusDraw); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.Conflict, "The draw of day %d was already confirmed", req.Day)
		}

		xcontext.Logger(ctx).Errorf("Cannot create bonus draw: %v", err)
		return nil, errorx.Unknown
	}

	notifications, err := d.notifier.Record(ctx, notification.BonusDrawWon(req.WinnerID, req.Day, req.PrizeName))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record notification: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.Conflict, "The draw of day %d was already confirmed", req.Day)
		}

		xcontext.Logger(ctx).Errorf("Cannot commit bonus draw: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.DrawTotal].WithLabelValues("bonus_draw").Inc()
	d.notifier.Publish(ctx, notifications)

	bonusDraw.Winner = eligible[idx]
	return &model.ConfirmBonusDrawResponse{Draw: convertBonusDraw(bonusDraw)}, nil
}

// Donate gives the active prize of the day away, its winner leaves the pool
// and the day can be drawn again.
func (d *bonusDrawDomain) Donate(
	ctx context.Context, req *model.DonateBonusDrawRequest,
) (*model.DonateBonusDrawResponse, error) {
	bonusDraw, err := d.bonusDrawRepo.GetActive(ctx, req.Day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No active draw of day %d", req.Day)
		}

		xcontext.Logger(ctx).Errorf("Cannot get active bonus draw: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.bonusDrawRepo.Donate(ctx, bonusDraw.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No active draw of day %d", req.Day)
		}

		xcontext.Logger(ctx).Errorf("Cannot donate bonus draw: %v", err)
		return nil, errorx.Unknown
	}

	bonusDraw.IsDonated = true
	bonusDraw.ActiveDay = sql.NullInt64{}

	return &model.DonateBonusDrawResponse{Draw: convertBonusDraw(bonusDraw)}, nil
}

func (d *bonusDrawDomain) Get(
	ctx context.Context, req *model.GetBonusDrawRequest,
) (*model.GetBonusDrawResponse, error) {
	active, donated, err := d.getDraws(ctx, req.Day)
	if err != nil {
		return nil, err
	}

	return &model.GetBonusDrawResponse{Active: active, Donated: donated}, nil
}

func (d *bonusDrawDomain) GetAdmin(
	ctx context.Context, req *model.GetAdminBonusDrawRequest,
) (*model.GetAdminBonusDrawResponse, error) {
	task, err := getTaskByDay(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	active, donated, err := d.getDraws(ctx, req.Day)
	if err != nil {
		return nil, err
	}

	eligible, err := d.getEligibleUsers(ctx, task)
	if err != nil {
		return nil, err
	}

	clientEligible := []model.ShortUser{}
	for i := range eligible {
		clientEligible = append(clientEligible, convertShortUser(&eligible[i]))
	}

	return &model.GetAdminBonusDrawResponse{
		Active:   active,
		Donated:  donated,
		Eligible: clientEligible,
	}, nil
}

func (d *bonusDrawDomain) checkNoActiveDraw(ctx context.Context, day int) error {
	_, err := d.bonusDrawRepo.GetActive(ctx, day)
	if err == nil {
		return errorx.New(errorx.Conflict, "The draw of day %d was already confirmed", day)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get active bonus draw: %v", err)
		return errorx.Unknown
	}

	return nil
}

// getEligibleUsers returns completers of the task who have not donated a
// bonus prize of the same day.
func (d *bonusDrawDomain) getEligibleUsers(ctx context.Context, task *entity.DailyTask) ([]entity.User, error) {
	completions, err := d.completionRepo.GetListByTaskID(ctx, task.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get completions: %v", err)
		return nil, errorx.Unknown
	}

	donated, err := d.bonusDrawRepo.GetDonatedList(ctx, task.Day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get donated draws: %v", err)
		return nil, errorx.Unknown
	}

	donors := map[string]bool{}
	for _, dr := range donated {
		donors[dr.WinnerID] = true
	}

	eligible := []entity.User{}
	for _, c := range completions {
		if !donors[c.UserID] {
			eligible = append(eligible, c.User)
		}
	}

	return eligible, nil
}

func (d *bonusDrawDomain) getDraws(ctx context.Context, day int) (*model.BonusDraw, []model.BonusDraw, error) {
	var active *model.BonusDraw
	activeDraw, err := d.bonusDrawRepo.GetActive(ctx, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get active bonus draw: %v", err)
		return nil, nil, errorx.Unknown
	}

	if err == nil {
		clientDraw := convertBonusDraw(activeDraw)
		active = &clientDraw
	}

	donated, err := d.bonusDrawRepo.GetDonatedList(ctx, day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get donated draws: %v", err)
		return nil, nil, errorx.Unknown
	}

	clientDonated := []model.BonusDraw{}
	for i := range donated {
		clientDonated = append(clientDonated, convertBonusDraw(&donated[i]))
	}

	return active, clientDonated, nil
}

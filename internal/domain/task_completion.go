package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/common"
	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/domain/notification"
	"github.com/questx-lab/campaign/internal/domain/taskclaim"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskCompletionDomain interface {
	Complete(context.Context, *model.CompleteTaskRequest) (*model.CompleteTaskResponse, error)
}

type taskCompletionDomain struct {
	taskRepo       repository.TaskRepository
	completionRepo repository.TaskCompletionRepository
	ledger         ledger.Ledger
	notifier       notification.Notifier
}

func NewTaskCompletionDomain(
	taskRepo repository.TaskRepository,
	completionRepo repository.TaskCompletionRepository,
	ledger ledger.Ledger,
	notifier notification.Notifier,
) *taskCompletionDomain {
	return &taskCompletionDomain{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		ledger:         ledger,
		notifier:       notifier,
	}
}

func (d *taskCompletionDomain) Complete(
	ctx context.Context, req *model.CompleteTaskRequest,
) (*model.CompleteTaskResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	task, err := getTaskByDay(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	cfg := xcontext.Configs(ctx).Campaign
	if cfg.EnforceGating {
		if !task.IsOpen {
			return nil, errorx.New(errorx.Forbidden, "Task is not open yet")
		}

		if task.IsClosed {
			return nil, errorx.New(errorx.Forbidden, "Task is closed")
		}
	}

	_, err = d.completionRepo.Get(ctx, userID, task.ID)
	if err == nil {
		return nil, errorx.New(errorx.Conflict, "Task already completed")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get task completion: %v", err)
		return nil, errorx.Unknown
	}

	processor, err := taskclaim.NewProcessor(ctx, task.TaskType, task.TaskConfig, false)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load processor of task %d: %v", task.Day, err)
		return nil, err
	}

	answer, err := processor.Validate(ctx, req.Submission)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Rejected submission of task %d: %v", task.Day, err)
		return nil, err
	}

	points := task.Points
	if points == 0 {
		points = cfg.PointsPerTask
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ledger.LockUser(ctx, userID); err != nil {
		return nil, err
	}

	completion := &entity.TaskCompletion{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		TaskID:      task.ID,
		Answer:      nullString(answer),
		CompletedAt: time.Now(),
	}
	if err := d.completionRepo.Create(ctx, completion); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.Conflict, "Task already completed")
		}

		xcontext.Logger(ctx).Errorf("Cannot create task completion: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.ledger.AddPoints(ctx, ledger.Entry{
		UserID:      userID,
		Amount:      points,
		Type:        entity.PointTaskCompletion,
		ReferenceID: completion.ID,
		Description: task.Title,
	})
	if err != nil {
		return nil, err
	}

	ticketNumbers := []string{}
	for _, t := range result.NewTickets {
		ticketNumbers = append(ticketNumbers, t.TicketNumber)
	}

	var notifications []entity.Notification
	if len(ticketNumbers) > 0 {
		notifications, err = d.notifier.Record(ctx, notification.TicketMinted(userID, ticketNumbers))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record notification: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit task completion: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.TaskCompletionTotal].WithLabelValues(string(task.TaskType)).Inc()
	d.notifier.Publish(ctx, notifications)

	return &model.CompleteTaskResponse{
		Points:        points,
		TotalPoints:   result.User.TotalPoints,
		NewTickets:    len(result.NewTickets),
		TicketNumbers: ticketNumbers,
	}, nil
}

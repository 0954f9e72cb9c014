package domain

import (
	"context"
	"time"

	"github.com/questx-lab/campaign/internal/domain/taskclaim"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/dateutil"
	"github.com/questx-lab/campaign/pkg/enum"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type TaskDomain interface {
	GetList(context.Context, *model.GetTasksRequest) (*model.GetTasksResponse, error)
	Get(context.Context, *model.GetTaskRequest) (*model.GetTaskResponse, error)
	Update(context.Context, *model.UpdateTaskRequest) (*model.UpdateTaskResponse, error)
}

type taskDomain struct {
	taskRepo       repository.TaskRepository
	completionRepo repository.TaskCompletionRepository
}

func NewTaskDomain(
	taskRepo repository.TaskRepository,
	completionRepo repository.TaskCompletionRepository,
) *taskDomain {
	return &taskDomain{taskRepo: taskRepo, completionRepo: completionRepo}
}

func (d *taskDomain) GetList(ctx context.Context, req *model.GetTasksRequest) (*model.GetTasksResponse, error) {
	tasks, err := d.taskRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tasks: %v", err)
		return nil, errorx.Unknown
	}

	completedTaskIDs, err := d.completionRepo.GetTaskIDsByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get completed tasks: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Campaign
	now := time.Now()
	clientTasks := []model.Task{}
	for i := range tasks {
		task := &tasks[i]
		clientTasks = append(clientTasks, convertTask(
			task,
			publicTaskConfig(ctx, task),
			dateutil.DateOfDay(cfg.ActivityStart, task.Day),
			dateutil.IsDayAccessible(task.Day, cfg.ActivityStart, now, cfg.TotalDays),
			slices.Contains(completedTaskIDs, task.ID),
		))
	}

	return &model.GetTasksResponse{
		Tasks:      clientTasks,
		CurrentDay: dateutil.ActivityDay(cfg.ActivityStart, now),
	}, nil
}

func (d *taskDomain) Get(ctx context.Context, req *model.GetTaskRequest) (*model.GetTaskResponse, error) {
	task, err := getTaskByDay(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	completions, err := d.completionRepo.GetListByTaskID(ctx, task.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get completions: %v", err)
		return nil, errorx.Unknown
	}

	// Only free text and single photo answers are shared with others.
	includeAnswer := task.TaskType == entity.TaskTextAnswer || task.TaskType == entity.TaskPhotoUpload

	userID := xcontext.RequestUserID(ctx)
	isCompleted := false
	clientCompletions := []model.TaskCompletion{}
	for i := range completions {
		if completions[i].UserID == userID {
			isCompleted = true
		}

		clientCompletions = append(clientCompletions, convertTaskCompletion(&completions[i], includeAnswer))
	}

	cfg := xcontext.Configs(ctx).Campaign
	return &model.GetTaskResponse{
		Task: convertTask(
			task,
			publicTaskConfig(ctx, task),
			dateutil.DateOfDay(cfg.ActivityStart, task.Day),
			dateutil.IsDayAccessible(task.Day, cfg.ActivityStart, time.Now(), cfg.TotalDays),
			isCompleted,
		),
		Completions: clientCompletions,
	}, nil
}

func (d *taskDomain) Update(ctx context.Context, req *model.UpdateTaskRequest) (*model.UpdateTaskResponse, error) {
	task, err := getTaskByDay(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, errorx.New(errorx.InvalidInput, "Title must not be empty")
		}

		updates["title"] = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.Points != nil {
		if *req.Points < 0 {
			return nil, errorx.New(errorx.InvalidInput, "Points must not be negative")
		}

		updates["points"] = *req.Points
	}

	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}

	if req.IsClosed != nil {
		updates["is_closed"] = *req.IsClosed
	}

	taskType := task.TaskType
	if req.TaskType != nil {
		taskType, err = enum.ToEnum[entity.TaskType](*req.TaskType)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid task type: %v", err)
			return nil, errorx.New(errorx.InvalidInput, "Invalid task type %s", *req.TaskType)
		}

		updates["task_type"] = taskType
	}

	if req.TaskConfig != nil || req.TaskType != nil {
		config := req.TaskConfig
		if config == nil {
			config = task.TaskConfig
		}

		processor, err := taskclaim.NewProcessor(ctx, taskType, config, true)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid task config: %v", err)
			return nil, err
		}

		updates["task_config"] = taskclaim.Normalize(processor)
	}

	if len(updates) > 0 {
		if err := d.taskRepo.UpdateByDay(ctx, req.Day, updates); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update task of day %d: %v", req.Day, err)
			return nil, errorx.Unknown
		}
	}

	task, err = getTaskByDay(ctx, d.taskRepo, req.Day)
	if err != nil {
		return nil, err
	}

	cfg := xcontext.Configs(ctx).Campaign
	return &model.UpdateTaskResponse{
		Task: convertTask(
			task,
			task.TaskConfig,
			dateutil.DateOfDay(cfg.ActivityStart, task.Day),
			dateutil.IsDayAccessible(task.Day, cfg.ActivityStart, time.Now(), cfg.TotalDays),
			false,
		),
	}, nil
}

// publicTaskConfig strips the answers from the config of task. A broken
// config is shown as empty rather than failing the whole listing.
func publicTaskConfig(ctx context.Context, task *entity.DailyTask) map[string]any {
	processor, err := taskclaim.NewProcessor(ctx, task.TaskType, task.TaskConfig, false)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load processor of task %d: %v", task.Day, err)
		return map[string]any{}
	}

	return processor.PublicConfig()
}

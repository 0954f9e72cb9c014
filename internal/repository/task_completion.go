package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

type TaskCompletionRepository interface {
	Create(ctx context.Context, data *entity.TaskCompletion) error
	Get(ctx context.Context, userID, taskID string) (*entity.TaskCompletion, error)
	GetListByTaskID(ctx context.Context, taskID string) ([]entity.TaskCompletion, error)
	GetUserIDsByTaskID(ctx context.Context, taskID string) ([]string, error)
	GetTaskIDsByUserID(ctx context.Context, userID string) ([]string, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type taskCompletionRepository struct{}

func NewTaskCompletionRepository() *taskCompletionRepository {
	return &taskCompletionRepository{}
}

func (r *taskCompletionRepository) Create(ctx context.Context, data *entity.TaskCompletion) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *taskCompletionRepository) Get(ctx context.Context, userID, taskID string) (*entity.TaskCompletion, error) {
	var result entity.TaskCompletion
	err := xcontext.DB(ctx).Where("user_id=? AND task_id=?", userID, taskID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskCompletionRepository) GetListByTaskID(ctx context.Context, taskID string) ([]entity.TaskCompletion, error) {
	var result []entity.TaskCompletion
	err := xcontext.DB(ctx).
		Preload("User").
		Where("task_id=?", taskID).
		Order("completed_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskCompletionRepository) GetUserIDsByTaskID(ctx context.Context, taskID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.TaskCompletion{}).
		Where("task_id=?", taskID).
		Order("completed_at ASC").
		Pluck("user_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskCompletionRepository) GetTaskIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.TaskCompletion{}).
		Where("user_id=?", userID).
		Pluck("task_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskCompletionRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.TaskCompletion{}).Where("user_id=?", userID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *taskCompletionRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.TaskCompletion{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

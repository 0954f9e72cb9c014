package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, data *entity.DailyTask) error
	GetByDay(ctx context.Context, day int) (*entity.DailyTask, error)
	GetList(ctx context.Context) ([]entity.DailyTask, error)
	UpdateByDay(ctx context.Context, day int, data map[string]any) error
	OpenUntilDay(ctx context.Context, day int) (int64, error)
}

type taskRepository struct{}

func NewTaskRepository() *taskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(ctx context.Context, data *entity.DailyTask) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *taskRepository) GetByDay(ctx context.Context, day int) (*entity.DailyTask, error) {
	var result entity.DailyTask
	if err := xcontext.DB(ctx).Take(&result, "day=?", day).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskRepository) GetList(ctx context.Context) ([]entity.DailyTask, error) {
	var result []entity.DailyTask
	if err := xcontext.DB(ctx).Order("day ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskRepository) UpdateByDay(ctx context.Context, day int, data map[string]any) error {
	tx := xcontext.DB(ctx).Model(&entity.DailyTask{}).Where("day=?", day).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// OpenUntilDay opens every task up to day which is neither open nor closed.
func (r *taskRepository) OpenUntilDay(ctx context.Context, day int) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.DailyTask{}).
		Where("day<=? AND is_open=? AND is_closed=?", day, false, false).
		Update("is_open", true)
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

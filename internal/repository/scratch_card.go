package repository

import (
	"context"
	"time"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

type ScratchCardRepository interface {
	CreateBatch(ctx context.Context, cards []entity.ScratchCard) error
	CountByDay(ctx context.Context, day int) (int64, error)
	Get(ctx context.Context, userID string, day int) (*entity.ScratchCard, error)
	GetListByDay(ctx context.Context, day int) ([]entity.ScratchCard, error)
	Scratch(ctx context.Context, id string, at time.Time) error
}

type scratchCardRepository struct{}

func NewScratchCardRepository() *scratchCardRepository {
	return &scratchCardRepository{}
}

func (r *scratchCardRepository) CreateBatch(ctx context.Context, cards []entity.ScratchCard) error {
	if len(cards) == 0 {
		return nil
	}

	return xcontext.DB(ctx).CreateInBatches(&cards, insertBatchSize).Error
}

func (r *scratchCardRepository) CountByDay(ctx context.Context, day int) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.ScratchCard{}).Where("task_day=?", day).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *scratchCardRepository) Get(ctx context.Context, userID string, day int) (*entity.ScratchCard, error) {
	var result entity.ScratchCard
	err := xcontext.DB(ctx).Where("user_id=? AND task_day=?", userID, day).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *scratchCardRepository) GetListByDay(ctx context.Context, day int) ([]entity.ScratchCard, error) {
	var result []entity.ScratchCard
	err := xcontext.DB(ctx).Preload("User").
		Where("task_day=?", day).
		Order("is_winner DESC, created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Scratch reveals the card. It returns gorm.ErrRecordNotFound if the card
// does not exist or was already scratched.
func (r *scratchCardRepository) Scratch(ctx context.Context, id string, at time.Time) error {
	tx := xcontext.DB(ctx).Model(&entity.ScratchCard{}).
		Where("id=? AND is_scratched=?", id, false).
		Updates(map[string]any{
			"is_scratched": true,
			"scratched_at": at,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

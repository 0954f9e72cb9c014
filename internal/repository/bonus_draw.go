package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

type BonusDrawRepository interface {
	Create(ctx context.Context, data *entity.BonusDraw) error
	GetActive(ctx context.Context, day int) (*entity.BonusDraw, error)
	GetDonatedList(ctx context.Context, day int) ([]entity.BonusDraw, error)
	Donate(ctx context.Context, id string) error
}

type bonusDrawRepository struct{}

func NewBonusDrawRepository() *bonusDrawRepository {
	return &bonusDrawRepository{}
}

func (r *bonusDrawRepository) Create(ctx context.Context, data *entity.BonusDraw) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bonusDrawRepository) GetActive(ctx context.Context, day int) (*entity.BonusDraw, error) {
	var result entity.BonusDraw
	err := xcontext.DB(ctx).Preload("Winner").
		Where("task_day=? AND is_donated=?", day, false).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *bonusDrawRepository) GetDonatedList(ctx context.Context, day int) ([]entity.BonusDraw, error) {
	var result []entity.BonusDraw
	err := xcontext.DB(ctx).Preload("Winner").
		Where("task_day=? AND is_donated=?", day, true).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *bonusDrawRepository) Donate(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.BonusDraw{}).
		Where("id=? AND is_donated=?", id, false).
		Updates(map[string]any{
			"is_donated": true,
			"active_day": nil,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

type PointTransactionRepository interface {
	Create(ctx context.Context, data *entity.PointTransaction) error
	GetByID(ctx context.Context, id string) (*entity.PointTransaction, error)
	Delete(ctx context.Context, id string) error
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.PointTransaction, error)
	SumAmount(ctx context.Context) (int64, error)
	SumAmountByUserID(ctx context.Context, userID string) (int64, error)
}

type pointTransactionRepository struct{}

func NewPointTransactionRepository() *pointTransactionRepository {
	return &pointTransactionRepository{}
}

func (r *pointTransactionRepository) Create(ctx context.Context, data *entity.PointTransaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointTransactionRepository) GetByID(ctx context.Context, id string) (*entity.PointTransaction, error) {
	var result entity.PointTransaction
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *pointTransactionRepository) Delete(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.PointTransaction{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *pointTransactionRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.PointTransaction, error) {
	var result []entity.PointTransaction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointTransactionRepository) SumAmount(ctx context.Context) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *pointTransactionRepository) SumAmountByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

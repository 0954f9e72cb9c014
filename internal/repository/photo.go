package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

type PhotoRepository interface {
	Create(ctx context.Context, data *entity.PhotoUpload) error
	GetByID(ctx context.Context, id string) (*entity.PhotoUpload, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.PhotoUpload, error)
	Count(ctx context.Context) (int64, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
}

type photoRepository struct{}

func NewPhotoRepository() *photoRepository {
	return &photoRepository{}
}

func (r *photoRepository) Create(ctx context.Context, data *entity.PhotoUpload) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (*entity.PhotoUpload, error) {
	var result entity.PhotoUpload
	if err := xcontext.DB(ctx).Preload("User").Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *photoRepository) GetList(ctx context.Context, offset, limit int) ([]entity.PhotoUpload, error) {
	var result []entity.PhotoUpload
	err := xcontext.DB(ctx).Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *photoRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.PhotoUpload{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *photoRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.PhotoUpload{}).Where("user_id=?", userID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

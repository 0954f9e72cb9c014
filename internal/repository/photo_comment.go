package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

type PhotoCommentRepository interface {
	Create(ctx context.Context, data *entity.PhotoComment) error
	GetByID(ctx context.Context, id string) (*entity.PhotoComment, error)
	GetListByPhotoID(ctx context.Context, photoID string) ([]entity.PhotoComment, error)
	CountByPhotoIDs(ctx context.Context, photoIDs []string) (map[string]int64, error)
}

type photoCommentRepository struct{}

func NewPhotoCommentRepository() *photoCommentRepository {
	return &photoCommentRepository{}
}

func (r *photoCommentRepository) Create(ctx context.Context, data *entity.PhotoComment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *photoCommentRepository) GetByID(ctx context.Context, id string) (*entity.PhotoComment, error) {
	var result entity.PhotoComment
	if err := xcontext.DB(ctx).Preload("User").Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *photoCommentRepository) GetListByPhotoID(ctx context.Context, photoID string) ([]entity.PhotoComment, error) {
	var result []entity.PhotoComment
	err := xcontext.DB(ctx).Preload("User").
		Where("photo_id=?", photoID).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *photoCommentRepository) CountByPhotoIDs(ctx context.Context, photoIDs []string) (map[string]int64, error) {
	result := map[string]int64{}
	if len(photoIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		PhotoID string
		Count   int64
	}
	err := xcontext.DB(ctx).Model(&entity.PhotoComment{}).
		Select("photo_id, COUNT(*) AS count").
		Where("photo_id IN (?)", photoIDs).
		Group("photo_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.PhotoID] = row.Count
	}

	return result, nil
}

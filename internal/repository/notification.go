package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, data []entity.Notification) error
	GetListByUserID(ctx context.Context, userID string, limit int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, data []entity.Notification) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).CreateInBatches(&data, insertBatchSize).Error
}

func (r *notificationRepository) GetListByUserID(
	ctx context.Context, userID string, limit int,
) ([]entity.Notification, error) {
	var result []entity.Notification
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("id=? AND user_id=?", id, userID).
		Update("is_read", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Update("is_read", true).Error
}

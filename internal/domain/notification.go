package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

const notificationListLimit = 20

type NotificationDomain interface {
	GetList(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	Read(context.Context, *model.ReadNotificationsRequest) (*model.ReadNotificationsResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationDomain(notificationRepo repository.NotificationRepository) *notificationDomain {
	return &notificationDomain{notificationRepo: notificationRepo}
}

func (d *notificationDomain) GetList(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	notifications, err := d.notificationRepo.GetListByUserID(ctx, userID, notificationListLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	unread, err := d.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread notifications: %v", err)
		return nil, errorx.Unknown
	}

	clientNotifications := []model.Notification{}
	for i := range notifications {
		clientNotifications = append(clientNotifications, convertNotification(&notifications[i]))
	}

	return &model.GetNotificationsResponse{
		Notifications: clientNotifications,
		UnreadCount:   unread,
	}, nil
}

func (d *notificationDomain) Read(
	ctx context.Context, req *model.ReadNotificationsRequest,
) (*model.ReadNotificationsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.All {
		if err := d.notificationRepo.MarkAllRead(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark all notifications as read: %v", err)
			return nil, errorx.Unknown
		}

		return &model.ReadNotificationsResponse{}, nil
	}

	if req.ID == "" {
		return nil, errorx.New(errorx.InvalidInput, "Require notification id or all")
	}

	if err := d.notificationRepo.MarkRead(ctx, userID, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found notification")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark notification as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReadNotificationsResponse{}, nil
}

package domain

import (
	"context"
	"time"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

type NotificationDomain interface {
	Get(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	Read(context.Context, *model.ReadNotificationRequest) (*model.ReadNotificationResponse, error)
	ReadAll(context.Context, *model.ReadAllNotificationsRequest) (*model.ReadAllNotificationsResponse, error)
	GetUnreadCount(context.Context, *model.GetUnreadNotificationCountRequest) (*model.GetUnreadNotificationCountResponse, error)
	Delete(context.Context, *model.DeleteNotificationRequest) (*model.DeleteNotificationResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
	memberRepo       repository.MemberRepository
}

func NewNotificationDomain(
	notificationRepo repository.NotificationRepository,
	memberRepo repository.MemberRepository,
) *notificationDomain {
	return &notificationDomain{
		notificationRepo: notificationRepo,
		memberRepo:       memberRepo,
	}
}

func (d *notificationDomain) filterOf(
	ctx context.Context, organizationID string,
) (repository.NotificationFilter, error) {
	userID := xcontext.RequestUserID(ctx)
	member, err := d.memberRepo.Get(ctx, userID, organizationID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the membership: %v", err)
		return repository.NotificationFilter{},
			errorx.New(errorx.PermissionDenied, "You are not in this organization")
	}

	return repository.NotificationFilter{
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           member.Role,
	}, nil
}

func (d *notificationDomain) Get(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	filter, err := d.filterOf(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	filter.Cursor = req.Cursor
	filter.Limit = req.Limit
	if filter.Limit <= 0 {
		filter.Limit = defaultNotificationLimit
	}
	if filter.Limit > maxNotificationLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceeded the maximum limit of %d", maxNotificationLimit)
	}

	notifications, err := d.notificationRepo.List(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list notifications: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetNotificationsResponse{
		Notifications: make([]model.Notification, 0, len(notifications)),
	}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, model.Notification{
			ID:             n.ID,
			OrganizationID: n.OrganizationID,
			Type:           string(n.Type),
			Priority:       string(n.Priority),
			Title:          n.Title,
			Content:        n.Content,
			Metadata:       n.Metadata,
			CreatedBy:      n.CreatedBy,
			CreatedAt:      n.CreatedAt.Format(time.RFC3339),
			IsRead:         n.IsReadBy(filter.UserID),
		})
	}

	if len(notifications) == filter.Limit {
		resp.NextCursor = notifications[len(notifications)-1].ID
	}

	return resp, nil
}

func (d *notificationDomain) Read(
	ctx context.Context, req *model.ReadNotificationRequest,
) (*model.ReadNotificationResponse, error) {
	if _, err := d.filterOf(ctx, req.OrganizationID); err != nil {
		return nil, err
	}

	err := d.notificationRepo.MarkRead(
		ctx, req.OrganizationID, req.NotificationID, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark the notification as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReadNotificationResponse{}, nil
}

func (d *notificationDomain) ReadAll(
	ctx context.Context, req *model.ReadAllNotificationsRequest,
) (*model.ReadAllNotificationsResponse, error) {
	filter, err := d.filterOf(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	if err := d.notificationRepo.MarkAllRead(ctx, filter); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark all notifications as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReadAllNotificationsResponse{}, nil
}

func (d *notificationDomain) GetUnreadCount(
	ctx context.Context, req *model.GetUnreadNotificationCountRequest,
) (*model.GetUnreadNotificationCountResponse, error) {
	filter, err := d.filterOf(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	count, err := d.notificationRepo.CountUnread(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread notifications: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUnreadNotificationCountResponse{Count: count}, nil
}

// Delete removes a notification for the whole organization, so it is
// reserved for admins.
func (d *notificationDomain) Delete(
	ctx context.Context, req *model.DeleteNotificationRequest,
) (*model.DeleteNotificationResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	member, err := d.memberRepo.Get(ctx, userID, req.OrganizationID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the membership: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "You are not in this organization")
	}

	if member.Role != entity.RoleAdmin {
		return nil, errorx.New(errorx.PermissionDenied, "Only admins can delete notifications")
	}

	if err := d.notificationRepo.Delete(ctx, req.OrganizationID, req.NotificationID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the notification: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteNotificationResponse{}, nil
}

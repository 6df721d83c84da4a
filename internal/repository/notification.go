package repository

import (
	"context"
	"time"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationFilter struct {
	OrganizationID string
	UserID         string
	Role           entity.Role
	Cursor         int64
	Limit          int
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, organizationID string, id int64) (*entity.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]entity.Notification, error)
	MarkRead(ctx context.Context, organizationID string, id int64, userID string) error
	MarkAllRead(ctx context.Context, filter NotificationFilter) error
	CountUnread(ctx context.Context, filter NotificationFilter) (int64, error)
	Delete(ctx context.Context, organizationID string, id int64) error
	DeleteByReference(
		ctx context.Context,
		organizationID string,
		notificationType entity.NotificationType,
		referenceID string,
	) error
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return xcontext.DB(ctx).Create(notification).Error
}

func (r *notificationRepository) GetByID(
	ctx context.Context, organizationID string, id int64,
) (*entity.Notification, error) {
	var result entity.Notification
	err := xcontext.DB(ctx).
		Where("organization_id=? AND id=?", organizationID, id).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// recipientConditions narrows a query to records addressed to the user,
// either directly, through a role, or through an everyone broadcast. The
// recipient columns serialize as JSON arrays, so membership is matched on the
// quoted element.
func recipientConditions(db *gorm.DB, filter NotificationFilter) *gorm.DB {
	conditions := db.Where("recipient_everyone=?", true).
		Or("recipient_user_ids LIKE ?", `%"`+filter.UserID+`"%`)

	if filter.Role != "" {
		conditions = conditions.Or("recipient_roles LIKE ?", `%"`+string(filter.Role)+`"%`)
	}

	return conditions
}

func (r *notificationRepository) List(
	ctx context.Context, filter NotificationFilter,
) ([]entity.Notification, error) {
	db := xcontext.DB(ctx)
	tx := db.Model(&entity.Notification{}).
		Where("organization_id=?", filter.OrganizationID).
		Where(recipientConditions(db, filter)).
		Order("id DESC").
		Limit(filter.Limit)

	if filter.Cursor > 0 {
		tx = tx.Where("id < ?", filter.Cursor)
	}

	var result []entity.Notification
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationRepository) MarkRead(
	ctx context.Context, organizationID string, id int64, userID string,
) error {
	notification, err := r.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}

	if notification.IsReadBy(userID) {
		return nil
	}

	readBy := append(notification.ReadBy, entity.ReadReceipt{
		UserID: userID,
		ReadAt: time.Now().Unix(),
	})

	return xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("organization_id=? AND id=?", organizationID, id).
		Update("read_by", readBy).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, filter NotificationFilter) error {
	db := xcontext.DB(ctx)

	var unread []entity.Notification
	err := db.Model(&entity.Notification{}).
		Where("organization_id=?", filter.OrganizationID).
		Where(recipientConditions(db, filter)).
		Where("read_by NOT LIKE ?", `%"`+filter.UserID+`"%`).
		Find(&unread).Error
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	for i := range unread {
		readBy := append(unread[i].ReadBy, entity.ReadReceipt{UserID: filter.UserID, ReadAt: now})
		err := db.Model(&entity.Notification{}).
			Where("id=?", unread[i].ID).
			Update("read_by", readBy).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *notificationRepository) CountUnread(
	ctx context.Context, filter NotificationFilter,
) (int64, error) {
	db := xcontext.DB(ctx)

	var count int64
	err := db.Model(&entity.Notification{}).
		Where("organization_id=?", filter.OrganizationID).
		Where(recipientConditions(db, filter)).
		Where("read_by NOT LIKE ?", `%"`+filter.UserID+`"%`).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *notificationRepository) Delete(ctx context.Context, organizationID string, id int64) error {
	return xcontext.DB(ctx).
		Where("organization_id=? AND id=?", organizationID, id).
		Delete(&entity.Notification{}).Error
}

func (r *notificationRepository) DeleteByReference(
	ctx context.Context,
	organizationID string,
	notificationType entity.NotificationType,
	referenceID string,
) error {
	return xcontext.DB(ctx).
		Where("organization_id=? AND type=? AND reference_id=?",
			organizationID, notificationType, referenceID).
		Delete(&entity.Notification{}).Error
}

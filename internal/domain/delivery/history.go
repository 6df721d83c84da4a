package delivery

import (
	"context"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/xcontext"
)

// HistoryRecorder writes the durable audit trail of dispatched notifications.
// Recording is best effort: a failed insert is logged and swallowed, it never
// blocks or fails the delivery that triggered it.
type HistoryRecorder struct {
	notificationRepo repository.NotificationRepository
}

func NewHistoryRecorder(notificationRepo repository.NotificationRepository) *HistoryRecorder {
	return &HistoryRecorder{notificationRepo: notificationRepo}
}

// Record persists the notification, assigning an ID when the caller left it
// zero. Snowflake IDs keep history ordered by creation time under the
// descending-id cursor.
func (h *HistoryRecorder) Record(ctx context.Context, notification *entity.Notification) {
	if notification.ID == 0 {
		notification.ID = xcontext.SnowFlake(ctx).Generate().Int64()
	}

	if err := h.notificationRepo.Create(ctx, notification); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record notification history: %v", err)
	}
}

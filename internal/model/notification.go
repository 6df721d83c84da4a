package model

type Notification struct {
	ID             int64          `json:"id"`
	OrganizationID string         `json:"organization_id"`
	Type           string         `json:"type"`
	Priority       string         `json:"priority"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedBy      string         `json:"created_by"`
	CreatedAt      string         `json:"created_at"`
	IsRead         bool           `json:"is_read"`
}

type GetNotificationsRequest struct {
	OrganizationID string `form:"organization_id"`
	Cursor         int64  `form:"cursor"`
	Limit          int    `form:"limit"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	NextCursor    int64          `json:"next_cursor"`
}

type ReadNotificationRequest struct {
	OrganizationID string `json:"organization_id"`
	NotificationID int64  `json:"notification_id"`
}

type ReadNotificationResponse struct{}

type ReadAllNotificationsRequest struct {
	OrganizationID string `json:"organization_id"`
}

type ReadAllNotificationsResponse struct{}

type GetUnreadNotificationCountRequest struct {
	OrganizationID string `form:"organization_id"`
}

type GetUnreadNotificationCountResponse struct {
	Count int64 `json:"count"`
}

type DeleteNotificationRequest struct {
	OrganizationID string `json:"organization_id"`
	NotificationID int64  `json:"notification_id"`
}

type DeleteNotificationResponse struct{}

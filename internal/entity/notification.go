package entity

type NotificationType string

const (
	ShiftNotification       NotificationType = "shift"
	ChatNotification        NotificationType = "chat"
	TimesheetNotification   NotificationType = "timesheet"
	JoinRequestNotification NotificationType = "join_request"
	SystemNotification      NotificationType = "system"
)

type NotificationPriority string

const (
	LowPriority    NotificationPriority = "low"
	NormalPriority NotificationPriority = "normal"
	HighPriority   NotificationPriority = "high"
)

type ReadReceipt struct {
	UserID string `json:"user_id"`
	ReadAt int64  `json:"read_at"`
}

// Notification is the durable audit record of one dispatched notification.
// It is written after the dispatch attempt regardless of delivery outcome and
// only ever mutated by read receipts.
type Notification struct {
	SnowFlakeBase

	OrganizationID string `gorm:"index"`
	Type           NotificationType
	Priority       NotificationPriority
	Title          string
	Content        string
	Metadata       Map

	// ReferenceID points at the originating object (join request id, chat
	// message id) so flows can retract their own records.
	ReferenceID string `gorm:"index"`

	RecipientRoles    Array[string]
	RecipientUserIDs  Array[string]
	RecipientEveryone bool

	CreatedBy string
	ReadBy    Array[ReadReceipt]
}

// IsReadBy reports whether userID already appears in the read receipts.
func (n *Notification) IsReadBy(userID string) bool {
	for _, r := range n.ReadBy {
		if r.UserID == userID {
			return true
		}
	}

	return false
}

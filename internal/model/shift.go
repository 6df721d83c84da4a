package model

// ShiftAssignment describes one carer placed on one shift. The shift itself
// is persisted by the scheduling service before the notification core is
// involved.
type ShiftAssignment struct {
	ShiftID   string `json:"shift_id"`
	UserID    string `json:"user_id"`
	HomeID    string `json:"home_id"`
	PatternID string `json:"pattern_id,omitempty"`
	StartsAt  string `json:"starts_at"`
	Action    string `json:"action"`
}

type NotifyShiftAssignmentsRequest struct {
	OrganizationID string            `json:"organization_id"`
	IsAgency       bool              `json:"is_agency"`
	Assignments    []ShiftAssignment `json:"assignments"`

	// SenderName is the display name of the scheduler who made the change.
	// Filled in server-side from the authenticated caller.
	SenderName string `json:"-"`
}

type NotifyShiftAssignmentsResponse struct {
	Enqueued int `json:"enqueued"`
}

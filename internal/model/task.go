package model

// TaskUpdate is the wire shape clients expect on the task channel. Field
// names are part of the client contract.
type TaskUpdate struct {
	TaskID     string `json:"taskId"`
	ResidentID string `json:"residentId"`
	OrgID      string `json:"orgId"`
	Status     string `json:"status"`
	UpdatedBy  string `json:"updatedBy"`
}

type PublishTaskUpdateRequest struct {
	TaskUpdate
}

type PublishTaskUpdateResponse struct {
	Delivered int `json:"delivered"`
}

package model

type CreateJoinRequestRequest struct {
	OrganizationID string `json:"organization_id"`
	Message        string `json:"message,omitempty"`
}

type CreateJoinRequestResponse struct {
	ID string `json:"id"`
}

type AcceptJoinRequestRequest struct {
	OrganizationID string `json:"organization_id"`
	JoinRequestID  string `json:"join_request_id"`
	UserID         string `json:"user_id"`
}

type AcceptJoinRequestResponse struct{}

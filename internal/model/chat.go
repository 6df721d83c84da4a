package model

type ChatMessage struct {
	ID             int64  `json:"id"`
	OrganizationID string `json:"organization_id"`
	SenderID       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	RecipientID    string `json:"recipient_id"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

type SendChatMessageRequest struct {
	OrganizationID string `json:"organization_id"`
	RecipientID    string `json:"recipient_id"`
	Content        string `json:"content"`
}

type SendChatMessageResponse struct {
	ID        int64 `json:"id"`
	Delivered bool  `json:"delivered"`
}

package event

import "github.com/carerota/backend/internal/model"

const ChatMessageOp = "chatMessage"

type ChatMessageEvent struct {
	model.ChatMessage
}

func (*ChatMessageEvent) Op() string {
	return ChatMessageOp
}

package domain

import (
	"context"
	"time"

	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
)

type ChatDomain interface {
	SendMessage(context.Context, *model.SendChatMessageRequest) (*model.SendChatMessageResponse, error)
}

type chatDomain struct {
	userRepo     repository.UserRepository
	memberRepo   repository.MemberRepository
	orchestrator *delivery.Orchestrator
}

func NewChatDomain(
	userRepo repository.UserRepository,
	memberRepo repository.MemberRepository,
	orchestrator *delivery.Orchestrator,
) *chatDomain {
	return &chatDomain{
		userRepo:     userRepo,
		memberRepo:   memberRepo,
		orchestrator: orchestrator,
	}
}

func (d *chatDomain) SendMessage(
	ctx context.Context, req *model.SendChatMessageRequest,
) (*model.SendChatMessageResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Message content must not be empty")
	}

	if _, err := d.memberRepo.Get(ctx, userID, req.OrganizationID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the sender membership: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "You are not in this organization")
	}

	if _, err := d.memberRepo.Get(ctx, req.RecipientID, req.OrganizationID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the recipient membership: %v", err)
		return nil, errorx.New(errorx.NotFound, "Recipient is not in this organization")
	}

	sender, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the sender: %v", err)
		return nil, errorx.Unknown
	}

	msg := model.ChatMessage{
		ID:             xcontext.SnowFlake(ctx).Generate().Int64(),
		OrganizationID: req.OrganizationID,
		SenderID:       userID,
		SenderName:     sender.Name,
		RecipientID:    req.RecipientID,
		Content:        req.Content,
		CreatedAt:      time.Now().Format(time.RFC3339),
	}

	delivered, err := d.orchestrator.DeliverChatMessage(ctx, msg)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deliver the chat message: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SendChatMessageResponse{ID: msg.ID, Delivered: delivered}, nil
}

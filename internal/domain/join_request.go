package domain

import (
	"context"

	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type JoinRequestDomain interface {
	Create(context.Context, *model.CreateJoinRequestRequest) (*model.CreateJoinRequestResponse, error)
	Accept(context.Context, *model.AcceptJoinRequestRequest) (*model.AcceptJoinRequestResponse, error)
}

type joinRequestDomain struct {
	userRepo         repository.UserRepository
	organizationRepo repository.OrganizationRepository
	memberRepo       repository.MemberRepository
	orchestrator     *delivery.Orchestrator
}

func NewJoinRequestDomain(
	userRepo repository.UserRepository,
	organizationRepo repository.OrganizationRepository,
	memberRepo repository.MemberRepository,
	orchestrator *delivery.Orchestrator,
) *joinRequestDomain {
	return &joinRequestDomain{
		userRepo:         userRepo,
		organizationRepo: organizationRepo,
		memberRepo:       memberRepo,
		orchestrator:     orchestrator,
	}
}

// Create files a request to join an organization and notifies its admins.
// The request lives in the admins' notification history until a decision
// retracts it.
func (d *joinRequestDomain) Create(
	ctx context.Context, req *model.CreateJoinRequestRequest,
) (*model.CreateJoinRequestResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	requester, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the requester: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found user")
	}

	if _, err := d.organizationRepo.GetByID(ctx, req.OrganizationID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the organization: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found organization")
	}

	if _, err := d.memberRepo.Get(ctx, userID, req.OrganizationID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You are already in this organization")
	}

	requestID := uuid.NewString()
	err = d.orchestrator.NotifyJoinRequest(ctx, req.OrganizationID, requestID, userID, requester.Name)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot notify the join request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateJoinRequestResponse{ID: requestID}, nil
}

// Accept lets an admin approve a pending request. The new member joins as a
// carer; the pending record disappears from every admin's history and the
// requester learns the outcome.
func (d *joinRequestDomain) Accept(
	ctx context.Context, req *model.AcceptJoinRequestRequest,
) (*model.AcceptJoinRequestResponse, error) {
	callerID := xcontext.RequestUserID(ctx)
	caller, err := d.memberRepo.Get(ctx, callerID, req.OrganizationID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the caller membership: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "You are not in this organization")
	}

	if caller.Role != entity.RoleAdmin {
		return nil, errorx.New(errorx.PermissionDenied, "Only admins can accept join requests")
	}

	org, err := d.organizationRepo.GetByID(ctx, req.OrganizationID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the organization: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found organization")
	}

	if _, err := d.memberRepo.Get(ctx, req.UserID, req.OrganizationID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "User is already in this organization")
	}

	err = d.memberRepo.Create(ctx, &entity.Member{
		Base:           entity.Base{ID: uuid.NewString()},
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		Role:           entity.RoleCarer,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the member: %v", err)
		return nil, errorx.Unknown
	}

	err = d.orchestrator.NotifyJoinRequestDecision(
		ctx, req.OrganizationID, req.JoinRequestID, req.UserID, org.Name, true)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot notify the decision: %v", err)
	}

	return &model.AcceptJoinRequestResponse{}, nil
}

package domain

import (
	"context"

	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
)

type ShiftDomain interface {
	NotifyAssignments(context.Context, *model.NotifyShiftAssignmentsRequest) (*model.NotifyShiftAssignmentsResponse, error)
	PublishTaskUpdate(context.Context, *model.PublishTaskUpdateRequest) (*model.PublishTaskUpdateResponse, error)
}

type shiftDomain struct {
	userRepo         repository.UserRepository
	organizationRepo repository.OrganizationRepository
	memberRepo       repository.MemberRepository
	orchestrator     *delivery.Orchestrator
}

func NewShiftDomain(
	userRepo repository.UserRepository,
	organizationRepo repository.OrganizationRepository,
	memberRepo repository.MemberRepository,
	orchestrator *delivery.Orchestrator,
) *shiftDomain {
	return &shiftDomain{
		userRepo:         userRepo,
		organizationRepo: organizationRepo,
		memberRepo:       memberRepo,
		orchestrator:     orchestrator,
	}
}

// NotifyAssignments is called by the scheduling service after it persisted a
// rota change. The assignments land in the batcher, one push per carer per
// window.
func (d *shiftDomain) NotifyAssignments(
	ctx context.Context, req *model.NotifyShiftAssignmentsRequest,
) (*model.NotifyShiftAssignmentsResponse, error) {
	if err := d.requireScheduler(ctx, req.OrganizationID); err != nil {
		return nil, err
	}

	if len(req.Assignments) == 0 {
		return &model.NotifyShiftAssignmentsResponse{}, nil
	}

	org, err := d.organizationRepo.GetByID(ctx, req.OrganizationID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the organization: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found organization")
	}

	// The caller's flag is advisory, the stored organization type wins.
	req.IsAgency = org.Type == entity.Agency

	if sender, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx)); err == nil {
		req.SenderName = sender.Name
	} else {
		xcontext.Logger(ctx).Warnf("Cannot get the scheduler name: %v", err)
	}

	enqueued := d.orchestrator.EnqueueShiftAssignments(ctx, req)
	return &model.NotifyShiftAssignmentsResponse{Enqueued: enqueued}, nil
}

// PublishTaskUpdate broadcasts a care-task status change to every open
// dashboard of the organization.
func (d *shiftDomain) PublishTaskUpdate(
	ctx context.Context, req *model.PublishTaskUpdateRequest,
) (*model.PublishTaskUpdateResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if _, err := d.memberRepo.Get(ctx, userID, req.OrgID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the updater membership: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "You are not in this organization")
	}

	req.UpdatedBy = userID
	delivered, err := d.orchestrator.PublishTaskUpdate(ctx, req.TaskUpdate)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish the task update: %v", err)
		return nil, errorx.Unknown
	}

	return &model.PublishTaskUpdateResponse{Delivered: delivered}, nil
}

func (d *shiftDomain) requireScheduler(ctx context.Context, organizationID string) error {
	userID := xcontext.RequestUserID(ctx)
	member, err := d.memberRepo.Get(ctx, userID, organizationID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the caller membership: %v", err)
		return errorx.New(errorx.PermissionDenied, "You are not in this organization")
	}

	if member.Role != entity.RoleAdmin && member.Role != entity.RoleManager {
		return errorx.New(errorx.PermissionDenied, "Only admins and managers can publish rota changes")
	}

	return nil
}

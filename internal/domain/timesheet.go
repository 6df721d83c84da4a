package domain

import (
	"context"
	"strings"
	"time"

	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
)

const (
	timesheetProcessed = "processed"
	timesheetFailed    = "failed"
)

type TimesheetDomain interface {
	Scan(context.Context, *model.ScanTimesheetRequest) (*model.ScanTimesheetResponse, error)
}

type timesheetDomain struct {
	memberRepo   repository.MemberRepository
	orchestrator *delivery.Orchestrator
}

func NewTimesheetDomain(
	memberRepo repository.MemberRepository,
	orchestrator *delivery.Orchestrator,
) *timesheetDomain {
	return &timesheetDomain{
		memberRepo:   memberRepo,
		orchestrator: orchestrator,
	}
}

// Scan handles one barcode scan. The scanner gets an immediate echo on the
// timesheet socket, then the processed result; admins learn about failures.
func (d *timesheetDomain) Scan(
	ctx context.Context, req *model.ScanTimesheetRequest,
) (*model.ScanTimesheetResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if _, err := d.memberRepo.Get(ctx, userID, req.OrganizationID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get the scanner membership: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "You are not in this organization")
	}

	result := model.TimesheetScanResult{
		TimesheetID: req.TimesheetID,
		Barcode:     req.Barcode,
		ScannedBy:   userID,
		Timestamp:   time.Now().Unix(),
	}

	if err := d.orchestrator.AcknowledgeScan(ctx, req.OrganizationID, result); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot acknowledge the scan: %v", err)
	}

	result.Status, result.Error = processScan(req)

	if err := d.orchestrator.DeliverTimesheetScan(ctx, req.OrganizationID, result); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deliver the scan result: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ScanTimesheetResponse{Status: result.Status}, nil
}

// processScan validates the barcode against the timesheet it claims to
// belong to. The barcode carries the timesheet id as its prefix.
func processScan(req *model.ScanTimesheetRequest) (status, errMsg string) {
	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		return timesheetFailed, "barcode unreadable"
	}

	if req.TimesheetID == "" {
		return timesheetFailed, "unknown timesheet"
	}

	if !strings.HasPrefix(barcode, req.TimesheetID) {
		return timesheetFailed, "barcode does not match timesheet"
	}

	return timesheetProcessed, ""
}

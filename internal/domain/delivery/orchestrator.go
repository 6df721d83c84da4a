package delivery

import (
	"context"
	"strconv"

	"github.com/carerota/backend/internal/domain/delivery/event"
	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/xcontext"
)

const (
	ChatChannel      = "chat"
	TasksChannel     = "tasks"
	TimesheetChannel = "timesheet"
)

// Orchestrator turns business events into deliveries. It owns the policy of
// which transport each event class takes: sockets for live updates, the
// batcher for rota churn, direct pushes for person-to-person messages, and
// the history recorder for everything a user may review later.
type Orchestrator struct {
	relay      *Relay
	batcher    *Batcher
	dispatcher *PushDispatcher
	recorder   *HistoryRecorder
	memberRepo repository.MemberRepository
}

func NewOrchestrator(
	relay *Relay,
	batcher *Batcher,
	dispatcher *PushDispatcher,
	recorder *HistoryRecorder,
	memberRepo repository.MemberRepository,
) *Orchestrator {
	return &Orchestrator{
		relay:      relay,
		batcher:    batcher,
		dispatcher: dispatcher,
		recorder:   recorder,
		memberRepo: memberRepo,
	}
}

// EnqueueShiftAssignments feeds rota changes into the batcher. Each assigned
// carer gets their own pending set; for agency organizations the agency
// admins ride along so they see placement churn too.
func (o *Orchestrator) EnqueueShiftAssignments(
	ctx context.Context, req *model.NotifyShiftAssignmentsRequest,
) int {
	enqueued := 0
	for _, a := range req.Assignments {
		if a.UserID == "" {
			continue
		}

		o.batcher.Enqueue(ctx, a.UserID, req.OrganizationID, req.SenderName, req.IsAgency, event.ShiftEvent{
			ShiftID:   a.ShiftID,
			HomeID:    a.HomeID,
			PatternID: a.PatternID,
			StartsAt:  a.StartsAt,
			Action:    a.Action,
		})
		enqueued++
	}

	if req.IsAgency && enqueued > 0 {
		admins, err := o.memberRepo.GetByRole(ctx, req.OrganizationID, entity.RoleAdmin)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load agency admins of %s: %v", req.OrganizationID, err)
			return enqueued
		}

		assigned := make(map[string]struct{}, len(req.Assignments))
		for _, a := range req.Assignments {
			assigned[a.UserID] = struct{}{}
		}

		for _, admin := range admins {
			if _, ok := assigned[admin.UserID]; ok {
				continue
			}

			for _, a := range req.Assignments {
				o.batcher.Enqueue(ctx, admin.UserID, req.OrganizationID, req.SenderName, true, event.ShiftEvent{
					ShiftID:   a.ShiftID,
					HomeID:    a.HomeID,
					PatternID: a.PatternID,
					StartsAt:  a.StartsAt,
					Action:    a.Action,
				})
			}
		}
	}

	return enqueued
}

// PublishTaskUpdate broadcasts a care-task change to every task socket of the
// organization, the editor's own included, so all open dashboards converge on
// the same state. Task updates are live-only, they do not enter the
// notification history.
func (o *Orchestrator) PublishTaskUpdate(ctx context.Context, update model.TaskUpdate) (int, error) {
	msg, err := event.Format(&event.TaskUpdateEvent{TaskUpdate: update})
	if err != nil {
		return 0, err
	}

	return o.relay.BroadcastOrg(ctx, TasksChannel, update.OrgID, "", msg), nil
}

// DeliverChatMessage delivers one direct message. The socket gives the
// recipient the live copy when they are connected; the push goes out either
// way, since a backgrounded app holds a socket that no one is looking at.
func (o *Orchestrator) DeliverChatMessage(ctx context.Context, msg model.ChatMessage) (bool, error) {
	frame, err := event.Format(&event.ChatMessageEvent{ChatMessage: msg})
	if err != nil {
		return false, err
	}

	key := ClientKey{UserID: msg.RecipientID, OrgID: msg.OrganizationID}
	delivered := o.relay.SendTo(ctx, ChatChannel, key, frame)

	o.dispatcher.SendToUser(ctx, msg.RecipientID, msg.SenderName, msg.Content, map[string]string{
		"type":           string(entity.ChatNotification),
		"messageId":      strconv.FormatInt(msg.ID, 10),
		"senderId":       msg.SenderID,
		"organizationId": msg.OrganizationID,
	})

	o.recorder.Record(ctx, &entity.Notification{
		OrganizationID:   msg.OrganizationID,
		Type:             entity.ChatNotification,
		Priority:         entity.NormalPriority,
		Title:            msg.SenderName,
		Content:          msg.Content,
		Metadata:         entity.Map{"sender_id": msg.SenderID},
		ReferenceID:      strconv.FormatInt(msg.ID, 10),
		RecipientUserIDs: entity.Array[string]{msg.RecipientID},
		CreatedBy:        msg.SenderID,
	})

	return delivered, nil
}

// DeliverTimesheetScan sends the processed result back to the scanner's
// socket and fans the outcome out to the organization's admins. Failed scans
// additionally push to the admins' devices.
func (o *Orchestrator) DeliverTimesheetScan(
	ctx context.Context, orgID string, result model.TimesheetScanResult,
) error {
	processed, err := event.Format(&event.TimesheetProcessedEvent{TimesheetScanResult: result})
	if err != nil {
		return err
	}

	scannerKey := ClientKey{UserID: result.ScannedBy, OrgID: orgID}
	o.relay.SendTo(ctx, TimesheetChannel, scannerKey, processed)

	adminFrame, err := event.Format(&event.TimesheetAdminEvent{
		TimesheetID: result.TimesheetID,
		ScannedBy:   result.ScannedBy,
		Status:      result.Status,
		Timestamp:   result.Timestamp,
	})
	if err != nil {
		return err
	}

	admins, err := o.memberRepo.GetByRole(ctx, orgID, entity.RoleAdmin)
	if err != nil {
		return err
	}

	adminIDs := make([]string, 0, len(admins))
	for _, admin := range admins {
		if admin.UserID == result.ScannedBy {
			continue
		}

		adminIDs = append(adminIDs, admin.UserID)
		o.relay.SendTo(ctx, TimesheetChannel, ClientKey{UserID: admin.UserID, OrgID: orgID}, adminFrame)
	}

	if result.Error != "" && len(adminIDs) > 0 {
		o.dispatcher.SendToUsers(ctx, adminIDs, "Timesheet scan failed",
			"A timesheet scan needs attention", map[string]string{
				"type":        string(entity.TimesheetNotification),
				"timesheetId": result.TimesheetID,
			})
	}

	o.recorder.Record(ctx, &entity.Notification{
		OrganizationID: orgID,
		Type:           entity.TimesheetNotification,
		Priority:       timesheetPriority(result),
		Title:          "Timesheet " + result.Status,
		Content:        "Timesheet " + result.TimesheetID + " scanned",
		Metadata:       entity.Map{"timesheet_id": result.TimesheetID, "status": result.Status},
		ReferenceID:    result.TimesheetID,
		RecipientRoles: entity.Array[string]{string(entity.RoleAdmin)},
		CreatedBy:      result.ScannedBy,
	})

	return nil
}

func timesheetPriority(result model.TimesheetScanResult) entity.NotificationPriority {
	if result.Error != "" {
		return entity.HighPriority
	}

	return entity.NormalPriority
}

// NotifyJoinRequest tells the organization's admins that someone asked to
// join. The record carries the request id so an accepted or rejected request
// can retract it.
func (o *Orchestrator) NotifyJoinRequest(
	ctx context.Context, orgID, requestID, requesterID, requesterName string,
) error {
	admins, err := o.memberRepo.GetByRole(ctx, orgID, entity.RoleAdmin)
	if err != nil {
		return err
	}

	adminIDs := make([]string, 0, len(admins))
	for _, admin := range admins {
		adminIDs = append(adminIDs, admin.UserID)
	}

	title := "New join request"
	body := requesterName + " asked to join your organization"
	o.dispatcher.SendToUsers(ctx, adminIDs, title, body, map[string]string{
		"type":      string(entity.JoinRequestNotification),
		"requestId": requestID,
	})

	o.recorder.Record(ctx, &entity.Notification{
		OrganizationID: orgID,
		Type:           entity.JoinRequestNotification,
		Priority:       entity.NormalPriority,
		Title:          title,
		Content:        body,
		Metadata:       entity.Map{"requester_id": requesterID},
		ReferenceID:    requestID,
		RecipientRoles: entity.Array[string]{string(entity.RoleAdmin)},
		CreatedBy:      requesterID,
	})

	return nil
}

// NotifyJoinRequestDecision retracts the admins' pending record and tells the
// requester the outcome.
func (o *Orchestrator) NotifyJoinRequestDecision(
	ctx context.Context, orgID, requestID, requesterID, orgName string, accepted bool,
) error {
	err := o.recorder.notificationRepo.DeleteByReference(
		ctx, orgID, entity.JoinRequestNotification, requestID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot retract join request record %s: %v", requestID, err)
	}

	title := "Join request declined"
	body := "Your request to join " + orgName + " was declined"
	if accepted {
		title = "Welcome to " + orgName
		body = "Your request to join " + orgName + " was accepted"
	}

	o.dispatcher.SendToUser(ctx, requesterID, title, body, map[string]string{
		"type":      string(entity.JoinRequestNotification),
		"requestId": requestID,
		"accepted":  strconv.FormatBool(accepted),
	})

	o.recorder.Record(ctx, &entity.Notification{
		OrganizationID:   orgID,
		Type:             entity.JoinRequestNotification,
		Priority:         entity.NormalPriority,
		Title:            title,
		Content:          body,
		ReferenceID:      requestID,
		RecipientUserIDs: entity.Array[string]{requesterID},
		CreatedBy:        "system",
	})

	return nil
}

// AcknowledgeScan echoes the accepted scan back on the scanner's socket
// before processing completes.
func (o *Orchestrator) AcknowledgeScan(
	ctx context.Context, orgID string, req model.TimesheetScanResult,
) error {
	frame, err := event.Format(&event.TimesheetScanEvent{TimesheetScanResult: req})
	if err != nil {
		return err
	}

	key := ClientKey{UserID: req.ScannedBy, OrgID: orgID}
	o.relay.SendTo(ctx, TimesheetChannel, key, frame)
	return nil
}

// Flush drains the batcher, used on shutdown so armed windows do not lose
// their pending sets.
func (o *Orchestrator) Flush(ctx context.Context) {
	o.batcher.Flush(ctx)
}

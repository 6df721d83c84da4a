package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/domain/delivery/event"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
)

type SocketDomain interface {
	ServeChat(context.Context, *model.ServeSocketRequest) error
	ServeTasks(context.Context, *model.ServeSocketRequest) error
	ServeTimesheet(context.Context, *model.ServeSocketRequest) error
}

type socketDomain struct {
	chatRegistry      *delivery.Registry
	tasksRegistry     *delivery.Registry
	timesheetRegistry *delivery.Registry

	chatDomain      ChatDomain
	timesheetDomain TimesheetDomain
}

func NewSocketDomain(
	chatRegistry *delivery.Registry,
	tasksRegistry *delivery.Registry,
	timesheetRegistry *delivery.Registry,
	chatDomain ChatDomain,
	timesheetDomain TimesheetDomain,
) *socketDomain {
	return &socketDomain{
		chatRegistry:      chatRegistry,
		tasksRegistry:     tasksRegistry,
		timesheetRegistry: timesheetRegistry,
		chatDomain:        chatDomain,
		timesheetDomain:   timesheetDomain,
	}
}

// ServeChat holds a chat connection open. Inbound chatMessage frames are
// delivered on behalf of the connected user.
func (d *socketDomain) ServeChat(ctx context.Context, req *model.ServeSocketRequest) error {
	return d.serve(ctx, d.chatRegistry, req, func(ctx context.Context, frame event.Frame) {
		switch frame.Type {
		case event.ChatMessageOp:
			var sendReq model.SendChatMessageRequest
			if err := json.Unmarshal(frame.Data, &sendReq); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot parse the chat frame: %v", err)
				return
			}

			if _, err := d.chatDomain.SendMessage(ctx, &sendReq); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot send the socket chat message: %v", err)
			}

		default:
			xcontext.Logger(ctx).Debugf("Unknown chat frame type %s", frame.Type)
		}
	})
}

// ServeTasks holds a task-update connection open. The task channel is
// server-to-client only, inbound frames are logged and dropped.
func (d *socketDomain) ServeTasks(ctx context.Context, req *model.ServeSocketRequest) error {
	return d.serve(ctx, d.tasksRegistry, req, func(ctx context.Context, frame event.Frame) {
		xcontext.Logger(ctx).Debugf("Dropped inbound task frame type %s", frame.Type)
	})
}

// ServeTimesheet holds a timesheet-scan connection open. Inbound
// TIMESHEET_SCAN frames run the scan pipeline for the connected user.
func (d *socketDomain) ServeTimesheet(ctx context.Context, req *model.ServeSocketRequest) error {
	return d.serve(ctx, d.timesheetRegistry, req, func(ctx context.Context, frame event.Frame) {
		switch frame.Type {
		case event.TimesheetScanOp:
			body := frame.Payload
			if body == nil {
				body = frame.Data
			}

			var scanReq model.ScanTimesheetRequest
			if err := json.Unmarshal(body, &scanReq); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot parse the scan frame: %v", err)
				return
			}

			if _, err := d.timesheetDomain.Scan(ctx, &scanReq); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot process the socket scan: %v", err)
			}

		default:
			xcontext.Logger(ctx).Debugf("Unknown timesheet frame type %s", frame.Type)
		}
	})
}

func (d *socketDomain) serve(
	ctx context.Context,
	registry *delivery.Registry,
	req *model.ServeSocketRequest,
	handle func(ctx context.Context, frame event.Frame),
) error {
	client := xcontext.WSClient(ctx)
	if client == nil {
		return errorx.New(errorx.Internal, "No socket connection")
	}

	// Identity comes from the upgrade URL. A handshake without it is closed
	// with no payload.
	if req.UserID == "" || req.OrgID == "" {
		return errorx.New(errorx.BadRequest, "Require userId and orgId")
	}

	ctx = xcontext.WithRequestUserID(ctx, req.UserID)
	key := delivery.ClientKey{UserID: req.UserID, OrgID: req.OrgID}

	if displaced := registry.Register(ctx, key, client); displaced != nil {
		if closer, ok := displaced.(interface{ Close() error }); ok {
			closer.Close()
		}
	}
	defer registry.Unregister(ctx, key, client)

	ack, err := event.Format(&event.ConnectionEstablishedEvent{
		ClientID:  key.String(),
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	if err := client.Write(ack); err != nil {
		return err
	}

	for msg := range client.R {
		var frame event.Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot parse the inbound frame: %v", err)
			continue
		}

		handle(ctx, frame)
	}

	return nil
}

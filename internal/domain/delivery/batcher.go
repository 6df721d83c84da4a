package delivery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/carerota/backend/internal/domain/delivery/event"
	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/pkg/xcontext"
)

type batchPusher interface {
	SendToUser(ctx context.Context, userID, title, body string, data map[string]string) DispatchResult
}

type batchRecorder interface {
	Record(ctx context.Context, notification *entity.Notification)
}

type userPending struct {
	orgID      string
	isAgency   bool
	senderName string
	seen       map[string]struct{}
	events     []event.ShiftEvent
}

// Batcher coalesces shift changes into one push per recipient per window.
//
// The window is fixed: the first enqueue after an idle period arms the shared
// flush timer, later enqueues ride along without extending it. An editor
// reworking a rota therefore produces one notification, not one per edit, and
// no stream of edits can postpone the flush forever.
type Batcher struct {
	baseCtx  context.Context
	window   time.Duration
	pusher   batchPusher
	recorder batchRecorder

	mutex    sync.Mutex
	pending  map[string]*userPending
	armed    bool
	flushing bool
	rearm    bool
}

func NewBatcher(
	ctx context.Context,
	pusher batchPusher,
	recorder batchRecorder,
) *Batcher {
	window := xcontext.Configs(ctx).Notification.BatchWindow
	if window <= 0 {
		window = 10 * time.Second
	}

	return &Batcher{
		baseCtx:  ctx,
		window:   window,
		pusher:   pusher,
		recorder: recorder,
		pending:  make(map[string]*userPending),
	}
}

// Enqueue adds one shift change to userID's pending set. Byte-identical
// events within a window collapse into one entry. The first non-empty sender
// name of a window represents the whole batch.
func (b *Batcher) Enqueue(
	ctx context.Context, userID, orgID, senderName string, isAgency bool, ev event.ShiftEvent,
) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	up, ok := b.pending[userID]
	if !ok {
		up = &userPending{
			orgID:    orgID,
			isAgency: isAgency,
			seen:     make(map[string]struct{}),
		}
		b.pending[userID] = up
	}

	if up.senderName == "" {
		up.senderName = senderName
	}

	key := ev.DedupeKey()
	if _, dup := up.seen[key]; !dup {
		up.seen[key] = struct{}{}
		up.events = append(up.events, ev)
	}

	if b.flushing {
		b.rearm = true
	} else if !b.armed {
		b.armed = true
		time.AfterFunc(b.window, b.flush)
	}
}

// Flush drains and delivers the pending sets immediately. Used on shutdown.
func (b *Batcher) Flush(ctx context.Context) {
	b.flushWith(ctx)
}

func (b *Batcher) flush() {
	b.flushWith(b.baseCtx)
}

func (b *Batcher) flushWith(ctx context.Context) {
	b.mutex.Lock()
	if b.flushing {
		b.mutex.Unlock()
		return
	}

	b.flushing = true
	b.armed = false
	snapshot := b.pending
	b.pending = make(map[string]*userPending)
	b.mutex.Unlock()

	for userID, up := range snapshot {
		b.flushUser(ctx, userID, up)
	}

	b.mutex.Lock()
	b.flushing = false
	if b.rearm {
		b.rearm = false
		if len(b.pending) > 0 {
			b.armed = true
			time.AfterFunc(b.window, b.flush)
		}
	}
	b.mutex.Unlock()
}

// flushUser delivers one user's pending set. A panic here is contained so
// one broken recipient cannot take down the rest of the flush.
func (b *Batcher) flushUser(ctx context.Context, userID string, up *userPending) {
	defer func() {
		if r := recover(); r != nil {
			xcontext.Logger(ctx).Errorf("Recovered flushing shift batch of %s: %v", userID, r)
		}
	}()

	if len(up.events) == 0 {
		return
	}

	title, body := summarize(up)
	data := map[string]string{
		"type":     string(entity.ShiftNotification),
		"count":    fmt.Sprintf("%d", len(up.events)),
		"shiftIds": strings.Join(distinct(up.events, func(e event.ShiftEvent) string { return e.ShiftID }), ","),
	}
	if up.senderName != "" {
		data["senderName"] = up.senderName
	}

	result := b.pusher.SendToUser(ctx, userID, title, body, data)
	if len(result.Failures) > 0 {
		xcontext.Logger(ctx).Warnf(
			"Pushed shift batch to %s with %d failed tokens", userID, len(result.Failures))
	}

	b.recorder.Record(ctx, &entity.Notification{
		OrganizationID:   up.orgID,
		Type:             entity.ShiftNotification,
		Priority:         entity.NormalPriority,
		Title:            title,
		Content:          body,
		Metadata:         entity.Map{"count": len(up.events), "senderName": up.senderName},
		RecipientUserIDs: entity.Array[string]{userID},
		CreatedBy:        "system",
	})
}

func summarize(up *userPending) (title, body string) {
	if up.isAgency {
		title = "Agency shifts updated"
	} else {
		title = "Your rota has changed"
	}

	n := len(up.events)
	if n == 1 {
		ev := up.events[0]
		body = fmt.Sprintf("1 shift %s", pastTense(ev.Action))
		if ev.StartsAt != "" {
			body += " starting " + ev.StartsAt
		}
		return title, body
	}

	body = fmt.Sprintf("%d shift updates", n)
	if homes := distinct(up.events, func(e event.ShiftEvent) string { return e.HomeID }); len(homes) > 1 {
		body += fmt.Sprintf(" across %d homes", len(homes))
	}

	return title, body
}

func pastTense(action string) string {
	switch action {
	case "assign":
		return "assigned"
	case "unassign":
		return "unassigned"
	case "cancel":
		return "cancelled"
	default:
		return "updated"
	}
}

func distinct(events []event.ShiftEvent, pick func(event.ShiftEvent) string) []string {
	seen := make(map[string]struct{}, len(events))
	result := make([]string, 0, len(events))
	for _, ev := range events {
		v := pick(ev)
		if v == "" {
			continue
		}

		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	return result
}

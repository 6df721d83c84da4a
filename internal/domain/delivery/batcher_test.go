package delivery

import (
	"testing"
	"time"

	"github.com/carerota/backend/internal/domain/delivery/event"
	"github.com/stretchr/testify/require"
)

func TestBatcherCoalescesOneWindowIntoOnePush(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{}
	recorder := &fakeBatchRecorder{}
	batcher := NewBatcher(ctx, pusher, recorder)

	for i := 0; i < 5; i++ {
		batcher.Enqueue(ctx, "u1", "org1", "", false, event.ShiftEvent{
			ShiftID: string(rune('a' + i)),
			HomeID:  "home1",
			Action:  "assign",
		})
	}

	batcher.Flush(ctx)

	calls := pusher.callsFor("u1")
	require.Len(t, calls, 1)
	require.Equal(t, "5", calls[0].data["count"])
	require.Equal(t, "Your rota has changed", calls[0].title)
	require.Len(t, recorder.recordedFor("u1"), 1)
}

func TestBatcherDedupesIdenticalEvents(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{}
	batcher := NewBatcher(ctx, pusher, &fakeBatchRecorder{})

	ev := event.ShiftEvent{ShiftID: "s1", HomeID: "home1", Action: "assign"}
	batcher.Enqueue(ctx, "u1", "org1", "", false, ev)
	batcher.Enqueue(ctx, "u1", "org1", "", false, ev)
	batcher.Enqueue(ctx, "u1", "org1", "", false, event.ShiftEvent{ShiftID: "s1", HomeID: "home1", Action: "cancel"})

	batcher.Flush(ctx)

	calls := pusher.callsFor("u1")
	require.Len(t, calls, 1)
	require.Equal(t, "2", calls[0].data["count"])
}

func TestBatcherKeepsUsersIsolated(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{}
	batcher := NewBatcher(ctx, pusher, &fakeBatchRecorder{})

	batcher.Enqueue(ctx, "u5", "org1", "", false, event.ShiftEvent{ShiftID: "sA", Action: "assign"})
	batcher.Enqueue(ctx, "u5", "org1", "", false, event.ShiftEvent{ShiftID: "sB", Action: "assign"})
	batcher.Enqueue(ctx, "u6", "org1", "", false, event.ShiftEvent{ShiftID: "sC", Action: "assign"})

	batcher.Flush(ctx)

	require.Equal(t, 2, pusher.callCount())

	u5Calls := pusher.callsFor("u5")
	require.Len(t, u5Calls, 1)
	require.Equal(t, "2", u5Calls[0].data["count"])

	u6Calls := pusher.callsFor("u6")
	require.Len(t, u6Calls, 1)
	require.Equal(t, "1", u6Calls[0].data["count"])
}

func TestBatcherFixedWindowDoesNotExtend(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{}
	batcher := NewBatcher(ctx, pusher, &fakeBatchRecorder{})

	// Window is 50ms. The second enqueue at ~30ms must ride the first
	// window, not start its own.
	batcher.Enqueue(ctx, "u1", "org1", "", false, event.ShiftEvent{ShiftID: "s1", Action: "assign"})
	time.Sleep(30 * time.Millisecond)
	batcher.Enqueue(ctx, "u1", "org1", "", false, event.ShiftEvent{ShiftID: "s2", Action: "assign"})

	require.Eventually(t, func() bool {
		return pusher.callCount() == 1
	}, 200*time.Millisecond, 5*time.Millisecond)

	calls := pusher.callsFor("u1")
	require.Equal(t, "2", calls[0].data["count"])
}

func TestBatcherIsolatesRecipientFailures(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{panicUsers: map[string]bool{"broken": true}}
	recorder := &fakeBatchRecorder{}
	batcher := NewBatcher(ctx, pusher, recorder)

	batcher.Enqueue(ctx, "broken", "org1", "", false, event.ShiftEvent{ShiftID: "s1", Action: "assign"})
	batcher.Enqueue(ctx, "healthy", "org1", "", false, event.ShiftEvent{ShiftID: "s2", Action: "assign"})

	require.NotPanics(t, func() { batcher.Flush(ctx) })

	require.Len(t, pusher.callsFor("healthy"), 1)
	require.Len(t, recorder.recordedFor("healthy"), 1)
}

func TestBatcherFlushWithNothingPendingIsNoOp(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{}
	batcher := NewBatcher(ctx, pusher, &fakeBatchRecorder{})

	require.NotPanics(t, func() { batcher.Flush(ctx) })
	require.Equal(t, 0, pusher.callCount())
}

func TestBatcherCarriesFirstSenderName(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{}
	recorder := &fakeBatchRecorder{}
	batcher := NewBatcher(ctx, pusher, recorder)

	batcher.Enqueue(ctx, "u1", "org1", "Admin One", false, event.ShiftEvent{ShiftID: "s1", Action: "assign"})
	batcher.Enqueue(ctx, "u1", "org1", "Someone Else", false, event.ShiftEvent{ShiftID: "s2", Action: "assign"})

	batcher.Flush(ctx)

	calls := pusher.callsFor("u1")
	require.Len(t, calls, 1)
	require.Equal(t, "Admin One", calls[0].data["senderName"])

	records := recorder.recordedFor("u1")
	require.Len(t, records, 1)
	require.Equal(t, "Admin One", records[0].Metadata["senderName"])
}

func TestBatcherAgencyTitle(t *testing.T) {
	ctx := testCtx(t)
	pusher := &fakePusher{}
	batcher := NewBatcher(ctx, pusher, &fakeBatchRecorder{})

	batcher.Enqueue(ctx, "admin1", "agency1", "", true, event.ShiftEvent{ShiftID: "s1", Action: "assign"})
	batcher.Flush(ctx)

	calls := pusher.callsFor("admin1")
	require.Len(t, calls, 1)
	require.Equal(t, "Agency shifts updated", calls[0].title)
}

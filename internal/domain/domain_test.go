package domain

import (
	"context"

	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/testutil"
)

type testDeps struct {
	orchestrator *delivery.Orchestrator
	chatReg      *delivery.Registry
	tasksReg     *delivery.Registry
	timesheetReg *delivery.Registry
	provider     *testutil.MockPushProvider
}

func newTestDeps(ctx context.Context) *testDeps {
	d := &testDeps{
		chatReg:      delivery.NewRegistry(delivery.ChatChannel),
		tasksReg:     delivery.NewRegistry(delivery.TasksChannel),
		timesheetReg: delivery.NewRegistry(delivery.TimesheetChannel),
		provider:     &testutil.MockPushProvider{},
	}

	relay := delivery.NewRelay(ctx, nil, d.chatReg, d.tasksReg, d.timesheetReg)
	dispatcher := delivery.NewPushDispatcher(d.provider, repository.NewDeviceTokenRepository())
	recorder := delivery.NewHistoryRecorder(repository.NewNotificationRepository())
	batcher := delivery.NewBatcher(ctx, dispatcher, recorder)
	d.orchestrator = delivery.NewOrchestrator(
		relay, batcher, dispatcher, recorder, repository.NewMemberRepository())
	return d
}

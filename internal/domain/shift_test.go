package domain

import (
	"testing"

	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/testutil"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newShiftDomain(deps *testDeps) *shiftDomain {
	return NewShiftDomain(
		repository.NewUserRepository(),
		repository.NewOrganizationRepository(),
		repository.NewMemberRepository(),
		deps.orchestrator,
	)
}

func TestShiftDomain_NotifyAssignmentsBatchesPushes(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	deps := newTestDeps(ctx)
	shiftDomain := newShiftDomain(deps)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminUser)
	resp, err := shiftDomain.NotifyAssignments(adminCtx, &model.NotifyShiftAssignmentsRequest{
		OrganizationID: testutil.CareHome1,
		Assignments: []model.ShiftAssignment{
			{ShiftID: "s1", UserID: testutil.User1, HomeID: "home1", Action: "assign"},
			{ShiftID: "s2", UserID: testutil.User1, HomeID: "home1", Action: "assign"},
			{ShiftID: "s3", UserID: testutil.User2, HomeID: "home1", Action: "assign"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Enqueued)

	deps.orchestrator.Flush(ctx)

	// user1 has one device and got exactly one coalesced push; user2 has no
	// device, so nothing else went out.
	require.Equal(t, []string{"ExponentPushToken[user1]"}, deps.provider.SentTokens())
	require.Equal(t, "2", deps.provider.Sent[0].Data["count"])

	// The scheduler who made the change is named on the batch.
	require.Equal(t, "Admin One", deps.provider.Sent[0].Data["senderName"])
}

func TestShiftDomain_AgencyAdminsRideAlong(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	deps := newTestDeps(ctx)
	shiftDomain := newShiftDomain(deps)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminUser)
	_, err := shiftDomain.NotifyAssignments(adminCtx, &model.NotifyShiftAssignmentsRequest{
		OrganizationID: testutil.Agency1,
		Assignments: []model.ShiftAssignment{
			{ShiftID: "s1", UserID: testutil.User1, HomeID: "home1", Action: "assign"},
		},
	})
	require.NoError(t, err)

	deps.orchestrator.Flush(ctx)

	require.ElementsMatch(t,
		[]string{"ExponentPushToken[user1]", "ExponentPushToken[admin1]"},
		deps.provider.SentTokens())
}

func TestShiftDomain_NotifyAssignmentsRequiresScheduler(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	deps := newTestDeps(ctx)
	shiftDomain := newShiftDomain(deps)

	carerCtx := xcontext.WithRequestUserID(ctx, testutil.User1)
	_, err := shiftDomain.NotifyAssignments(carerCtx, &model.NotifyShiftAssignmentsRequest{
		OrganizationID: testutil.CareHome1,
		Assignments: []model.ShiftAssignment{
			{ShiftID: "s1", UserID: testutil.User2, Action: "assign"},
		},
	})
	require.Error(t, err)
}

func TestShiftDomain_PublishTaskUpdateRequiresMembership(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	deps := newTestDeps(ctx)
	shiftDomain := newShiftDomain(deps)

	outsiderCtx := xcontext.WithRequestUserID(ctx, testutil.User2)
	_, err := shiftDomain.PublishTaskUpdate(outsiderCtx, &model.PublishTaskUpdateRequest{
		TaskUpdate: model.TaskUpdate{TaskID: "t1", OrgID: testutil.Agency1, Status: "completed"},
	})
	require.Error(t, err)

	memberCtx := xcontext.WithRequestUserID(ctx, testutil.User1)
	resp, err := shiftDomain.PublishTaskUpdate(memberCtx, &model.PublishTaskUpdateRequest{
		TaskUpdate: model.TaskUpdate{TaskID: "t1", OrgID: testutil.Agency1, Status: "completed"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Delivered)
}

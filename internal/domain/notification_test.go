package domain

import (
	"context"
	"testing"

	"github.com/carerota/backend/internal/domain/delivery"
	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/testutil"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func seedNotifications(ctx context.Context) {
	recorder := delivery.NewHistoryRecorder(repository.NewNotificationRepository())

	recorder.Record(ctx, &entity.Notification{
		OrganizationID:    testutil.CareHome1,
		Type:              entity.SystemNotification,
		Priority:          entity.NormalPriority,
		Title:             "Welcome",
		Content:           "Rota week published",
		RecipientEveryone: true,
		CreatedBy:         testutil.AdminUser,
	})
	recorder.Record(ctx, &entity.Notification{
		OrganizationID: testutil.CareHome1,
		Type:           entity.JoinRequestNotification,
		Priority:       entity.NormalPriority,
		Title:          "New join request",
		Content:        "Someone asked to join",
		RecipientRoles: entity.Array[string]{string(entity.RoleAdmin)},
		CreatedBy:      testutil.User2,
	})
}

func TestNotificationDomain_RoleScopedHistory(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	seedNotifications(ctx)

	notificationDomain := NewNotificationDomain(
		repository.NewNotificationRepository(), repository.NewMemberRepository())

	carerCtx := xcontext.WithRequestUserID(ctx, testutil.User1)
	carerResp, err := notificationDomain.Get(carerCtx, &model.GetNotificationsRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)
	require.Len(t, carerResp.Notifications, 1)
	require.Equal(t, "Welcome", carerResp.Notifications[0].Title)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminUser)
	adminResp, err := notificationDomain.Get(adminCtx, &model.GetNotificationsRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)
	require.Len(t, adminResp.Notifications, 2)
}

func TestNotificationDomain_ReadAndUnreadCount(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	seedNotifications(ctx)

	notificationDomain := NewNotificationDomain(
		repository.NewNotificationRepository(), repository.NewMemberRepository())

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminUser)
	count, err := notificationDomain.GetUnreadCount(adminCtx, &model.GetUnreadNotificationCountRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, count.Count)

	resp, err := notificationDomain.Get(adminCtx, &model.GetNotificationsRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)

	_, err = notificationDomain.Read(adminCtx, &model.ReadNotificationRequest{
		OrganizationID: testutil.CareHome1,
		NotificationID: resp.Notifications[0].ID,
	})
	require.NoError(t, err)

	count, err = notificationDomain.GetUnreadCount(adminCtx, &model.GetUnreadNotificationCountRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, count.Count)

	// Reading twice stays idempotent.
	_, err = notificationDomain.Read(adminCtx, &model.ReadNotificationRequest{
		OrganizationID: testutil.CareHome1,
		NotificationID: resp.Notifications[0].ID,
	})
	require.NoError(t, err)

	_, err = notificationDomain.ReadAll(adminCtx, &model.ReadAllNotificationsRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)

	count, err = notificationDomain.GetUnreadCount(adminCtx, &model.GetUnreadNotificationCountRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, count.Count)
}

func TestNotificationDomain_DeleteNeedsAdmin(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	seedNotifications(ctx)

	notificationDomain := NewNotificationDomain(
		repository.NewNotificationRepository(), repository.NewMemberRepository())

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminUser)
	resp, err := notificationDomain.Get(adminCtx, &model.GetNotificationsRequest{
		OrganizationID: testutil.CareHome1,
	})
	require.NoError(t, err)
	target := resp.Notifications[0].ID

	carerCtx := xcontext.WithRequestUserID(ctx, testutil.User1)
	_, err = notificationDomain.Delete(carerCtx, &model.DeleteNotificationRequest{
		OrganizationID: testutil.CareHome1,
		NotificationID: target,
	})
	require.Error(t, err)

	_, err = notificationDomain.Delete(adminCtx, &model.DeleteNotificationRequest{
		OrganizationID: testutil.CareHome1,
		NotificationID: target,
	})
	require.NoError(t, err)
}

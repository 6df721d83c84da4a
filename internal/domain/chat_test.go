package domain

import (
	"testing"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/testutil"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestChatDomain_SendMessage(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	deps := newTestDeps(ctx)
	chatDomain := NewChatDomain(
		repository.NewUserRepository(), repository.NewMemberRepository(), deps.orchestrator)

	senderCtx := xcontext.WithRequestUserID(ctx, testutil.User2)
	resp, err := chatDomain.SendMessage(senderCtx, &model.SendChatMessageRequest{
		OrganizationID: testutil.CareHome1,
		RecipientID:    testutil.User1,
		Content:        "handover at 8",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.ID)
	require.False(t, resp.Delivered)

	// The push goes out even without a socket.
	require.Equal(t, []string{"ExponentPushToken[user1]"}, deps.provider.SentTokens())

	// The recipient finds the message in their history.
	notifications, err := repository.NewNotificationRepository().List(ctx, repository.NotificationFilter{
		OrganizationID: testutil.CareHome1,
		UserID:         testutil.User1,
		Role:           entity.RoleCarer,
		Limit:          10,
	})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.ChatNotification, notifications[0].Type)
	require.Equal(t, "handover at 8", notifications[0].Content)
}

func TestChatDomain_SendMessageRequiresMembership(t *testing.T) {
	ctx := testutil.MockContextWithFixture()
	deps := newTestDeps(ctx)
	chatDomain := NewChatDomain(
		repository.NewUserRepository(), repository.NewMemberRepository(), deps.orchestrator)

	// user2 is not in the agency.
	senderCtx := xcontext.WithRequestUserID(ctx, testutil.User2)
	_, err := chatDomain.SendMessage(senderCtx, &model.SendChatMessageRequest{
		OrganizationID: testutil.Agency1,
		RecipientID:    testutil.User1,
		Content:        "hello",
	})
	require.Error(t, err)

	// admin1 cannot message someone outside the organization.
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminUser)
	_, err = chatDomain.SendMessage(adminCtx, &model.SendChatMessageRequest{
		OrganizationID: testutil.Agency1,
		RecipientID:    testutil.User2,
		Content:        "hello",
	})
	require.Error(t, err)
	require.Empty(t, deps.provider.SentTokens())
}

package repository_test

import (
	"testing"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestDeviceTokenRepository_UpsertReplacesToken(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewDeviceTokenRepository()

	require.NoError(t, repo.Upsert(ctx, &entity.DeviceToken{
		Base:             entity.Base{ID: "d1"},
		UserID:           "u1",
		DeviceIdentifier: "phone",
		DeviceType:       "ios",
		Token:            "token-old",
	}))

	// Same device logs in again with a fresh token.
	require.NoError(t, repo.Upsert(ctx, &entity.DeviceToken{
		Base:             entity.Base{ID: "d2"},
		UserID:           "u1",
		DeviceIdentifier: "phone",
		DeviceType:       "ios",
		Token:            "token-new",
	}))

	tokens, err := repo.TokensByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"token-new"}, tokens)
}

func TestDeviceTokenRepository_MultipleDevices(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewDeviceTokenRepository()

	require.NoError(t, repo.Upsert(ctx, &entity.DeviceToken{
		Base: entity.Base{ID: "d1"}, UserID: "u1", DeviceIdentifier: "phone", Token: "t-phone",
	}))
	require.NoError(t, repo.Upsert(ctx, &entity.DeviceToken{
		Base: entity.Base{ID: "d2"}, UserID: "u1", DeviceIdentifier: "tablet", Token: "t-tablet",
	}))

	tokens, err := repo.TokensByUserID(ctx, "u1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"t-phone", "t-tablet"}, tokens)
}

func TestDeviceTokenRepository_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewDeviceTokenRepository()

	require.NoError(t, repo.Upsert(ctx, &entity.DeviceToken{
		Base: entity.Base{ID: "d1"}, UserID: "u1", DeviceIdentifier: "phone", Token: "t1",
	}))

	require.NoError(t, repo.Delete(ctx, "u1", "phone"))

	tokens, err := repo.TokensByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, tokens)
}

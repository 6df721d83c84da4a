package middleware

import (
	"context"
	"strings"

	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/router"
	"github.com/carerota/backend/pkg/xcontext"
)

// Authenticate verifies the access token and stashes the caller's user id
// into the context. Routes behind it can rely on xcontext.RequestUserID being
// non-empty.
func Authenticate(ctx context.Context) (context.Context, error) {
	token := accessToken(ctx)
	if token == "" {
		return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	info, err := xcontext.TokenEngine(ctx).Verify(token)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify the access token: %v", err)
		return ctx, errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	return xcontext.WithRequestUserID(ctx, info.ID), nil
}

func accessToken(ctx context.Context) string {
	r := xcontext.HTTPRequest(ctx)
	if r == nil {
		return ""
	}

	authorization := r.Header.Get("Authorization")
	if auth, token, found := strings.Cut(authorization, " "); found {
		if auth == "Bearer" {
			return token
		}

		return ""
	}

	cookie, err := r.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}

var _ router.MiddlewareFunc = Authenticate

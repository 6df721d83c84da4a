package router

import (
	"context"
	"net/http"

	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores := append([]MiddlewareFunc{}, r.befores...)
	closers := append([]CloserFunc{}, r.closers...)

	return func(gctx *gin.Context) {
		ctx := xcontext.WithHTTPRequest(r.base, gctx.Request)
		ctx = xcontext.WithHTTPWriter(ctx, gctx.Writer)

		err := func() error {
			var req Request
			var bindErr error
			switch method {
			case http.MethodGet:
				bindErr = gctx.ShouldBindQuery(&req)
			case http.MethodPost:
				bindErr = gctx.ShouldBindJSON(&req)
			}
			if bindErr != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", bindErr)
				return errorx.New(errorx.BadRequest, "Cannot bind the request")
			}

			var mErr error
			for _, middleware := range befores {
				if ctx, mErr = middleware(ctx); mErr != nil {
					return mErr
				}
			}

			resp, hErr := handler(ctx, &req)
			if hErr != nil {
				return hErr
			}

			gctx.JSON(http.StatusOK, newResponse(resp))
			return nil
		}()

		if err != nil {
			gctx.JSON(http.StatusOK, NewErrorResponse(err))
		}

		for _, closer := range closers {
			closer(ctx, err)
		}
	}
}

func runBefores(ctx context.Context, befores []MiddlewareFunc) (context.Context, error) {
	var err error
	for _, middleware := range befores {
		if ctx, err = middleware(ctx); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}

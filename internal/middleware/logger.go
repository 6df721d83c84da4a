package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/router"
	"github.com/carerota/backend/pkg/xcontext"
)

// Logger is a closer that records every finished request with its errorx
// code.
func Logger() router.CloserFunc {
	return func(ctx context.Context, err error) {
		r := xcontext.HTTPRequest(ctx)
		if r == nil {
			return
		}

		info := fmt.Sprintf("%s | %s", r.Method, r.URL.Path)
		if err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %v", info, err)
			}
			return
		}

		xcontext.Logger(ctx).Infof(info)
	}
}

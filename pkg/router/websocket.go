package router

import (
	"context"
	"net/http"

	"github.com/carerota/backend/pkg/ws"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Socket identity is carried in the request, not in the origin.
		return true
	},
}

// Websocket registers a socket endpoint. The handler receives a context
// carrying the upgraded ws.Client and blocks for the lifetime of the
// connection; when it returns the connection is closed.
func Websocket[Request any](r *Router, pattern string, handler func(ctx context.Context, req *Request) error) {
	befores := append([]MiddlewareFunc{}, r.befores...)

	r.Inner.GET(pattern, func(gctx *gin.Context) {
		ctx := xcontext.WithHTTPRequest(r.base, gctx.Request)
		ctx = xcontext.WithHTTPWriter(ctx, gctx.Writer)

		var req Request
		if err := gctx.ShouldBindQuery(&req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the socket request: %v", err)
			gctx.JSON(http.StatusBadRequest, NewErrorResponse(err))
			return
		}

		ctx, err := runBefores(ctx, befores)
		if err != nil {
			gctx.JSON(http.StatusOK, NewErrorResponse(err))
			return
		}

		conn, err := upgrader.Upgrade(gctx.Writer, gctx.Request, nil)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot upgrade the connection: %v", err)
			return
		}

		client := ws.NewClient(conn)
		defer client.Close()

		ctx = xcontext.WithWSClient(ctx, client)
		if err := handler(ctx, &req); err != nil {
			xcontext.Logger(ctx).Warnf("Socket handler of %s exited: %v", pattern, err)
		}
	})
}

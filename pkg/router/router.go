package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc is the shape of every API handler: a bound request in, a
// response or an errorx error out.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may derive a new context, the
// handler sees the returned one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler with the error it produced, nil on
// success.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	Inner gin.IRouter

	base    context.Context
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a root router. The context carries the process dependencies
// (configs, logger, db, token engine) and becomes the base of every request
// context.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{Inner: gin.New(), base: ctx}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

// Before registers a middleware for every route registered after this call on
// this router or its branches.
func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Branch derives a router sharing the same gin engine and base context but
// with its own middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		Inner:   r.Inner,
		base:    r.base,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

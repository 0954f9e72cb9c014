package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. A non-nil returned context replaces
// the request context; an error aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine *gin.Engine
	inner  gin.IRouter

	// base carries the process-wide dependencies copied into every request
	// context.
	base func(ctx context.Context) context.Context

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(base func(ctx context.Context) context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{engine: engine, inner: engine, base: base}
}

// Branch returns a router sharing the same routes but with its own copy of
// middlewares and closers.
func (r *Router) Branch() *Router {
	return &Router{
		engine:  r.engine,
		inner:   r.inner,
		base:    r.base,
		befores: append([]MiddlewareFunc(nil), r.befores...),
		closers: append([]CloserFunc(nil), r.closers...),
	}
}

func (r *Router) Group(pattern string) *Router {
	b := r.Branch()
	b.inner = r.inner.Group(pattern)
	return b
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func (r *Router) Handle(method, pattern string, h http.Handler) {
	r.inner.Handle(method, pattern, gin.WrapH(h))
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrap(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrap(r, http.MethodPost, handler))
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.PUT(pattern, wrap(r, http.MethodPut, handler))
}

func PATCH[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.PATCH(pattern, wrap(r, http.MethodPatch, handler))
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.DELETE(pattern, wrap(r, http.MethodDelete, handler))
}

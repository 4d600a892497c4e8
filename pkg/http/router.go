package xhttp

import (
	"github.com/fasthttp/router"
)

type Router = router.Router
type Group = router.Group

// NewRouter returns a new Router
func NewRouter() *Router {
	return router.New()
}

// CreateDefaultRouter returns a router with fixed-path redirects and the
// package 404 handler for both unknown paths and unsupported methods.
func CreateDefaultRouter() *Router {
	r := NewRouter()
	r.RedirectFixedPath = true
	r.RedirectTrailingSlash = true
	r.SaveMatchedRoutePath = true
	r.NotFound = NotFoundHandler
	r.MethodNotAllowed = MethodNotAllowedHandler
	r.HandleOPTIONS = false
	r.HandleMethodNotAllowed = true
	return r
}

// NotFoundHandler is the default 404 handler
func NotFoundHandler(ctx *RequestCtx) {
	ctx.Error(StatusText(StatusNotFound), StatusNotFound)
}

func MethodNotAllowedHandler(ctx *RequestCtx) {
	ctx.Error(StatusText(StatusMethodNotAllowed), StatusMethodNotAllowed)
}

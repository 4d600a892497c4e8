package xhttp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func newCtx(method, path string) *RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	return ctx
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(ctx *RequestCtx) {
		ctx.SetBodyString("partial")
		panic("boom")
	})

	ctx := newCtx("GET", "/")
	assert.NotPanics(t, func() { h(ctx) })
	assert.Equal(t, StatusInternalServerError, ctx.Response.StatusCode())
	assert.NotContains(t, string(ctx.Response.Body()), "partial")
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(func(ctx *RequestCtx) {
		seen = string(ctx.Request.Header.Peek(HeaderRequestID))
	})

	t.Run("assigns an id", func(t *testing.T) {
		ctx := newCtx("GET", "/")
		h(ctx)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, string(ctx.Response.Header.Peek(HeaderRequestID)))
	})

	t.Run("keeps the caller id", func(t *testing.T) {
		ctx := newCtx("GET", "/")
		ctx.Request.Header.Set(HeaderRequestID, "req-1")
		h(ctx)
		assert.Equal(t, "req-1", seen)
		assert.Equal(t, "req-1", string(ctx.Response.Header.Peek(HeaderRequestID)))
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	h := SecurityHeadersMiddleware(func(ctx *RequestCtx) {})
	ctx := newCtx("GET", "/")
	h(ctx)
	assert.Equal(t, "nosniff", string(ctx.Response.Header.Peek("X-Content-Type-Options")))
	assert.Equal(t, "DENY", string(ctx.Response.Header.Peek("X-Frame-Options")))
}

func TestEngine_MiddlewareOrder(t *testing.T) {
	e := CreateServer()
	var order []string
	tag := func(name string) MiddlewareFunc {
		return func(next RequestHandler) RequestHandler {
			return func(ctx *RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}
	e.Use(tag("first"))
	e.Use(tag("second"))
	e.GET("/ping", func(ctx *RequestCtx) {
		order = append(order, "handler")
		ctx.SetStatusCode(StatusOK)
	})

	ctx := newCtx("GET", "/ping")
	e.Handler()(ctx)

	assert.Equal(t, []string{"first", "second", "handler"}, order)
	assert.Equal(t, StatusOK, ctx.Response.StatusCode())
}

func TestEngine_UnknownRoute(t *testing.T) {
	e := CreateServer()
	e.GET("/ping", func(ctx *RequestCtx) {})

	ctx := newCtx("GET", "/nope")
	e.Handler()(ctx)
	assert.Equal(t, StatusNotFound, ctx.Response.StatusCode())

	ctx = newCtx("DELETE", "/ping")
	e.Handler()(ctx)
	assert.Equal(t, StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestServerOption_Apply(t *testing.T) {
	opt := DefaultServerOption.Apply(Config{MaxRequestBodySize: 2048})
	assert.Equal(t, 2048, opt.MaxRequestBodySize)
	assert.Equal(t, DefaultServerOption.ReadTimeout, opt.ReadTimeout)
}

package helpers

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/allinone-seolbi/site/internal/repository"
	"github.com/allinone-seolbi/site/internal/webhook"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/pg"
	"github.com/allinone-seolbi/site/pkg/redis"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB opens an in-memory SQLite database with the contacts table.
// Reads and writes share one handle.
func SetupTestDB(t *testing.T) *pg.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), pg.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&repository.ContactEntity{}))
	return pg.Wrap(db, db)
}

// SetupTestRedis starts a miniredis and registers an adapter for it under a
// name unique to the test.
func SetupTestRedis(t *testing.T, prefix string) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)

	name := "test:" + t.Name()
	adapter, err := redis.NewRedisAdapter(name, prefix, redis.Config{Addr: mr.Addr()}.Options())
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close(name) })

	return mr, adapter
}

// WebhookSink records every payload posted to it.
type WebhookSink struct {
	mu       sync.Mutex
	status   int
	payloads []webhook.Payload
}

func (s *WebhookSink) handle(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var p webhook.Payload
	if err := json.Unmarshal(ctx.PostBody(), &p); err == nil {
		s.payloads = append(s.payloads, p)
	}
	ctx.SetStatusCode(s.status)
}

func (s *WebhookSink) SetStatus(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *WebhookSink) Payloads() []webhook.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]webhook.Payload, len(s.payloads))
	copy(out, s.payloads)
	return out
}

// StartWebhookSink serves a sink on an in-memory listener and returns a
// client config that dials it.
func StartWebhookSink(t *testing.T) (*WebhookSink, webhook.Config) {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	s := &WebhookSink{status: fasthttp.StatusNoContent}
	srv := &fasthttp.Server{Handler: s.handle}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return s, webhook.Config{
		URL:     "http://discord.test/api/webhooks/1/token",
		Timeout: time.Second,
		Dial:    func(string) (net.Conn, error) { return ln.Dial() },
	}
}

// NewRequestCtx returns a request context initialized the way fasthttp's
// server does it, so Done and Err work once a handler hands the context to
// the store.
func NewRequestCtx(method, path string) *xhttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

// Do runs one request through handler and returns the finished context.
func Do(handler xhttp.RequestHandler, method, path string, body []byte, headers map[string]string) *xhttp.RequestCtx {
	ctx := NewRequestCtx(method, path)
	if body != nil {
		ctx.Request.SetBody(body)
		ctx.Request.Header.SetContentType("application/json")
	}
	for k, v := range headers {
		ctx.Request.Header.Set(k, v)
	}
	handler(ctx)
	return ctx
}

// Get fetches a page through handler with the given cookies.
func Get(handler xhttp.RequestHandler, path string, cookies map[string]string) *xhttp.RequestCtx {
	ctx := NewRequestCtx(fasthttp.MethodGet, path)
	for k, v := range cookies {
		ctx.Request.Header.SetCookie(k, v)
	}
	handler(ctx)
	return ctx
}

// PostForm posts a url-encoded form through handler.
func PostForm(handler xhttp.RequestHandler, path string, form map[string]string, cookies map[string]string) *xhttp.RequestCtx {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	for k, v := range form {
		args.Set(k, v)
	}

	ctx := NewRequestCtx(fasthttp.MethodPost, path)
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	ctx.Request.SetBody(args.QueryString())
	for k, v := range cookies {
		ctx.Request.Header.SetCookie(k, v)
	}
	handler(ctx)
	return ctx
}

// Cookie returns the value of a cookie set on the response.
func Cookie(ctx *xhttp.RequestCtx, name string) string {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(name)
	if !ctx.Response.Header.Cookie(c) {
		return ""
	}
	return string(c.Value())
}

func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func HasSuffix(ctx *xhttp.RequestCtx, suffix string) bool {
	return strings.HasSuffix(string(ctx.Response.Header.Peek("Location")), suffix)
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

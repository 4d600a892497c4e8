package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/allinone-seolbi/site/internal/services"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestAuthHandler_Login(t *testing.T) {
	auth := newTestAuth(t)
	h := NewAuthHandler(auth)

	t.Run("correct secret", func(t *testing.T) {
		ctx := setupTestContext("POST", "/api/admin/auth", []byte(`{"password":"letmein"}`))
		h.Login(ctx)

		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
		var resp loginResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.True(t, resp.Success)
		assert.NoError(t, auth.ValidateToken(resp.Token))
		assert.False(t, resp.ExpiresAt.IsZero())
	})

	t.Run("wrong secret", func(t *testing.T) {
		ctx := setupTestContext("POST", "/api/admin/auth", []byte(`{"password":"wrong"}`))
		h.Login(ctx)

		assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())
		assert.Equal(t, services.CodeAuthDenied, decodeError(t, ctx).Code)
	})

	t.Run("garbled body", func(t *testing.T) {
		ctx := setupTestContext("POST", "/api/admin/auth", []byte(`password=letmein`))
		h.Login(ctx)

		assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())
	})
}

func TestAdminGate_Session(t *testing.T) {
	auth := newTestAuth(t)
	gate := NewAdminGate(auth, true)

	token, err := auth.Authenticate(context.Background(), testSecret)
	require.NoError(t, err)

	ctx := setupTestContext("POST", "/admin/login", nil)
	gate.StartSession(ctx, token)

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(SessionCookie)
	require.True(t, ctx.Response.Header.Cookie(c))
	assert.Equal(t, token.Token, string(c.Value()))
	assert.True(t, c.HTTPOnly())
	assert.True(t, c.Secure())
	assert.Equal(t, fasthttp.CookieSameSiteStrictMode, c.SameSite())
	assert.True(t, c.Expire().Equal(fasthttp.CookieExpireUnlimited), "session cookie")

	next := setupTestContext("GET", "/admin", nil)
	next.Request.Header.SetCookie(SessionCookie, string(c.Value()))
	assert.True(t, gate.Authorized(next))

	out := setupTestContext("POST", "/admin/logout", nil)
	gate.EndSession(out)
	c.Reset()
	c.SetKey(SessionCookie)
	require.True(t, out.Response.Header.Cookie(c))
	assert.Empty(t, c.Value())
	assert.True(t, c.Expire().Equal(fasthttp.CookieExpireDelete))
}

func TestAdminGate_RejectsMissingToken(t *testing.T) {
	gate := NewAdminGate(newTestAuth(t), false)
	called := false
	h := gate.Require(func(ctx *xhttp.RequestCtx) { called = true })

	ctx := setupTestContext("GET", "/api/admin/contacts", nil)
	h(ctx)

	assert.False(t, called)
	assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())
}

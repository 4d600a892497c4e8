package handlers

import (
	"bytes"
	"context"
	"time"

	"github.com/allinone-seolbi/site/internal/services"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/valyala/fasthttp"
)

const SessionCookie = "admin_session"

type AuthService interface {
	Authenticate(ctx context.Context, secret string) (*services.AdminToken, error)
	ValidateToken(token string) error
}

// AdminGate guards admin routes. A request passes with a live token either
// as a bearer token or in the session cookie set by the login page.
type AdminGate struct {
	auth         AuthService
	cookieSecure bool
}

func NewAdminGate(auth AuthService, cookieSecure bool) *AdminGate {
	return &AdminGate{auth: auth, cookieSecure: cookieSecure}
}

func (g *AdminGate) Require(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		if err := g.check(ctx); err != nil {
			writeError(ctx, err)
			return
		}
		next(ctx)
	}
}

func (g *AdminGate) Authorized(ctx *xhttp.RequestCtx) bool {
	return g.check(ctx) == nil
}

func (g *AdminGate) check(ctx *xhttp.RequestCtx) error {
	token := bearerToken(ctx)
	if token == "" {
		token = string(ctx.Request.Header.Cookie(SessionCookie))
	}
	return g.auth.ValidateToken(token)
}

// StartSession stores token in an HttpOnly cookie that lives as long as the
// browser session; the token's own expiry still applies.
func (g *AdminGate) StartSession(ctx *xhttp.RequestCtx, token *services.AdminToken) {
	c := g.cookie(token.Token)
	defer fasthttp.ReleaseCookie(c)
	ctx.Response.Header.SetCookie(c)
}

func (g *AdminGate) EndSession(ctx *xhttp.RequestCtx) {
	c := g.cookie("")
	defer fasthttp.ReleaseCookie(c)
	c.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(c)
}

func (g *AdminGate) cookie(value string) *fasthttp.Cookie {
	c := fasthttp.AcquireCookie()
	c.SetKey(SessionCookie)
	c.SetValue(value)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSecure(g.cookieSecure)
	c.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	return c
}

func bearerToken(ctx *xhttp.RequestCtx) string {
	h := ctx.Request.Header.Peek("Authorization")
	if v, ok := bytes.CutPrefix(h, []byte("Bearer ")); ok {
		return string(bytes.TrimSpace(v))
	}
	return ""
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func RegisterAuthRoutes(api *xhttp.Group, h *AuthHandler) {
	api.POST("/admin/auth", h.Login)
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		// a garbled body is still a failed login
		writeError(ctx, services.ErrAuthDenied)
		return
	}
	token, err := h.auth.Authenticate(ctx, req.Password)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, loginResponse{Success: true, Token: token.Token, ExpiresAt: token.ExpiresAt})
}

package handlers

import (
	"net/url"

	"github.com/a-h/templ"
	"github.com/allinone-seolbi/site/internal/services"
	"github.com/allinone-seolbi/site/internal/web"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/logger"
)

// PageHandler serves the server-rendered landing and admin pages. Admin
// actions are plain form posts answered with a redirect back to /admin.
type PageHandler struct {
	contacts ContactService
	auth     AuthService
	gate     *AdminGate
	renderer *web.Renderer
}

func NewPageHandler(contacts ContactService, auth AuthService, gate *AdminGate, renderer *web.Renderer) *PageHandler {
	return &PageHandler{
		contacts: contacts,
		auth:     auth,
		gate:     gate,
		renderer: renderer,
	}
}

func RegisterPageRoutes(r *xhttp.Router, h *PageHandler) {
	r.GET("/", h.Home)
	r.POST("/contact", h.SubmitContact)
	r.GET("/admin", h.Admin)
	r.POST("/admin/login", h.Login)
	r.POST("/admin/logout", h.Logout)
	r.POST("/admin/contacts/{id}/status", h.requireSession(h.UpdateStatus))
	r.POST("/admin/contacts/{id}/delete", h.requireSession(h.Delete))
	r.GET("/admin/contacts/export", h.requireSession(h.Export))
}

func (h *PageHandler) Home(ctx *xhttp.RequestCtx) {
	h.render(ctx, xhttp.StatusOK, h.renderer.Home(web.NewContactForm()))
}

func (h *PageHandler) SubmitContact(ctx *xhttp.RequestCtx) {
	form := web.NewContactForm()
	form.Edit(
		string(ctx.PostArgs().Peek("name")),
		string(ctx.PostArgs().Peek("phone")),
		string(ctx.PostArgs().Peek("message")),
	)

	status := xhttp.StatusOK
	if form.Submit() {
		_, err := h.contacts.Create(ctx, form.Request())
		form.Resolve(err)
		if err != nil {
			status = statusFor(err)
		}
	} else {
		status = xhttp.StatusBadRequest
	}
	h.render(ctx, status, h.renderer.Home(form))
}

func (h *PageHandler) Admin(ctx *xhttp.RequestCtx) {
	view := web.NewAdminView()
	if !h.gate.Authorized(ctx) {
		h.render(ctx, xhttp.StatusOK, h.renderer.Admin(view))
		return
	}
	h.renderTable(ctx, view, string(ctx.QueryArgs().Peek("error")))
}

func (h *PageHandler) Login(ctx *xhttp.RequestCtx) {
	token, err := h.auth.Authenticate(ctx, string(ctx.PostArgs().Peek("password")))
	if err != nil {
		view := web.NewAdminView()
		view.LoginFailed(err)
		h.render(ctx, statusFor(err), h.renderer.Admin(view))
		return
	}
	h.gate.StartSession(ctx, token)
	ctx.Redirect("/admin", xhttp.StatusSeeOther)
}

func (h *PageHandler) Logout(ctx *xhttp.RequestCtx) {
	h.gate.EndSession(ctx)
	ctx.Redirect("/admin", xhttp.StatusSeeOther)
}

func (h *PageHandler) UpdateStatus(ctx *xhttp.RequestCtx) {
	_, err := h.contacts.UpdateStatus(ctx, pathParam(ctx, "id"), string(ctx.PostArgs().Peek("status")))
	h.backToAdmin(ctx, err)
}

func (h *PageHandler) Delete(ctx *xhttp.RequestCtx) {
	h.backToAdmin(ctx, h.contacts.Delete(ctx, pathParam(ctx, "id")))
}

func (h *PageHandler) Export(ctx *xhttp.RequestCtx) {
	writeExport(ctx, h.contacts, h.backToAdmin)
}

func (h *PageHandler) renderTable(ctx *xhttp.RequestCtx, view *web.AdminView, code string) {
	contacts, err := h.contacts.List(ctx)
	if err != nil {
		logger.Error("failed to list contacts for admin page", "error", err)
		contacts = nil
		code = services.ErrorCode(err)
	}
	view.Show(contacts)
	view.Flash = web.FlashFor(code)
	h.render(ctx, xhttp.StatusOK, h.renderer.Admin(view))
}

// backToAdmin redirects to the table, carrying the error code of a failed
// action so the next render can show it.
func (h *PageHandler) backToAdmin(ctx *xhttp.RequestCtx, err error) {
	target := "/admin"
	if err != nil {
		code := services.ErrorCode(err)
		if code == services.CodeServerError {
			logger.Error("admin action failed", "path", string(ctx.Path()), "error", err)
		}
		target += "?error=" + url.QueryEscape(code)
	}
	ctx.Redirect(target, xhttp.StatusSeeOther)
}

// requireSession sends visitors without a live session to the login form.
func (h *PageHandler) requireSession(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		if !h.gate.Authorized(ctx) {
			ctx.Redirect("/admin", xhttp.StatusSeeOther)
			return
		}
		next(ctx)
	}
}

func (h *PageHandler) render(ctx *xhttp.RequestCtx, status int, c templ.Component) {
	ctx.Response.Header.Set("Content-Type", "text/html; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	if err := c.Render(ctx, ctx); err != nil {
		logger.Error("failed to render page", "path", string(ctx.Path()), "error", err)
		ctx.ResetBody()
		ctx.Error(xhttp.StatusText(xhttp.StatusInternalServerError), xhttp.StatusInternalServerError)
	}
}

func statusFor(err error) int {
	return codeStatus[services.ErrorCode(err)]
}

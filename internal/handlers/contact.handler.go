package handlers

import (
	"context"
	"fmt"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/services"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ContactService interface {
	Create(ctx context.Context, req model.ContactCreateRequest) (*model.Contact, error)
	List(ctx context.Context) ([]*model.Contact, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) (string, []byte, error)
	Stats(ctx context.Context) (*services.ContactStats, error)
}

type ContactHandler struct {
	svc ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func RegisterContactRoutes(api *xhttp.Group, h *ContactHandler, gate *AdminGate) {
	api.POST("/contact", h.CreateContact)
	api.GET("/admin/contacts", gate.Require(h.ListContacts))
	api.GET("/admin/contacts/export", gate.Require(h.ExportContacts))
	api.GET("/admin/contacts/stats", gate.Require(h.ContactStats))
	api.PATCH("/admin/contacts/{id}", gate.Require(h.UpdateContactStatus))
	api.DELETE("/admin/contacts/{id}", gate.Require(h.DeleteContact))
}

type contactResponse struct {
	Success bool           `json:"success"`
	Contact *model.Contact `json:"contact,omitempty"`
}

type listContactsResponse struct {
	Contacts []*model.Contact `json:"contacts"`
}

type statsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ContactHandler) CreateContact(ctx *xhttp.RequestCtx) {
	var req model.ContactCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	contact, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, contactResponse{Success: true, Contact: contact})
}

func (h *ContactHandler) ListContacts(ctx *xhttp.RequestCtx) {
	contacts, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listContactsResponse{Contacts: contacts})
}

func (h *ContactHandler) UpdateContactStatus(ctx *xhttp.RequestCtx) {
	var req updateStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}
	contact, err := h.svc.UpdateStatus(ctx, pathParam(ctx, "id"), req.Status)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, contactResponse{Success: true, Contact: contact})
}

func (h *ContactHandler) DeleteContact(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, pathParam(ctx, "id")); err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, contactResponse{Success: true})
}

// ContactStats reports how many contacts sit in each status. Every status is
// present, zero or not.
func (h *ContactHandler) ContactStats(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp := statsResponse{Total: stats.Total, ByStatus: make(map[string]int64, len(model.ContactStatuses()))}
	for _, st := range model.ContactStatuses() {
		resp.ByStatus[st.String()] = stats.ByStatus[st]
	}
	writeJSON(ctx, xhttp.StatusOK, resp)
}

func (h *ContactHandler) ExportContacts(ctx *xhttp.RequestCtx) {
	writeExport(ctx, h.svc, writeError)
}

func writeExport(ctx *xhttp.RequestCtx, svc ContactService, onError func(*xhttp.RequestCtx, error)) {
	filename, data, err := svc.Export(ctx)
	if err != nil {
		onError(ctx, err)
		return
	}
	ctx.Response.Header.Set("Content-Type", xlsxContentType)
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Response.Header.Set("Cache-Control", "no-store")
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	ctx.Response.SetBodyRaw(data)
}

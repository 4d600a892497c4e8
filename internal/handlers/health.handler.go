package handlers

import (
	"context"

	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/logger"
)

type HealthService interface {
	Check(ctx context.Context) error
}

type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(e *xhttp.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(svc HealthService) *HealthHandler {
	return &HealthHandler{
		svc: svc,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.svc.Check(ctx); err != nil {
		logger.Warn("health check failed", "error", err)
		ctx.Error(xhttp.StatusText(xhttp.StatusServiceUnavailable), xhttp.StatusServiceUnavailable)
		return
	}
	ctx.Response.SetBodyString("success")
}

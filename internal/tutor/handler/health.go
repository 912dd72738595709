package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/tutor-x/internal/pkg/httputils"
	"github.com/kart-io/tutor-x/internal/tutor/biz"
	"github.com/kart-io/tutor-x/pkg/infra/app"
	"github.com/kart-io/tutor-x/pkg/utils/errors"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	service biz.Service
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service biz.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health reports that the process is up.
//
//	@Summary	存活检查
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	response.Response
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	httputils.WriteResponse(c, nil, gin.H{
		"status":  "ok",
		"version": app.GetVersion(),
	})
}

// Ready reports whether the store is reachable.
//
//	@Summary	就绪检查
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	response.Response
//	@Failure	503	{object}	response.Response
//	@Router		/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		httputils.WriteResponse(c, errors.ErrServiceUnavailable.WithCause(err), nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"status": "ready"})
}

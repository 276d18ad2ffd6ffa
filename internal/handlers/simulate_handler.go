package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/mock-error-api/internal/services"
	"github.com/nimeshabuddhika/mock-error-api/internal/views"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
	"github.com/nimeshabuddhika/mock-error-api/pkg/utils"
	"go.uber.org/zap"
)

type SimulateHandler struct {
	logger  *zap.Logger
	catalog services.Catalog
}

func NewSimulateHandler(logger *zap.Logger, catalog services.Catalog) *SimulateHandler {
	return &SimulateHandler{logger: logger, catalog: catalog}
}

// RegisterRoutes registers the simulation routes on the provided group. The
// GET binding exists for browser/curl use; both methods share one dispatch.
func (h *SimulateHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/simulate", h.Simulate)
	r.GET("/simulate", h.Simulate)
}

// Simulate godoc
// @Summary Run a simulated failure
// @Description Resolves the named catalog operation to its deterministic simulated outcome.
// @Tags simulate
// @Accept json
// @Produce json
// @Param request body views.SimulateRequest true "operation to simulate"
// @Success 200 {object} pkg.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Failure 500 {object} pkg.ErrorResponse
// @Router /simulate [post]
func (h *SimulateHandler) Simulate(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pkg.ErrorResponse{
			Code:    pkg.ErrServerCode.Code,
			Message: err.Error(),
		})
		return
	}

	req, err := h.bind(c)
	if err != nil {
		resp := pkg.ErrorResponse{
			Status:  pkg.ErrBadUserInputCode.Status,
			Code:    pkg.ErrBadUserInputCode.Code,
			Message: "invalid simulation request",
		}
		if pkg.ExposeErrorDetails {
			resp.Details = err.Error()
		}
		c.JSON(resp.Status, resp)
		return
	}

	out, err := h.catalog.Resolve(c.Request.Context(), traceID, req)
	if err != nil {
		// Cancelled mid-delay; the client already observed its own cancellation.
		h.logger.Warn("request abandoned", zap.String(pkg.TraceId, traceID), zap.Error(err))
		c.Abort()
		return
	}

	if out.Thrown {
		// Delivered through the recovery middleware, like a fault escaping a
		// real handler. pkg.AppError values keep the standard envelope there;
		// anything else surfaces as a shapeless fault.
		panic(out.Err)
	}

	switch out.Kind {
	case services.KindMalformedSuccess:
		c.JSON(http.StatusOK, pkg.APIResponse{TraceID: traceID, Data: out.Payload})
	default:
		resp := pkg.ToErrorResponse(h.logger, traceID, out.Err)
		c.JSON(resp.Status, resp)
	}
}

func (h *SimulateHandler) bind(c *gin.Context) (views.SimulateRequest, error) {
	var req views.SimulateRequest
	if c.Request.Method == http.MethodGet {
		return req, c.ShouldBindQuery(&req)
	}
	return req, c.ShouldBindJSON(&req)
}

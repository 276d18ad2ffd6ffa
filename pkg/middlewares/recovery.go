package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
	"github.com/nimeshabuddhika/mock-error-api/pkg/utils"
	"go.uber.org/zap"
)

// Recovery returns Gin middleware that converts panics into HTTP responses.
// A thrown pkg.AppError still gets the standard error envelope; any other
// value is serialized as a bare fault with no machine-readable code, which is
// what a client sees when a backend leaks an unhandled failure.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		traceID, _ := utils.GetTraceID(c)

		switch fault := recovered.(type) {
		case pkg.AppError:
			resp := pkg.ToErrorResponse(logger, traceID, fault)
			c.AbortWithStatusJSON(resp.Status, resp)
		case error:
			logger.Error("unhandled fault", zap.String(pkg.TraceId, traceID), zap.Error(fault))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fault.Error()})
		default:
			logger.Error("unhandled fault", zap.String(pkg.TraceId, traceID), zap.Any("fault", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint(recovered)})
		}
	})
}

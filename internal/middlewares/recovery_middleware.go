package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plantlens/internal/responses"
)

// Recovery turns a panicking handler into a 500 with the usual error body.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Logger(c, log).Error("handler panicked",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered))
		responses.Abort(c, http.StatusInternalServerError, "An unexpected error occurred")
	})
}

package api

import (
	"net/http"
	"time"

	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requestLogger logs every request except health checks and metric scrapes
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		if path == "/api/health" || path == "/metrics" {
			return
		}

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		}

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			log.Error("[API]: request error", append(fields, zap.String("errors", c.Errors.String()))...)
		case status >= http.StatusInternalServerError:
			log.Error("[API]: server error", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("[API]: client error", fields...)
		default:
			log.Info("[API]: request completed", fields...)
		}
	}
}

// recovery turns panics into the error envelope
func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("[API]: panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(sdk.NewErrorResponse(http.StatusInternalServerError, sdk.MessageGenerationError).AsGinResponse())
	})
}

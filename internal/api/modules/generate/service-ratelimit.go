package generate

import (
	"net/http"
	"strconv"

	"github.com/ethanbaker/tubescript/internal/stores/ratelimit"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitHandler rejects callers over their per-window quota with 429
func RateLimitHandler(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("[RATELIMIT]: limiter error", zap.String("limiter", limiter.Name()), zap.Error(err))
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			log.Info("[RATELIMIT]: caller throttled", zap.String("caller", key))
			c.JSON(sdk.NewErrorResponse(http.StatusTooManyRequests, sdk.MessageRateLimited).AsGinResponse())
			c.Abort()
			return
		}

		c.Next()
	}
}

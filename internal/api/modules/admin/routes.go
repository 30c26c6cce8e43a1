package admin

import (
	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFunc reports the current backend state
type StatusFunc func() sdk.StatusResponse

// Register routes for the admin module. Nothing is registered without an API key.
func RegisterRoutes(g *gin.RouterGroup, apiKey string, log *zap.Logger, status StatusFunc) {
	if apiKey == "" {
		log.Info("[ADMIN]: API_KEY not set, admin routes disabled")
		return
	}

	group := g.Group("/admin")
	group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(makeApiKeyValidator(apiKey)))

	group.GET("/status", getStatus(status)) // Provider, limiter and session counts
}

// makeApiKeyValidator checks the X-API-KEY header against the configured key
func makeApiKeyValidator(apiKey string) func(key string) bool {
	return func(key string) bool {
		return apiKey == key
	}
}

package generate

import (
	"github.com/ethanbaker/tubescript/internal/api/modules/auth"
	"github.com/ethanbaker/tubescript/internal/stores/ratelimit"
	"github.com/ethanbaker/tubescript/internal/stores/session"
	"github.com/ethanbaker/tubescript/pkg/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the server objects the generate module uses
type Dependencies struct {
	Sessions *session.Store
	Limiter  ratelimit.Limiter
	Gateway  *gateway.Gateway
	Logger   *zap.Logger
}

// Register routes for the generate module
func RegisterRoutes(g *gin.RouterGroup, deps Dependencies) {
	ctrl := &controller{gateway: deps.Gateway, log: deps.Logger}

	// Authentication runs before the limiter so unknown callers never use quota
	g.POST("/generate",
		auth.AuthenticationHandler(deps.Sessions),
		RateLimitHandler(deps.Limiter, deps.Logger),
		ctrl.Generate,
	)
}

package auth

import (
	"github.com/ethanbaker/tubescript/internal/stores/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register routes for the auth module
func RegisterRoutes(g *gin.RouterGroup, sessions *session.Store, log *zap.Logger) {
	ctrl := &controller{sessions: sessions, log: log}

	group := g.Group("/auth")
	group.POST("/login", ctrl.Login)                                     // Exchange an email for a token
	group.POST("/logout", AuthenticationHandler(sessions), ctrl.Logout) // Forget the caller's token
}

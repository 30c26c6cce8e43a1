package health

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the liveness routes used by load balancers and the CLI
func RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/health", getStatus)
	g.HEAD("/health", getStatus)
}

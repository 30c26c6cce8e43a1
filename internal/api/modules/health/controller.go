package health

import (
	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/gin-gonic/gin"
)

// getStatus answers liveness probes
func getStatus(c *gin.Context) {
	res := api_types.NewSuccessResponse("TubeScript backend is running", nil)
	c.JSON(res.AsGinResponse())
}

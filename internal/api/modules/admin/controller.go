package admin

import (
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/gin-gonic/gin"
)

func getStatus(status StatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(sdk.NewSuccessResponse(status()).AsGinResponse())
	}
}

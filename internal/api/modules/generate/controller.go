package generate

import (
	"net/http"
	"strings"

	"github.com/ethanbaker/tubescript/internal/api/modules/auth"
	"github.com/ethanbaker/tubescript/pkg/gateway"
	"github.com/ethanbaker/tubescript/pkg/llm"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type controller struct {
	gateway *gateway.Gateway
	log     *zap.Logger
}

// Generate handles POST requests that run one model call through the gateway
func (ctrl *controller) Generate(c *gin.Context) {
	var req sdk.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, sdk.MessageMissingPrompt).AsGinResponse())
		return
	}

	s := auth.MustSession(c)

	resp := ctrl.gateway.Generate(c.Request.Context(), llm.Request{
		Prompt:            req.Prompt,
		SystemInstruction: req.Config.SystemInstruction,
		ResponseMimeType:  req.Config.ResponseMimeType,
		ResponseSchema:    req.Config.ResponseSchema,
		Temperature:       req.Config.Temperature,
	})

	if !resp.Success {
		// Upstream details stay in the logs
		ctrl.log.Error("[GENERATE]: generation failed",
			zap.String("email", s.Email),
			zap.String("type", req.Type),
			zap.String("error", resp.Error),
		)
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, sdk.MessageGenerationError).AsGinResponse())
		return
	}

	ctrl.log.Debug("[GENERATE]: generation succeeded", zap.String("email", s.Email), zap.String("type", req.Type))
	c.JSON(resp.AsGinResponse())
}

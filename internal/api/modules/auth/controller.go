package auth

import (
	"net/http"

	"github.com/ethanbaker/tubescript/internal/stores/session"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type controller struct {
	sessions *session.Store
	log      *zap.Logger
}

// Login handles POST requests that open a session
func (ctrl *controller) Login(c *gin.Context) {
	var req sdk.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, sdk.MessageInvalidEmail).AsGinResponse())
		return
	}

	s, err := ctrl.sessions.Login(req.Email)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(sdk.StatusForKind(err), sdk.Message(err)).AsGinResponse())
		return
	}

	ctrl.log.Info("[AUTH]: session opened", zap.String("email", s.Email))
	c.JSON(sdk.NewTokenResponse(s.Token).AsGinResponse())
}

// Logout handles POST requests that close the caller's session
func (ctrl *controller) Logout(c *gin.Context) {
	s := MustSession(c)
	ctrl.sessions.Forget(s.Token)

	ctrl.log.Info("[AUTH]: session closed", zap.String("email", s.Email))
	c.JSON(sdk.NewSuccessResponse[any](nil).AsGinResponse())
}

package auth

import (
	"strings"

	"github.com/ethanbaker/tubescript/internal/stores/session"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/gin-gonic/gin"
)

const sessionKey = "tubescript.session"

// AuthenticationHandler requires a known bearer token.
// No token answers 401, an unknown token 403.
func AuthenticationHandler(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Authenticate(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			c.JSON(sdk.NewErrorResponse(sdk.StatusForKind(err), sdk.Message(err)).AsGinResponse())
			c.Abort()
			return
		}

		c.Set(sessionKey, s)
		c.Next()
	}
}

// MustSession returns the session stored by AuthenticationHandler
func MustSession(c *gin.Context) session.Session {
	return c.MustGet(sessionKey).(session.Session)
}

// bearerToken extracts the token after the scheme of an Authorization header value.
// Any scheme is accepted so that a present but unknown credential resolves as forbidden.
func bearerToken(header string) string {
	_, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

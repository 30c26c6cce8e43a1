package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ethanbaker/tubescript/pkg/llm"
)

// IsTransient reports whether a failed model call may succeed if repeated.
// Only timeouts and upstream 503s qualify; auth, quota and bad requests do not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "503")
}

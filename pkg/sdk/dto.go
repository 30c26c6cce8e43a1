package sdk

import (
	"encoding/json"
	"net/http"
)

// ApiResponse is the JSON envelope every endpoint answers with
type ApiResponse[T any] struct {
	Code    int    `json:"-"`               // HTTP status code, not serialized
	Success bool   `json:"success"`         // Whether the call succeeded
	Data    T      `json:"data,omitempty"`  // Payload for successful responses
	Token   string `json:"token,omitempty"` // Session token, only set by login
	Error   string `json:"error,omitempty"` // Flat user-facing message for failures
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a JSON string
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccessResponse[T any](data T) ApiResponse[T] {
	return ApiResponse[T]{
		Code:    http.StatusOK,
		Success: true,
		Data:    data,
	}
}

func NewTokenResponse(token string) ApiResponse[any] {
	return ApiResponse[any]{
		Code:    http.StatusOK,
		Success: true,
		Token:   token,
	}
}

func NewErrorResponse(code int, message string) ApiResponse[any] {
	return ApiResponse[any]{
		Code:    code,
		Success: false,
		Error:   message,
	}
}

/** Auth Module DTOs */

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email string `json:"email"`
}

/** Generate Module DTOs */

// GenerationConfig carries the per-call model settings chosen by the client
type GenerationConfig struct {
	SystemInstruction string          `json:"systemInstruction,omitempty"` // Template-specific instruction
	ResponseMimeType  string          `json:"responseMimeType,omitempty"`  // Usually application/json
	ResponseSchema    json.RawMessage `json:"responseSchema,omitempty"`    // Structured-output schema hint
	Temperature       *float64        `json:"temperature,omitempty"`       // Optional sampling temperature
}

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Prompt string           `json:"prompt"`
	Config GenerationConfig `json:"config"`
	Type   string           `json:"type,omitempty"` // "script" or "seo", informational
}

// Generation types sent in GenerateRequest.Type
const (
	TypeScript = "script"
	TypeSeo    = "seo"
)

/** Admin Module DTOs */

// StatusResponse describes the running backend
type StatusResponse struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Limiter       string `json:"limiter"`
	Sessions      int    `json:"sessions"`
	RateLimit     int    `json:"rate_limit"`
	RateWindow    string `json:"rate_window"`
	MaxAttempts   int    `json:"max_attempts"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

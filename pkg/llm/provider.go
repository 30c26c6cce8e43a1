package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethanbaker/tubescript/pkg/utils"
)

var (
	ErrUnknownProvider = errors.New("unknown model provider")
	ErrMissingAPIKey   = errors.New("missing model API key")
	ErrEmptyResponse   = errors.New("model returned no text")
)

// Request is one completion call against a model
type Request struct {
	Prompt            string
	SystemInstruction string
	ResponseMimeType  string          // "application/json" asks for JSON output
	ResponseSchema    json.RawMessage // Optional structured-output schema
	Temperature       *float64
}

// Response is the text produced by a model
type Response struct {
	Text         string
	Model        string
	FinishReason string
	PromptTokens int
	OutputTokens int
}

// Provider is a text-completion backend
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// APIError is a non-2xx answer from a model endpoint
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// WantsJSON reports whether the request asked for a JSON payload
func (r Request) WantsJSON() bool {
	return strings.EqualFold(r.ResponseMimeType, "application/json")
}

// NewFromConfig builds the provider named by LLM_PROVIDER
func NewFromConfig(cfg *utils.Config) (Provider, error) {
	httpClient := &http.Client{Timeout: cfg.GetDurationWithDefault("LLM_TIMEOUT", DefaultTimeout)}

	switch name := strings.ToLower(cfg.GetWithDefault("LLM_PROVIDER", ProviderGoogle)); name {
	case ProviderGoogle, "gemini":
		return NewGoogle(GoogleConfig{
			APIKey:     cfg.Get("GEMINI_API_KEY"),
			Model:      cfg.GetWithDefault("GEMINI_MODEL", DefaultGoogleModel),
			BaseURL:    cfg.GetWithDefault("GEMINI_BASE_URL", DefaultGoogleBaseURL),
			HTTPClient: httpClient,
		})
	case ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:     cfg.Get("OPENAI_API_KEY"),
			Model:      cfg.GetWithDefault("OPENAI_MODEL", DefaultOpenAIModel),
			BaseURL:    cfg.Get("OPENAI_BASE_URL"),
			HTTPClient: httpClient,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
}

package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout outlasts the backend's default retry budget (3 attempts of 90s)
const DefaultTimeout = 5 * time.Minute

// Client wraps calls to the TubeScript backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithTimeout bounds each backend call. It should exceed the backend's retry budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithApiKey sets the key sent to admin routes
func WithApiKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient creates a client for the backend rooted at baseURL (e.g. http://localhost:8080/api)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateEmail applies the login email rule shared by client and backend
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return NewError(ErrInvalidInput, MessageInvalidEmail, nil)
	}
	return nil
}

// Login exchanges an email for a session token
func (c *Client) Login(ctx context.Context, email string) (string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", err
	}

	var out ApiResponse[any]
	if err := c.newRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email}, &out).do(); err != nil {
		return "", err
	}

	if out.Token == "" {
		return "", NewError(ErrMalformedResponse, "no token returned", nil)
	}
	return out.Token, nil
}

// Logout forgets the session on the backend
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.newRequest(ctx, http.MethodPost, "/auth/logout", nil, nil).withBearer(token).do()
}

// Generate sends one generation call and returns the raw model text
func (c *Client) Generate(ctx context.Context, token string, req GenerateRequest) (string, error) {
	var out ApiResponse[string]
	if err := c.newRequest(ctx, http.MethodPost, "/generate", req, &out).withBearer(token).do(); err != nil {
		return "", err
	}

	if !out.Success {
		return "", NewError(ErrGenerationFailed, out.Error, nil)
	}
	return out.Data, nil
}

// Status reads the admin status route
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out ApiResponse[StatusResponse]
	if err := c.newRequest(ctx, http.MethodGet, "/admin/status", nil, &out).withApiKey(c.apiKey).do(); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// request is a single pending backend call
type request struct {
	client  *Client
	ctx     context.Context
	method  string
	path    string
	in      any
	out     any
	headers map[string]string
}

func (c *Client) newRequest(ctx context.Context, method, path string, in, out any) *request {
	return &request{
		client:  c,
		ctx:     ctx,
		method:  method,
		path:    path,
		in:      in,
		out:     out,
		headers: map[string]string{},
	}
}

func (r *request) withBearer(token string) *request {
	if token != "" {
		r.headers["Authorization"] = "Bearer " + token
	}
	return r
}

func (r *request) withApiKey(key string) *request {
	if key != "" {
		r.headers["X-API-KEY"] = key
	}
	return r
}

// transportError classifies failures that never produced an HTTP answer
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewError(ErrTransient, MessageTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return NewError(ErrGenerationFailed, MessageUnreachable, err)
}

// do performs the JSON request and classifies non-2xx answers
func (r *request) do() error {
	var body io.Reader
	if r.in != nil {
		b, err := json.Marshal(r.in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(r.ctx, r.method, r.client.baseURL+r.path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)

		// The backend answers failures with the envelope; fall back to the raw body
		message := strings.TrimSpace(string(b))
		var envelope ApiResponse[any]
		if json.Unmarshal(b, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
		}

		cause := fmt.Errorf("[BACKEND]: backend '%s %s' failed: %d", r.method, r.path, resp.StatusCode)
		return NewError(KindForStatus(resp.StatusCode), message, cause)
	}

	if r.out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(r.out)
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethanbaker/tubescript/pkg/history"
	"github.com/ethanbaker/tubescript/pkg/localstore"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenKey is the localstore key holding the session token
const TokenKey = "tubescript.token"

const mimeJSON = "application/json"

// ErrBusy is returned when a submission is already in flight
var ErrBusy = errors.New("a generation is already in progress")

// Backend is the subset of sdk.Client the orchestrator drives
type Backend interface {
	Login(ctx context.Context, email string) (string, error)
	Logout(ctx context.Context, token string) error
	Generate(ctx context.Context, token string, req sdk.GenerateRequest) (string, error)
}

// Result is the outcome of a completed submission
type Result struct {
	Script script.GeneratedScript
	Seo    script.SeoData
	SeoErr error              // Set when SEO degraded to defaults
	Item   script.HistoryItem // Zero when no history cache is attached
}

// Orchestrator runs one submission at a time: the script call, then the SEO call
type Orchestrator struct {
	backend      Backend
	store        localstore.Store
	history      *history.Cache
	instructions script.Instructions
	observer     func(State)
	log          *zap.Logger

	mutex sync.Mutex
	state State
	busy  bool
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithHistory records every completed submission into cache
func WithHistory(cache *history.Cache) Option {
	return func(o *Orchestrator) {
		o.history = cache
	}
}

// WithInstructions replaces the default system instructions
func WithInstructions(i script.Instructions) Option {
	return func(o *Orchestrator) {
		if i != nil {
			o.instructions = i
		}
	}
}

// WithStateObserver is called on every state transition
func WithStateObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// New creates an orchestrator talking to backend and keeping its token in store
func New(backend Backend, store localstore.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:      backend,
		store:        store,
		instructions: script.DefaultInstructions(),
		log:          zap.NewNop(),
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the state of the current or last submission
func (o *Orchestrator) State() State {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return o.state
}

// LoggedIn reports whether a session token is stored
func (o *Orchestrator) LoggedIn() bool {
	token, err := o.token()
	return err == nil && token != ""
}

// Login exchanges email for a token and stores it
func (o *Orchestrator) Login(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := sdk.ValidateEmail(email); err != nil {
		return err
	}

	token, err := o.backend.Login(ctx, email)
	if err != nil {
		return err
	}

	if err := o.store.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	o.log.Info("[ORCHESTRATOR]: logged in", zap.String("email", email))
	return nil
}

// Logout forgets the session locally and on the backend. The local token is cleared even
// if the backend call fails.
func (o *Orchestrator) Logout(ctx context.Context) error {
	token, err := o.token()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	if err := o.backend.Logout(ctx, token); err != nil {
		o.log.Warn("[ORCHESTRATOR]: backend logout failed", zap.Error(err))
	}
	return o.clearToken()
}

// Submit runs a full submission for req
func (o *Orchestrator) Submit(ctx context.Context, req script.GenerationRequest) (*Result, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.end()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, err := o.token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, sdk.NewError(sdk.ErrUnauthorized, "Please log in first", nil)
	}

	// Script
	o.transition(StateSubmittingScript)

	generated, err := o.generateScript(ctx, token, req)
	if err != nil {
		o.handleAuthFailure(err)
		o.transition(StateFailed)
		o.log.Warn("[ORCHESTRATOR]: script generation failed", zap.Error(err))
		return nil, err
	}

	// SEO
	o.transition(StateSubmittingSeo)

	seo, seoErr := o.generateSeo(ctx, token, req, generated)
	if seoErr != nil {
		o.handleAuthFailure(seoErr)
		o.log.Warn("[ORCHESTRATOR]: seo generation failed, using defaults", zap.Error(seoErr))
		seo = script.DefaultSeo()
	}

	result := &Result{Script: generated, Seo: seo, SeoErr: seoErr}

	if o.history != nil {
		item, err := o.history.Record(generated, seo, req.Topic)
		if err != nil {
			o.log.Warn("[ORCHESTRATOR]: failed to record history", zap.Error(err))
		} else {
			result.Item = item
		}
	}

	o.transition(StateDone)
	return result, nil
}

// UpdateScript pushes an edited script into the history cache
func (o *Orchestrator) UpdateScript(s script.GeneratedScript) error {
	if o.history == nil {
		return nil
	}
	return o.history.UpdateScript(s)
}

func (o *Orchestrator) generateScript(ctx context.Context, token string, req script.GenerationRequest) (script.GeneratedScript, error) {
	text, err := o.backend.Generate(ctx, token, sdk.GenerateRequest{
		Prompt: script.ScriptPrompt(req),
		Type:   sdk.TypeScript,
		Config: sdk.GenerationConfig{
			SystemInstruction: o.instructions.For(req.Template),
			ResponseMimeType:  mimeJSON,
			ResponseSchema:    script.ScriptSchema,
		},
	})
	if err != nil {
		return script.GeneratedScript{}, err
	}

	generated, err := script.ParseScript(text, req.Tone)
	if err != nil {
		return script.GeneratedScript{}, err
	}
	generated.ID = uuid.NewString()

	return generated, nil
}

func (o *Orchestrator) generateSeo(ctx context.Context, token string, req script.GenerationRequest, s script.GeneratedScript) (script.SeoData, error) {
	text, err := o.backend.Generate(ctx, token, sdk.GenerateRequest{
		Prompt: script.SeoPrompt(req, s),
		Type:   sdk.TypeSeo,
		Config: sdk.GenerationConfig{
			SystemInstruction: script.SeoInstruction,
			ResponseMimeType:  mimeJSON,
			ResponseSchema:    script.SeoSchema,
		},
	})
	if err != nil {
		return script.SeoData{}, err
	}

	return script.ParseSeo(text)
}

// handleAuthFailure drops the local token when the backend no longer knows it
func (o *Orchestrator) handleAuthFailure(err error) {
	if !errors.Is(err, sdk.ErrForbidden) && !errors.Is(err, sdk.ErrUnauthorized) {
		return
	}

	if clearErr := o.clearToken(); clearErr != nil {
		o.log.Error("[ORCHESTRATOR]: failed to clear session token", zap.Error(clearErr))
		return
	}
	o.log.Info("[ORCHESTRATOR]: session rejected, token cleared")
}

func (o *Orchestrator) token() (string, error) {
	token, _, err := o.store.Get(TokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

func (o *Orchestrator) clearToken() error {
	if err := o.store.Delete(TokenKey); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// begin claims the orchestrator for one submission and resets it to Idle
func (o *Orchestrator) begin() error {
	o.mutex.Lock()
	if o.busy {
		o.mutex.Unlock()
		return ErrBusy
	}
	o.busy = true
	o.mutex.Unlock()

	o.transition(StateIdle)
	return nil
}

func (o *Orchestrator) end() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.busy = false
}

func (o *Orchestrator) transition(s State) {
	o.mutex.Lock()
	o.state = s
	observer := o.observer
	o.mutex.Unlock()

	if observer != nil {
		observer(s)
	}
}

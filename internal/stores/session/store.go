package session

import (
	"strings"
	"sync"
	"time"

	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/google/uuid"
)

// Session is one authenticated caller
type Session struct {
	Token     string
	Email     string
	CreatedAt time.Time
}

// TokenGenerator mints a new opaque token for an email
type TokenGenerator func(email string, now time.Time) string

// RandomToken returns a random v4 UUID
func RandomToken(string, time.Time) string {
	return uuid.NewString()
}

// Store maps bearer tokens to sessions for the lifetime of the process.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	newToken TokenGenerator
	now      func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithTokenGenerator replaces the token generator
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(s *Store) {
		s.newToken = gen
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]Session),
		newToken: RandomToken,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login creates a session for email
func (s *Store) Login(email string) (Session, error) {
	email = strings.TrimSpace(email)
	if err := sdk.ValidateEmail(email); err != nil {
		return Session{}, err
	}

	now := s.now()
	session := Session{
		Token:     s.newToken(email, now),
		Email:     email,
		CreatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session

	return session, nil
}

// Authenticate resolves a token. An empty token is unauthorized, an unknown one forbidden.
func (s *Store) Authenticate(token string) (Session, error) {
	if token == "" {
		return Session{}, sdk.NewError(sdk.ErrUnauthorized, sdk.MessageUnauthorized, nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, sdk.NewError(sdk.ErrForbidden, sdk.MessageSessionInvalid, nil)
	}
	return session, nil
}

// Forget removes a session, reporting whether it existed
func (s *Store) Forget(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

// Count returns the number of live sessions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

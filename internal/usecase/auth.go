package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/savora/core/internal/domain"
)

// DefaultAuthDelay is how long the mock session stays in the loading state
const DefaultAuthDelay = 500 * time.Millisecond

// Compile-time interface check.
var _ domain.AuthProvider = (*MockAuthProvider)(nil)

type signInForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
}

type signUpForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
	Name     string `validate:"required"`
}

// formMessages maps failing form fields to the message shown to the user
var formMessages = map[string]string{
	"Email":    "Invalid email address",
	"Password": "Password must be at least 6 characters",
	"Name":     "Name is required",
}

// MockAuthProvider is a development identity provider. It starts in the
// loading state and resolves to a demo user after a fixed delay; sign-in
// and sign-up validate the form and always succeed.
type MockAuthProvider struct {
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state domain.AuthState
	ready chan struct{}
	once  sync.Once
	timer *time.Timer
}

// NewMockAuthProvider creates the provider and schedules the demo session
func NewMockAuthProvider(delay time.Duration, logger *zap.Logger) *MockAuthProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &MockAuthProvider{
		validate: validator.New(),
		logger:   logger.Named("auth"),
		now:      time.Now,
		state:    domain.AuthState{Status: domain.AuthLoading},
		ready:    make(chan struct{}),
	}

	if delay <= 0 {
		p.resolve(p.demoUser())
	} else {
		p.timer = time.AfterFunc(delay, func() { p.resolve(p.demoUser()) })
	}
	return p
}

func (p *MockAuthProvider) demoUser() *domain.User {
	return &domain.User{
		ID:        "mock-user-id",
		Email:     "demo@example.com",
		Name:      "Demo User",
		CreatedAt: p.now().UTC(),
		IsActive:  true,
	}
}

// resolve ends the loading state with user unless a sign-in already did
func (p *MockAuthProvider) resolve(user *domain.User) {
	p.mu.Lock()
	if p.state.Status == domain.AuthLoading {
		p.state = domain.AuthState{Status: domain.AuthAuthenticated, User: user}
	}
	p.mu.Unlock()
	p.markReady()
}

func (p *MockAuthProvider) markReady() {
	p.once.Do(func() { close(p.ready) })
}

// State returns the current session
func (p *MockAuthProvider) State() domain.AuthState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	state := p.state
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}

// WaitReady blocks until the session has left the loading state
func (p *MockAuthProvider) WaitReady(ctx context.Context) (domain.AuthState, error) {
	select {
	case <-p.ready:
		return p.State(), nil
	case <-ctx.Done():
		return p.State(), ctx.Err()
	}
}

// SignIn validates the credentials and signs in as the demo user
func (p *MockAuthProvider) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	form := signInForm{Email: strings.TrimSpace(email), Password: password}
	if err := p.check(form); err != nil {
		return nil, err
	}

	user := p.demoUser()
	p.setUser(user)
	p.logger.Info("signed in", zap.String("email", user.Email))
	return user, nil
}

// SignUp validates the form and signs in as a fresh mock account
func (p *MockAuthProvider) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	form := signUpForm{Email: strings.TrimSpace(email), Password: password, Name: strings.TrimSpace(name)}
	if err := p.check(form); err != nil {
		return nil, err
	}

	user := p.demoUser()
	user.ID = fmt.Sprintf("mock-%d", p.now().UnixMilli())
	user.Email = form.Email
	user.Name = form.Name
	p.setUser(user)
	p.logger.Info("signed up", zap.String("user_id", user.ID))
	return user, nil
}

// SignOut ends the session
func (p *MockAuthProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.state = domain.AuthState{Status: domain.AuthAnonymous}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()
	p.markReady()
	return nil
}

func (p *MockAuthProvider) setUser(user *domain.User) {
	p.mu.Lock()
	p.state = domain.AuthState{Status: domain.AuthAuthenticated, User: user}
	p.mu.Unlock()
	p.markReady()
}

// check runs struct validation and reports the first failing field
func (p *MockAuthProvider) check(form any) error {
	err := p.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := formMessages[fieldErrs[0].Field()]; ok {
			return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

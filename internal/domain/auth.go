package domain

import (
	"context"
	"time"
)

// User is the signed-in account shown in the app chrome
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// AuthStatus enumerates the authentication states a session can be in
type AuthStatus int

const (
	AuthLoading AuthStatus = iota
	AuthAnonymous
	AuthAuthenticated
)

// String returns a human-readable auth status
func (s AuthStatus) String() string {
	switch s {
	case AuthLoading:
		return "loading"
	case AuthAnonymous:
		return "anonymous"
	case AuthAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name
func (s AuthStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AuthState is a snapshot of the session. User is set only when authenticated.
type AuthState struct {
	Status AuthStatus `json:"status"`
	User   *User      `json:"user,omitempty"`
}

// AuthProvider resolves and mutates the current session
type AuthProvider interface {
	State() AuthState
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	SignOut(ctx context.Context) error
}

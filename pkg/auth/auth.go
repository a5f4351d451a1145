package auth

import (
	"context"
	"net/http"
)

type contextKey string

const (
	UserContextKey  contextKey = "auth.user"
	EmailContextKey contextKey = "auth.email"
)

// Provider authenticates an incoming request and may enrich the context with
// user information.
type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

package static

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/zhuxiaohai/philips-medical/pkg/auth"
)

var _ auth.Provider = &Provider{}

// Provider accepts requests carrying a pre-shared bearer token. An empty
// token disables the check.
type Provider struct {
	token string
}

func New(token string) (*Provider, error) {
	return &Provider{
		token: token,
	}, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if p.token == "" {
		return ctx, nil
	}

	token, err := bearerToken(r)

	if err != nil {
		return ctx, err
	}

	if !strings.EqualFold(token, p.token) {
		return ctx, errors.New("invalid token")
	}

	return context.WithValue(ctx, auth.UserContextKey, token), nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	if header == "" {
		return "", errors.New("missing authorization header")
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return "", errors.New("invalid authorization header")
	}

	return strings.TrimPrefix(header, "Bearer "), nil
}

package oidc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/zhuxiaohai/philips-medical/pkg/auth"
)

var _ auth.Provider = &Provider{}

// Provider validates bearer tokens as OIDC ID tokens against the configured
// issuer.
type Provider struct {
	verifier *oidc.IDTokenVerifier
}

func New(issuer, audience string) (*Provider, error) {
	provider, err := oidc.NewProvider(context.Background(), issuer)

	if err != nil {
		return nil, err
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: audience,
	})

	return &Provider{
		verifier: verifier,
	}, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	header := r.Header.Get("Authorization")

	if !strings.HasPrefix(header, "Bearer ") {
		return ctx, errors.New("missing bearer token")
	}

	token, err := p.verifier.Verify(ctx, strings.TrimPrefix(header, "Bearer "))

	if err != nil {
		return ctx, err
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
	}

	if err := token.Claims(&claims); err == nil {
		if claims.Subject != "" {
			ctx = context.WithValue(ctx, auth.UserContextKey, claims.Subject)
		}

		if claims.Email != "" {
			ctx = context.WithValue(ctx, auth.EmailContextKey, claims.Email)
		}
	}

	return ctx, nil
}

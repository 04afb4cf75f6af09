// Package auth bridges the external identity provider to locally issued
// tokens and holds the capability policy. The verifier is an injected
// dependency with its own lifecycle, never a package-level singleton.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the already-authenticated caller, used to attribute audit entries
type Identity struct {
	Subject string
	Email   string
	Role    string
}

// TokenVerifier verifies a token issued by the external identity provider
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// HSVerifier verifies HS256 tokens signed with a shared provider secret
type HSVerifier struct {
	secret []byte
	issuer string
}

// NewHSVerifier creates a verifier for the given shared secret and issuer
func NewHSVerifier(secret, issuer string) *HSVerifier {
	return &HSVerifier{secret: []byte(secret), issuer: issuer}
}

type externalClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify checks the token signature, method and issuer and extracts the identity
func (v *HSVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &externalClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}

	claims, ok := parsed.Claims.(*externalClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid identity token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("identity token has no subject")
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject + "@external.local"
	}

	return &Identity{Subject: claims.Subject, Email: email}, nil
}

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity attaches the caller identity to the context
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the caller identity, if any
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// ActorName returns a printable actor for audit descriptions
func ActorName(ctx context.Context) string {
	if id, ok := IdentityFromContext(ctx); ok && id.Subject != "" {
		return id.Subject
	}
	return "system"
}

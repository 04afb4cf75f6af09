package service

import (
	"context"
	"fmt"

	"erp-service/internal/auth"
	"erp-service/internal/models"
	"erp-service/internal/store"
	"erp-service/internal/util"

	"go.uber.org/zap"
)

// AuthService exchanges externally issued identity tokens for local JWTs.
// The verifier is injected; this service owns none of the provider plumbing.
type AuthService struct {
	store    *store.Store
	verifier auth.TokenVerifier
	issuer   *auth.TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, verifier auth.TokenVerifier, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{
		store:    store,
		verifier: verifier,
		issuer:   issuer,
		logger:   util.GetLogger(),
	}
}

// TokenResponse carries the locally issued token
type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Exchange verifies the external token, upserts the local account and issues
// a local JWT carrying the user's role
func (as *AuthService) Exchange(ctx context.Context, externalToken string) (*TokenResponse, error) {
	identity, err := as.verifier.Verify(ctx, externalToken)
	if err != nil {
		return nil, err
	}

	user, err := as.store.UpsertUser(ctx, identity.Subject, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	token, err := as.issuer.Issue(user.ID, user.Subject, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	as.logger.Info("Token exchanged",
		zap.String("subject", user.Subject),
		zap.String("role", user.Role))

	return &TokenResponse{Token: token, User: user}, nil
}

package auth

import (
	"context"
	"testing"
	"time"

	"erp-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "user-42", models.RoleVendor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, models.RoleVendor, claims.Role)
}

func TestTokenIssuerRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue(1, "user-1", models.RoleStaff)
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsWrongMethod(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestHSVerifier(t *testing.T) {
	verifier := NewHSVerifier("provider-secret", "identity-provider")

	claims := externalClaims{
		Email: "owner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ext-user-7",
			Issuer:    "identity-provider",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("provider-secret"))
	require.NoError(t, err)

	id, err := verifier.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "ext-user-7", id.Subject)
	assert.Equal(t, "owner@example.com", id.Email)
}

func TestHSVerifierRejectsWrongIssuer(t *testing.T) {
	verifier := NewHSVerifier("provider-secret", "identity-provider")

	claims := externalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ext-user-7",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("provider-secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), signed)
	assert.Error(t, err)
}

func TestAllow(t *testing.T) {
	tests := []struct {
		role string
		op   string
		want bool
	}{
		{models.RoleAdmin, OpHRWrite, true},
		{models.RoleAdmin, OpSalesWrite, true},
		{models.RoleVendor, OpSalesWrite, true},
		{models.RoleVendor, OpHRRead, false},
		{models.RoleVendor, OpHRWrite, false},
		{models.RoleStaff, OpSalesRead, true},
		{models.RoleStaff, OpSalesWrite, false},
		{models.RoleStaff, OpHRRead, false},
		{"", OpCatalogRead, false},
		{"unknown", OpCatalogRead, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Allow(tc.role, tc.op), "role=%s op=%s", tc.role, tc.op)
	}
}

func TestActorName(t *testing.T) {
	assert.Equal(t, "system", ActorName(context.Background()))

	ctx := WithIdentity(context.Background(), &Identity{Subject: "user-9"})
	assert.Equal(t, "user-9", ActorName(ctx))
}

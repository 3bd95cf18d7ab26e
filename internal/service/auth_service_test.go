package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() *models.JWTClaims {
	return &models.JWTClaims{
		UserID: "admin-1",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService("secret")

	claims, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, "secret", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.True(t, claims.Role.IsAdministrator())
}

func TestAuthServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewAuthService("secret")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	anonymous := validClaims()
	anonymous.UserID = ""

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, "other", validClaims()),
		"wrong method": signToken(t, jwt.SigningMethodHS512, "secret", validClaims()),
		"expired":      signToken(t, jwt.SigningMethodHS256, "secret", expired),
		"no subject":   signToken(t, jwt.SigningMethodHS256, "secret", anonymous),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}

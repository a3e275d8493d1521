package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifier_ValidToken(t *testing.T) {
	v := New(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"username": "sarah",
		"email":    "sarah@example.com",
		"role":     "member",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "sarah", claims.Username)
	assert.Equal(t, "sarah@example.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
}

func TestVerifier_SubjectFallback(t *testing.T) {
	v := New(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "john",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "john", claims.Username)
}

func TestVerifier_Rejections(t *testing.T) {
	v := New(testSecret)

	// firma con otro secreto
	token := signToken(t, "other-secret", jwt.MapClaims{"username": "sarah"})
	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// expirado
	token = signToken(t, testSecret, jwt.MapClaims{
		"username": "sarah",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// sin identidad
	token = signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrNoUsername)

	// basura
	_, err = v.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

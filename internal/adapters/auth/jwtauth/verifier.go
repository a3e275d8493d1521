// Package jwtauth valida tokens HS256 emitidos por el servicio de cuentas
// y los traduce a claims del engine.
package jwtauth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"profile-visibility/internal/ports/auth"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoUsername   = errors.New("token has no username claim")
)

type tokenClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func New(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		// fallback al subject estándar
		username = strings.TrimSpace(claims.Subject)
	}
	if username == "" {
		return auth.Claims{}, ErrNoUsername
	}

	return auth.Claims{
		Username: username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}

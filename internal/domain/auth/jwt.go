package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var _ Verifier = (*TokenVerifier)(nil)

// TokenVerifier verifies HS256-signed bearer tokens carrying the caller's
// uid (sub), email and admin claims.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a TokenVerifier with the given signing secret.
func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

type claims struct {
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Resolve parses and verifies the token and returns the embedded identity.
func (v *TokenVerifier) Resolve(_ context.Context, token string) (*Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UID:   c.Subject,
		Email: c.Email,
		Admin: c.Admin,
	}, nil
}

// SignToken mints a token for the given identity, valid for ttl. Used by
// operational tooling and tests; the API server itself only verifies.
func SignToken(secret []byte, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: id.Email,
		Admin: id.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString(secret)
}

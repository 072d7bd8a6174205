// Package auth resolves bearer credentials to caller identities.
package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrInvalidToken is returned for missing, malformed or unverifiable tokens.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin"`
}

// Verifier resolves a bearer token to an identity, or ErrInvalidToken.
type Verifier interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// Package auth resolves connection tokens to player identities
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidToken is returned for tokens that are malformed or whose
// signature does not match; the connection must be refused.
var ErrInvalidToken = errors.New("authentication error")

// TokenAuth provides a simple signed-token authentication. A token is
// the identity and an HMAC-SHA256 signature over it, both base64url
// encoded and joined with a dot.
type TokenAuth struct {
	secret []byte
}

// NewTokenAuth creates a new token authenticator with the given secret
func NewTokenAuth(secret string) *TokenAuth {
	return &TokenAuth{secret: []byte(secret)}
}

// Issue creates a token for an identity
func (a *TokenAuth) Issue(identity string) string {
	id := base64.RawURLEncoding.EncodeToString([]byte(identity))
	return id + "." + a.sign(identity)
}

// Verify checks a token and returns the identity it was issued for
func (a *TokenAuth) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}

	identity := string(raw)
	if identity == "" {
		return "", ErrInvalidToken
	}

	if !hmac.Equal([]byte(a.sign(identity)), []byte(parts[1])) {
		return "", ErrInvalidToken
	}

	return identity, nil
}

func (a *TokenAuth) sign(identity string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(identity))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

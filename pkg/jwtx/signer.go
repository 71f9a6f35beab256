package jwtx

import (
	"crypto/ed25519"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSASigner signs tokens with an Ed25519 key. Production tokens come from
// the auth provider; this is used by tests and for local development.
type EdDSASigner struct {
	kid string
	key ed25519.PrivateKey
}

// NewSignerEdDSA wraps an Ed25519 private key.
func NewSignerEdDSA(kid string, key ed25519.PrivateKey) (*EdDSASigner, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 private key size")
	}
	return &EdDSASigner{kid: kid, key: key}, nil
}

func (s *EdDSASigner) KID() string { return s.kid }

// Sign turns claims into a signed JWT string.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// PublicJWK returns the JWK a verifier needs for this signer's tokens.
func (s *EdDSASigner) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, s.key.Public().(ed25519.PublicKey))
}

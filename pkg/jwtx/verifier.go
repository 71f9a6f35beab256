package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrNoSubject   = errors.New("jwtx: token has no subject")
)

// KeySetVerifier verifies tokens against whatever keys the provider currently
// publishes. The algorithm is taken from the key type registered under the
// token's kid, so a token can never pick its own algorithm.
type KeySetVerifier struct {
	keys     *KeySet
	issuer   string
	audience []string
	leeway   time.Duration
}

// NewVerifier returns a Verifier backed by keys. Empty issuer or audience
// disables that check.
func NewVerifier(keys *KeySet, issuer string, audience []string, leeway time.Duration) *KeySetVerifier {
	return &KeySetVerifier{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		leeway:   leeway,
	}
}

// Verify parses tokenStr, checks the signature and validates the claims.
func (v *KeySetVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{AlgorithmEdDSA, AlgorithmRS256, AlgorithmES256}),
		jwt.WithLeeway(v.leeway),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrMalformed
		}

		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}

		if err := matchAlg(t.Method.Alg(), pub); err != nil {
			return nil, err
		}
		return pub, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryWithLeeway(v.leeway); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, ErrNoSubject
	}

	return *claims, nil
}

func matchAlg(alg string, pub any) error {
	switch pub.(type) {
	case ed25519.PublicKey:
		if alg == AlgorithmEdDSA {
			return nil
		}
	case *rsa.PublicKey:
		if alg == AlgorithmRS256 {
			return nil
		}
	case *ecdsa.PublicKey:
		if alg == AlgorithmES256 {
			return nil
		}
	}
	return ErrAlgMismatch
}

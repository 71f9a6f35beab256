package jwtx

import (
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds the public verification keys published by the auth provider.
// It is swapped wholesale whenever the JWKS is refreshed and is safe for
// concurrent use by request handlers.
type KeySet struct {
	mu  sync.RWMutex
	pub map[string]any // kid: *rsa.PublicKey | ed25519.PublicKey | *ecdsa.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]any)}
}

// AddJWK decodes a JWK and adds it to the set.
func (k *KeySet) AddJWK(j JWK) error {
	key, err := j.PublicKey()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub[j.Kid] = key
	return nil
}

// Get returns the public key for the given kid.
func (k *KeySet) Get(kid string) (any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// Len reports how many keys are loaded.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub)
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool { return k.Len() > 0 }

// Replace swaps every key for the contents of jwks. Keys that fail to decode
// abort the swap so a bad publish never empties a working set.
func (k *KeySet) Replace(jwks JWKS) error {
	next := make(map[string]any, len(jwks.Keys))
	for _, j := range jwks.Keys {
		key, err := j.PublicKey()
		if err != nil {
			return err
		}
		next[j.Kid] = key
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub = next
	return nil
}

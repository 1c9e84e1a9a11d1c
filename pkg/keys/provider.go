// Package keys manages the AES-256 key material used by the payload codec.
// Providers hold one "current" key for new encryptions plus any number of
// retained keys for decrypting data written before a rotation. Key material is
// immutable after construction, so a provider is safe for concurrent reads
// without locking.
package keys

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// ErrKeyNotFound is returned when a key ID is not registered with the
// provider. Encrypted history written under a removed key becomes unreadable.
var ErrKeyNotFound = errors.New("encryption key not found")

// ErrUnavailable is returned when a provider is not configured with usable key
// material.
var ErrUnavailable = errors.New("key provider unavailable")

// Key is AES-256 key material with its identifier. Immutable once issued.
type Key struct {
	ID     string
	Secret []byte
}

// Provider supplies key material by identifier.
type Provider interface {
	// CurrentKey returns the key used for new encryptions.
	CurrentKey() (Key, error)

	// KeyByID returns a retained key, or ErrKeyNotFound.
	KeyByID(id string) (Key, error)

	// KeyExists reports whether a key ID is registered.
	KeyExists(id string) bool

	// CurrentKeyID returns the identifier of the current key.
	CurrentKeyID() string
}

// decodeKey decodes and validates a base64 AES-256 key.
func decodeKey(id, encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("key %s: empty key material", id)
	}
	secret, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("key %s: invalid base64: %w", id, err)
	}
	if len(secret) != KeySize {
		return nil, fmt.Errorf("key %s: AES-256 requires a %d-byte key, got %d bytes", id, KeySize, len(secret))
	}
	return secret, nil
}

package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/identropy/accord/pkg/keys"
)

// nonceSize is the GCM nonce length prepended to every ciphertext.
const nonceSize = 12

// ErrMalformedPayload is returned when an encrypted payload cannot be parsed:
// missing key-id metadata, truncated data, or a failed authentication tag.
var ErrMalformedPayload = errors.New("malformed encrypted payload")

// Codec wraps and unwraps opaque payloads. Implementations must be total over
// well-formed input and safe for concurrent use.
type Codec interface {
	Encode(p Payload) (Payload, error)
	Decode(p Payload) (Payload, error)
}

// Encryption is a Codec applying AES-256-GCM with the provider's current key.
//
// Wire format of the encrypted data: nonce(12) || ciphertext || tag(16).
// Metadata written on encode: encoding=binary/encrypted, the cipher name, the
// key ID, and the original encoding preserved under its own key. Decode
// reverses all of it and passes unencrypted payloads through untouched, so
// history written before encryption was enabled stays readable.
type Encryption struct {
	provider keys.Provider
	logger   *slog.Logger
}

// Option configures an Encryption codec.
type Option func(*Encryption)

// WithLogger sets the codec logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encryption) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEncryption builds a codec over the given key provider.
func NewEncryption(provider keys.Provider, opts ...Option) *Encryption {
	e := &Encryption{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode encrypts the payload under the provider's current key. Encoding an
// already-encrypted payload is a no-op, guarding against double encryption.
func (e *Encryption) Encode(p Payload) (Payload, error) {
	if p.Encrypted() {
		return p, nil
	}

	key, err := e.provider.CurrentKey()
	if err != nil {
		return Payload{}, fmt.Errorf("encode: %w", err)
	}

	gcm, err := newGCM(key.Secret)
	if err != nil {
		return Payload{}, fmt.Errorf("encode: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Payload{}, fmt.Errorf("encode: generating nonce: %w", err)
	}

	// Seal appends ciphertext+tag to the nonce, producing nonce||ct||tag.
	sealed := gcm.Seal(nonce, nonce, p.Data, nil)

	out := Payload{
		Data:     sealed,
		Metadata: make(map[string][]byte, len(p.Metadata)+3),
	}
	for k, v := range p.Metadata {
		if k == MetadataEncoding {
			continue
		}
		out.Metadata[k] = append([]byte(nil), v...)
	}
	if original, ok := p.Metadata[MetadataEncoding]; ok {
		out.Metadata[MetadataOriginalEncoding] = append([]byte(nil), original...)
	}
	out.Metadata[MetadataEncoding] = []byte(EncodingEncrypted)
	out.Metadata[MetadataCipher] = []byte(CipherName)
	out.Metadata[MetadataKeyID] = []byte(key.ID)

	e.logger.Debug("payload encrypted",
		"key_id", key.ID, "plaintext_bytes", len(p.Data), "ciphertext_bytes", len(sealed))
	return out, nil
}

// Decode decrypts the payload with the key named in its metadata. Unencrypted
// payloads pass through unchanged.
func (e *Encryption) Decode(p Payload) (Payload, error) {
	if !p.Encrypted() {
		return p, nil
	}

	keyID := string(p.Metadata[MetadataKeyID])
	if keyID == "" {
		return Payload{}, fmt.Errorf("decode: %w: missing %s metadata", ErrMalformedPayload, MetadataKeyID)
	}

	key, err := e.provider.KeyByID(keyID)
	if err != nil {
		return Payload{}, fmt.Errorf("decode: %w", err)
	}

	gcm, err := newGCM(key.Secret)
	if err != nil {
		return Payload{}, fmt.Errorf("decode: %w", err)
	}

	if len(p.Data) < nonceSize+gcm.Overhead() {
		return Payload{}, fmt.Errorf("decode: %w: %d bytes is too short", ErrMalformedPayload, len(p.Data))
	}

	nonce, sealed := p.Data[:nonceSize], p.Data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return Payload{}, fmt.Errorf("decode: %w: %v", ErrMalformedPayload, err)
	}

	out := Payload{
		Data:     plaintext,
		Metadata: make(map[string][]byte, len(p.Metadata)),
	}
	for k, v := range p.Metadata {
		switch k {
		case MetadataEncoding, MetadataCipher, MetadataKeyID, MetadataOriginalEncoding:
			continue
		}
		out.Metadata[k] = append([]byte(nil), v...)
	}
	if original, ok := p.Metadata[MetadataOriginalEncoding]; ok {
		out.Metadata[MetadataEncoding] = append([]byte(nil), original...)
	}
	if len(out.Metadata) == 0 {
		out.Metadata = nil
	}

	e.logger.Debug("payload decrypted", "key_id", keyID, "plaintext_bytes", len(plaintext))
	return out, nil
}

func newGCM(secret []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

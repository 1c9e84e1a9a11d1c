// Package middleware wraps history stores with cross-cutting behavior. The
// encryption middleware is how the flow engine guarantees the underlying store
// only ever sees ciphertext.
package middleware

import (
	"context"
	"fmt"

	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/ports"
)

type encryptionMiddleware struct {
	next ports.HistoryStore
	c    codec.Codec
}

// Encryption returns a middleware that encodes payloads before they reach the
// underlying store and decodes them on the way out. Payloads already in the
// store from before encryption was enabled load unchanged, because the codec
// passes unencrypted payloads through.
func Encryption(c codec.Codec) Middleware {
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &encryptionMiddleware{next: next, c: c}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, runID string, payload codec.Payload) error {
	encrypted, err := m.c.Encode(payload)
	if err != nil {
		return fmt.Errorf("encrypting run %s: %w", runID, err)
	}
	return m.next.Save(ctx, runID, encrypted)
}

func (m *encryptionMiddleware) Load(ctx context.Context, runID string) (codec.Payload, error) {
	payload, err := m.next.Load(ctx, runID)
	if err != nil {
		return codec.Payload{}, err
	}
	decrypted, err := m.c.Decode(payload)
	if err != nil {
		return codec.Payload{}, fmt.Errorf("decrypting run %s: %w", runID, err)
	}
	return decrypted, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

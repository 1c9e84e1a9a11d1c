package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"reflect"
	"testing"

	"github.com/identropy/accord/internal/logging"
	"github.com/identropy/accord/pkg/adapters/memory"
	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/history/middleware"
	"github.com/identropy/accord/pkg/keys"
)

func testCodec(t *testing.T) *codec.Encryption {
	t.Helper()
	k := make([]byte, keys.KeySize)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	provider, err := keys.NewStatic("test-key", map[string]string{
		"test-key": base64.StdEncoding.EncodeToString(k),
	})
	if err != nil {
		t.Fatal(err)
	}
	return codec.NewEncryption(provider, codec.WithLogger(logging.NewNop()))
}

func TestEncryption_UnderlyingStoreSeesOnlyCiphertext(t *testing.T) {
	underlying := memory.NewStore()
	secured := middleware.Encryption(testCodec(t))(underlying)
	ctx := context.Background()

	payload := codec.NewJSON([]byte(`{"email":"ana@x.com"}`))
	if err := secured.Save(ctx, "run-1", payload); err != nil {
		t.Fatal(err)
	}

	raw, err := underlying.Load(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if !raw.Encrypted() {
		t.Fatal("underlying store holds an unencrypted payload")
	}
	if bytes.Contains(raw.Data, []byte("ana@x.com")) {
		t.Fatal("plaintext leaked into the underlying store")
	}

	loaded, err := secured.Load(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, payload) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, payload)
	}
}

func TestEncryption_LoadsLegacyPlaintext(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()

	// History written before encryption was enabled.
	legacy := codec.NewJSON([]byte(`{"legacy":true}`))
	if err := underlying.Save(ctx, "run-old", legacy); err != nil {
		t.Fatal(err)
	}

	secured := middleware.Encryption(testCodec(t))(underlying)
	loaded, err := secured.Load(ctx, "run-old")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, legacy) {
		t.Error("legacy plaintext must load unchanged")
	}
}

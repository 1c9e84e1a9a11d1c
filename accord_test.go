package accord_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identropy/accord"
	"github.com/identropy/accord/pkg/adapters/memory"
	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/keys"
	"github.com/identropy/accord/pkg/ports"
	"github.com/identropy/accord/pkg/taxonomy"
)

const (
	clientID = "account-console"
	role     = "user"
)

func testKey(t *testing.T) string {
	t.Helper()
	raw := make([]byte, keys.KeySize)
	for i := range raw {
		raw[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func newEngine(t *testing.T) (*accord.Engine, *memory.Directory, *memory.Repository, *memory.Store, codec.Codec) {
	t.Helper()

	provider, err := keys.NewStatic("key-1", map[string]string{"key-1": testKey(t)})
	require.NoError(t, err)
	enc := codec.NewEncryption(provider)

	dir := memory.NewDirectory(clientID + "/" + role)
	repo := memory.NewRepository()
	store := memory.NewStore()

	engine := accord.New(dir, repo,
		accord.WithClientRole(clientID, role),
		accord.WithHistoryStore(store),
		accord.WithCodec(enc),
		accord.WithRetryPolicy(ports.RetryPolicy{MaxAttempts: 1}),
	)
	return engine, dir, repo, store, enc
}

func TestEngineCreateUpdateDeleteLifecycle(t *testing.T) {
	engine, dir, repo, _, _ := newEngine(t)
	ctx := context.Background()

	id := uuid.NewString()
	created, err := engine.CreateUser(ctx, domain.CreateUserRequest{
		UserID:    id,
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "s3cret",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.True(t, created.IsSuccess())
	assert.Equal(t, 1, dir.AccountCount())
	assert.Equal(t, 1, repo.UserCount())

	email := "jane@example.com"
	updated, err := engine.UpdateUser(ctx, id, domain.UpdateUserRequest{Email: &email})
	require.NoError(t, err)
	require.True(t, updated.IsSuccess())
	user, _ := updated.Get()
	assert.Equal(t, email, user.Email)

	got, err := engine.GetUser(ctx, id)
	require.NoError(t, err)
	require.True(t, got.IsSuccess())
	uwp, _ := got.Get()
	assert.Equal(t, email, uwp.User.Email)
	require.NotNil(t, uwp.Profile)

	deleted, err := engine.DeleteUser(ctx, id)
	require.NoError(t, err)
	require.True(t, deleted.IsSuccess())

	gone, err := engine.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.CodeUserNotFound, gone.ErrorCode)
}

func TestEngineHistoryIsEncryptedAtRest(t *testing.T) {
	engine, _, _, store, enc := newEngine(t)
	ctx := context.Background()

	res, err := engine.CreateUser(ctx, domain.CreateUserRequest{
		UserID:   uuid.NewString(),
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	runs, err := engine.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	// The raw store must hold only ciphertext.
	raw, err := store.Load(ctx, runs[0])
	require.NoError(t, err)
	assert.True(t, raw.Encrypted())
	assert.NotContains(t, string(raw.Data), "jdoe@example.com")

	// Decoding restores the record.
	plain, err := enc.Decode(raw)
	require.NoError(t, err)
	var rec struct {
		Flow      string `json:"flow"`
		ErrorCode string `json:"errorCode"`
	}
	require.NoError(t, json.Unmarshal(plain.Data, &rec))
	assert.Equal(t, "user.create", rec.Flow)
	assert.Empty(t, rec.ErrorCode)
}

func TestEngineRecordsRejectedRuns(t *testing.T) {
	engine, _, repo, store, enc := newEngine(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, domain.User{ID: uuid.New(), Email: "jdoe@example.com"})
	require.NoError(t, err)

	res, err := engine.CreateUser(ctx, domain.CreateUserRequest{
		UserID:   uuid.NewString(),
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.False(t, res.IsSuccess())

	runs, err := engine.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	raw, err := store.Load(ctx, runs[0])
	require.NoError(t, err)
	plain, err := enc.Decode(raw)
	require.NoError(t, err)

	var rec struct {
		ErrorCode string `json:"errorCode"`
	}
	require.NoError(t, json.Unmarshal(plain.Data, &rec))
	assert.Equal(t, taxonomy.CodeUserAlreadyExists, rec.ErrorCode)
}

func TestEngineWithoutCodecStoresPlaintext(t *testing.T) {
	dir := memory.NewDirectory(clientID + "/" + role)
	repo := memory.NewRepository()
	store := memory.NewStore()
	engine := accord.New(dir, repo,
		accord.WithClientRole(clientID, role),
		accord.WithHistoryStore(store),
	)

	ctx := context.Background()
	res, err := engine.CreateUser(ctx, domain.CreateUserRequest{
		UserID:   uuid.NewString(),
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	runs, err := engine.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	raw, err := store.Load(ctx, runs[0])
	require.NoError(t, err)
	assert.False(t, raw.Encrypted())
	assert.Contains(t, string(raw.Data), "user.create")
}

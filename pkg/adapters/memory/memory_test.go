package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/adapters/memory"
	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
)

func TestStore_SaveLoadDelete(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	payload := codec.NewJSON([]byte(`{"flow":"user.create"}`))
	if err := store.Save(ctx, "run-1", payload); err != nil {
		t.Fatal(err)
	}

	// Mutating the original must not affect the stored copy.
	payload.Data[0] = 'X'

	loaded, err := store.Load(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if string(loaded.Data) != `{"flow":"user.create"}` {
		t.Errorf("stored payload mutated: %s", loaded.Data)
	}

	if err := store.Delete(ctx, "run-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "run-1"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRepository_SoftDeleteAndRestore(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, domain.User{ID: uuid.New(), Username: "ana", Email: "ana@x.com"})
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteUser(ctx, user.ID); err != nil {
		t.Fatal(err)
	}
	deleted, err := repo.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !deleted.Deleted || deleted.DeletedAt == nil {
		t.Fatal("soft delete must flag the row and stamp the time")
	}

	// A soft-deleted email is free again.
	exists, err := repo.EmailExists(ctx, "ana@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("soft-deleted user should not hold the email")
	}

	// Restore, as the delete-flow compensation does.
	deleted.Deleted = false
	deleted.DeletedAt = nil
	if _, err := repo.UpdateUser(ctx, user.ID, deleted); err != nil {
		t.Fatal(err)
	}
	restored, _ := repo.GetUser(ctx, user.ID)
	if restored.Deleted || restored.DeletedAt != nil {
		t.Error("restore must clear the deleted flag and timestamp")
	}
}

func TestRepository_EmailUniqueness(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, domain.User{ID: uuid.New(), Email: "a@x.com"}); err != nil {
		t.Fatal(err)
	}
	_, err := repo.CreateUser(ctx, domain.User{ID: uuid.New(), Email: "a@x.com"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestDirectory_RolesAndDisable(t *testing.T) {
	dir := memory.NewDirectory("api/user")
	ctx := context.Background()

	id, err := dir.CreateAccount(ctx, ports.Account{Username: "ana", Email: "ana@x.com"}, "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	if err := dir.AssignClientRole(ctx, id, "api", "user"); err != nil {
		t.Fatal(err)
	}
	if !dir.HasRole(id, "api", "user") {
		t.Error("role not assigned")
	}

	err = dir.AssignClientRole(ctx, id, "api", "admin")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown role should report ErrNotFound, got %v", err)
	}

	if err := dir.DisableAccount(ctx, id); err != nil {
		t.Fatal(err)
	}
	account, err := dir.GetAccount(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if account.Enabled {
		t.Error("account should be disabled")
	}

	// Compensation path: delete twice is fine.
	if err := dir.DeleteAccount(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := dir.DeleteAccount(ctx, id); err != nil {
		t.Fatal(err)
	}
}

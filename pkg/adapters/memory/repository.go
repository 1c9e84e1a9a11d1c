package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
)

// Repository implements ports.Repository in memory. Safe for concurrent use.
type Repository struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]domain.User
	profiles map[uuid.UUID]domain.Profile

	now func() time.Time
}

// NewRepository creates an in-memory user repository.
func NewRepository() *Repository {
	return &Repository{
		users:    make(map[uuid.UUID]domain.User),
		profiles: make(map[uuid.UUID]domain.Profile),
		now:      time.Now,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return domain.User{}, fmt.Errorf("user %s: %w", user.ID, domain.ErrConflict)
	}
	for _, existing := range r.users {
		if !existing.Deleted && existing.Email == user.Email {
			return domain.User{}, fmt.Errorf("email %s: %w", user.Email, domain.ErrConflict)
		}
	}

	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user.Clone()
	return user, nil
}

func (r *Repository) UpdateUser(ctx context.Context, id uuid.UUID, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	user.ID = id
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.now()
	r.users[id] = user.Clone()
	return user, nil
}

// DeleteUser soft-deletes: the row survives with the deleted flag set and the
// deletion time stamped, so a compensation can restore it.
func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	now := r.now()
	user.Deleted = true
	user.DeletedAt = &now
	user.UpdatedAt = now
	r.users[id] = user
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return user.Clone(), nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if !user.Deleted && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) CreateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.UserID]; ok {
		return domain.Profile{}, fmt.Errorf("profile for user %s: %w", profile.UserID, domain.ErrConflict)
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := r.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	r.profiles[profile.UserID] = profile.Clone()
	return profile, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, profile domain.Profile) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[userID]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile for user %s: %w", userID, domain.ErrNotFound)
	}

	profile.ID = existing.ID
	profile.UserID = userID
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = r.now()
	r.profiles[userID] = profile.Clone()
	return profile, nil
}

func (r *Repository) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Idempotent under compensation retries.
	delete(r.profiles, userID)
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile for user %s: %w", userID, domain.ErrNotFound)
	}
	return profile.Clone(), nil
}

// UserCount reports non-deleted users. Test helper.
func (r *Repository) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if !u.Deleted {
			n++
		}
	}
	return n
}

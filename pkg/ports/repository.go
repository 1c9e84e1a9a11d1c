package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
)

// Repository is the relational store for user and profile records. Deletion is
// soft: DeleteUser flags the row and stamps the deletion time so a compensation
// can restore it. Adapters signal business conditions with the domain sentinel
// errors.
type Repository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, user domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)

	// EmailExists reports whether a non-deleted user holds the email. Email is
	// the canonical uniqueness key.
	EmailExists(ctx context.Context, email string) (bool, error)

	CreateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, profile domain.Profile) (domain.Profile, error)
	DeleteProfile(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (domain.Profile, error)
}

package activities

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
	"github.com/identropy/accord/pkg/taxonomy"
)

// Database exposes repository operations as activities.
type Database struct {
	repo   ports.Repository
	inv    ports.Invoker
	logger *slog.Logger
}

// NewDatabase wraps a repository port.
func NewDatabase(repo ports.Repository, inv ports.Invoker, logger *slog.Logger) *Database {
	return &Database{repo: repo, inv: inv, logger: logger}
}

// CreateUser inserts the user row.
func (a *Database) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	a.logger.InfoContext(ctx, "activity: creating user in database", "user_id", user.ID)

	var created domain.User
	err := a.inv.Invoke(ctx, "CreateUserInDatabase", func(ctx context.Context) error {
		var err error
		created, err = a.repo.CreateUser(ctx, user)
		if err != nil {
			return domain.InfraFailure(taxonomy.CodeDatabaseCreateFailed,
				"failed to create user in database",
				map[string]string{"userId": user.ID.String()}, err)
		}
		return nil
	})
	return created, err
}

// UpdateUser overwrites the user row.
func (a *Database) UpdateUser(ctx context.Context, id uuid.UUID, user domain.User) (domain.User, error) {
	a.logger.InfoContext(ctx, "activity: updating user in database", "user_id", id)

	var updated domain.User
	err := a.inv.Invoke(ctx, "UpdateUserInDatabase", func(ctx context.Context) error {
		var err error
		updated, err = a.repo.UpdateUser(ctx, id, user)
		if err != nil {
			return domain.InfraFailure(taxonomy.CodeDatabaseUpdateFailed,
				"failed to update user in database",
				map[string]string{"userId": id.String()}, err)
		}
		return nil
	})
	return updated, err
}

// DeleteUser soft-deletes the user row.
func (a *Database) DeleteUser(ctx context.Context, id uuid.UUID) error {
	a.logger.InfoContext(ctx, "activity: soft-deleting user in database", "user_id", id)

	return a.inv.Invoke(ctx, "DeleteUserFromDatabase", func(ctx context.Context) error {
		if err := a.repo.DeleteUser(ctx, id); err != nil {
			return domain.InfraFailure(taxonomy.CodeDatabaseDeleteFailed,
				"failed to delete user from database",
				map[string]string{"userId": id.String()}, err)
		}
		return nil
	})
}

// GetUser fetches the user row. A missing row is a domain condition, not an
// infrastructure fault.
func (a *Database) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	a.logger.InfoContext(ctx, "activity: fetching user from database", "user_id", id)

	var user domain.User
	err := a.inv.Invoke(ctx, "GetUserFromDatabase", func(ctx context.Context) error {
		var err error
		user, err = a.repo.GetUser(ctx, id)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrNotFound):
			return domain.DomainFailure(taxonomy.CodeUserNotFound, "user not found",
				map[string]string{"userId": id.String()})
		default:
			return domain.InfraFailure(taxonomy.CodeDatabaseGetFailed,
				"failed to get user from database",
				map[string]string{"userId": id.String()}, err)
		}
	})
	return user, err
}

// EmailExists reports whether a live user holds the email.
func (a *Database) EmailExists(ctx context.Context, email string) (bool, error) {
	a.logger.InfoContext(ctx, "activity: checking email uniqueness", "email", email)

	var exists bool
	err := a.inv.Invoke(ctx, "CheckEmailExists", func(ctx context.Context) error {
		var err error
		exists, err = a.repo.EmailExists(ctx, email)
		if err != nil {
			return domain.InfraFailure(taxonomy.CodeDatabaseCheckFailed,
				"failed to check email existence",
				map[string]string{"email": email}, err)
		}
		return nil
	})
	return exists, err
}

// CreateProfile inserts the profile row.
func (a *Database) CreateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	a.logger.InfoContext(ctx, "activity: creating profile in database", "user_id", profile.UserID)

	var created domain.Profile
	err := a.inv.Invoke(ctx, "CreateProfileInDatabase", func(ctx context.Context) error {
		var err error
		created, err = a.repo.CreateProfile(ctx, profile)
		if err != nil {
			return domain.InfraFailure(taxonomy.CodeProfileCreateFailed,
				"failed to create profile in database",
				map[string]string{"userId": profile.UserID.String()}, err)
		}
		return nil
	})
	return created, err
}

// UpdateProfile overwrites the profile row.
func (a *Database) UpdateProfile(ctx context.Context, userID uuid.UUID, profile domain.Profile) (domain.Profile, error) {
	a.logger.InfoContext(ctx, "activity: updating profile in database", "user_id", userID)

	var updated domain.Profile
	err := a.inv.Invoke(ctx, "UpdateProfileInDatabase", func(ctx context.Context) error {
		var err error
		updated, err = a.repo.UpdateProfile(ctx, userID, profile)
		if err != nil {
			return domain.InfraFailure(taxonomy.CodeProfileUpdateFailed,
				"failed to update profile in database",
				map[string]string{"userId": userID.String()}, err)
		}
		return nil
	})
	return updated, err
}

// DeleteProfile removes the profile row.
func (a *Database) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	a.logger.InfoContext(ctx, "activity: deleting profile from database", "user_id", userID)

	return a.inv.Invoke(ctx, "DeleteProfileFromDatabase", func(ctx context.Context) error {
		if err := a.repo.DeleteProfile(ctx, userID); err != nil {
			return domain.InfraFailure(taxonomy.CodeProfileDeleteFailed,
				"failed to delete profile from database",
				map[string]string{"userId": userID.String()}, err)
		}
		return nil
	})
}

// GetProfile fetches the profile row, nil result when absent.
func (a *Database) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	a.logger.InfoContext(ctx, "activity: fetching profile from database", "user_id", userID)

	var profile *domain.Profile
	err := a.inv.Invoke(ctx, "GetProfileFromDatabase", func(ctx context.Context) error {
		p, err := a.repo.GetProfile(ctx, userID)
		switch {
		case err == nil:
			profile = &p
			return nil
		case errors.Is(err, domain.ErrNotFound):
			// Users without a profile are legal; the read model reports nil.
			return nil
		default:
			return domain.InfraFailure(taxonomy.CodeProfileGetFailed,
				"failed to get profile from database",
				map[string]string{"userId": userID.String()}, err)
		}
	})
	return profile, err
}

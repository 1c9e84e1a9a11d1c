package flows

import (
	"context"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
	"github.com/identropy/accord/pkg/taxonomy"
)

// Update applies a partial update to the database row and the directory
// account, holding pre-update snapshots for rollback. A password change, when
// requested, is last: it cannot be reversed, so nothing that can fail should
// run after it.
func Update(ctx context.Context, deps Deps, id string, req domain.UpdateUserRequest) (domain.Result[domain.User], error) {
	deps.Logger.InfoContext(ctx, "starting user update flow", "user_id", id)

	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.Err[domain.User](taxonomy.CodeApplicationFailure,
			map[string]string{"userId": id, "error": "invalid user id"}), nil
	}

	// Read the current row first; it is both the existence check and the
	// rollback snapshot.
	current, err := deps.Database.GetUser(ctx, userID)
	if err != nil {
		return reject[domain.User](err)
	}

	// Email uniqueness applies only when the email actually changes.
	if req.Email != nil && *req.Email != current.Email {
		exists, err := deps.Database.EmailExists(ctx, *req.Email)
		if err != nil {
			return reject[domain.User](err)
		}
		if exists {
			deps.Logger.WarnContext(ctx, "email already in use", "email", *req.Email)
			return domain.Err[domain.User](taxonomy.CodeUserAlreadyExists,
				map[string]string{"email": *req.Email}), nil
		}
	}

	s := deps.newSaga("user.update")

	if req.TouchesAttributes() {
		snapshot := current.Clone()
		updated := current.Clone()
		if req.Email != nil {
			updated.Email = *req.Email
		}
		if req.FirstName != nil {
			updated.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			updated.LastName = *req.LastName
		}

		err = s.Step(ctx, "update-database-user", func(ctx context.Context) error {
			_, err := deps.Database.UpdateUser(ctx, userID, updated)
			return err
		})
		if err != nil {
			return conclude[domain.User](ctx, s, err)
		}
		s.AddCompensation("update-database-user", func(ctx context.Context) error {
			_, err := deps.Database.UpdateUser(ctx, userID, snapshot)
			return err
		})

		var accountSnapshot ports.Account
		err = s.Step(ctx, "update-directory-account", func(ctx context.Context) error {
			account, err := deps.Directory.GetAccount(ctx, current.DirectoryID)
			if err != nil {
				return err
			}
			accountSnapshot = account

			if req.Email != nil {
				account.Email = *req.Email
			}
			if req.FirstName != nil {
				account.FirstName = *req.FirstName
			}
			if req.LastName != nil {
				account.LastName = *req.LastName
			}
			return deps.Directory.UpdateAccount(ctx, current.DirectoryID, account)
		})
		if err != nil {
			return conclude[domain.User](ctx, s, err)
		}
		s.AddCompensation("update-directory-account", func(ctx context.Context) error {
			return deps.Directory.UpdateAccount(ctx, current.DirectoryID, accountSnapshot)
		})
	}

	if req.Password != nil {
		err = s.Step(ctx, "set-directory-password", func(ctx context.Context) error {
			return deps.Directory.SetPassword(ctx, current.DirectoryID, *req.Password)
		})
		if err != nil {
			return conclude[domain.User](ctx, s, err)
		}
		// The previous credential is unrecoverable. The reversal is a
		// deliberate no-op that records the gap instead of leaving it silent.
		s.AddCompensation("set-directory-password", func(ctx context.Context) error {
			deps.Logger.WarnContext(ctx, "password change cannot be rolled back",
				"user_id", userID)
			return nil
		})
	}

	refreshed, err := deps.Database.GetUser(ctx, userID)
	if err != nil {
		return conclude[domain.User](ctx, s, err)
	}

	s.Succeed()
	deps.Logger.InfoContext(ctx, "user update flow completed",
		"user_id", userID, "email", refreshed.Email)
	return domain.OK(refreshed), nil
}

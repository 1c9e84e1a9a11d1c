package flows

import (
	"context"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/taxonomy"
)

// Delete retires a user: the directory account is disabled first so logins
// stop immediately, then the database row is soft-deleted. Rolling back
// re-enables the account and clears the deletion mark.
func Delete(ctx context.Context, deps Deps, id string) (domain.Result[struct{}], error) {
	deps.Logger.InfoContext(ctx, "starting user delete flow", "user_id", id)

	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.Err[struct{}](taxonomy.CodeApplicationFailure,
			map[string]string{"userId": id, "error": "invalid user id"}), nil
	}

	user, err := deps.Database.GetUser(ctx, userID)
	if err != nil {
		return reject[struct{}](err)
	}

	s := deps.newSaga("user.delete")

	err = s.Step(ctx, "disable-directory-account", func(ctx context.Context) error {
		return deps.Directory.DisableAccount(ctx, user.DirectoryID)
	})
	if err != nil {
		return conclude[struct{}](ctx, s, err)
	}
	s.AddCompensation("disable-directory-account", func(ctx context.Context) error {
		account, err := deps.Directory.GetAccount(ctx, user.DirectoryID)
		if err != nil {
			return err
		}
		account.Enabled = true
		return deps.Directory.UpdateAccount(ctx, user.DirectoryID, account)
	})

	err = s.Step(ctx, "soft-delete-database-user", func(ctx context.Context) error {
		return deps.Database.DeleteUser(ctx, userID)
	})
	if err != nil {
		return conclude[struct{}](ctx, s, err)
	}
	s.AddCompensation("soft-delete-database-user", func(ctx context.Context) error {
		restored, err := deps.Database.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		restored.Deleted = false
		restored.DeletedAt = nil
		_, err = deps.Database.UpdateUser(ctx, userID, restored)
		return err
	})

	s.Succeed()
	deps.Logger.InfoContext(ctx, "user delete flow completed", "user_id", userID)
	return domain.OK(struct{}{}), nil
}

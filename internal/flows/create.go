package flows

import (
	"context"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
	"github.com/identropy/accord/pkg/taxonomy"
)

// Create provisions a user in the identity provider and the database with
// all-or-nothing semantics. Steps, in order: create the directory account,
// insert the user row, insert an empty profile row, grant the default client
// role. Each step's reversal is registered only after the step succeeds.
func Create(ctx context.Context, deps Deps, req domain.CreateUserRequest) (domain.Result[string], error) {
	deps.Logger.InfoContext(ctx, "starting user create flow",
		"user_id", req.UserID, "email", req.Email)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return domain.Err[string](taxonomy.CodeApplicationFailure,
			map[string]string{"userId": req.UserID, "error": "invalid user id"}), nil
	}

	// Validation precedes saga construction: an existing email fails the flow
	// before any side effect, so there is nothing to compensate.
	exists, err := deps.Database.EmailExists(ctx, req.Email)
	if err != nil {
		return reject[string](err)
	}
	if exists {
		deps.Logger.WarnContext(ctx, "email already in use", "email", req.Email)
		return domain.Err[string](taxonomy.CodeUserAlreadyExists, map[string]string{
			"email":    req.Email,
			"username": req.Username,
		}), nil
	}

	s := deps.newSaga("user.create")

	// Step 1: directory account.
	var accountID string
	err = s.Step(ctx, "create-directory-account", func(ctx context.Context) error {
		var err error
		accountID, err = deps.Directory.CreateAccount(ctx, ports.Account{
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Enabled:   true,
		}, req.Password)
		return err
	})
	if err != nil {
		return conclude[string](ctx, s, err)
	}
	s.AddCompensation("create-directory-account", func(ctx context.Context) error {
		return deps.Directory.DeleteAccount(ctx, accountID)
	})

	// Step 2: database row.
	err = s.Step(ctx, "create-database-user", func(ctx context.Context) error {
		_, err := deps.Database.CreateUser(ctx, domain.User{
			ID:          userID,
			Username:    req.Username,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DirectoryID: accountID,
		})
		return err
	})
	if err != nil {
		return conclude[string](ctx, s, err)
	}
	s.AddCompensation("create-database-user", func(ctx context.Context) error {
		return deps.Database.DeleteUser(ctx, userID)
	})

	// Step 3: empty profile row.
	err = s.Step(ctx, "create-database-profile", func(ctx context.Context) error {
		_, err := deps.Database.CreateProfile(ctx, domain.Profile{UserID: userID})
		return err
	})
	if err != nil {
		return conclude[string](ctx, s, err)
	}
	s.AddCompensation("create-database-profile", func(ctx context.Context) error {
		return deps.Database.DeleteProfile(ctx, userID)
	})

	// Step 4: default client role.
	err = s.Step(ctx, "assign-default-role", func(ctx context.Context) error {
		return deps.Directory.AssignClientRole(ctx, accountID, deps.ClientID, deps.DefaultRole)
	})
	if err != nil {
		return conclude[string](ctx, s, err)
	}
	s.AddCompensation("assign-default-role", func(ctx context.Context) error {
		return deps.Directory.RemoveClientRole(ctx, accountID, deps.ClientID, deps.DefaultRole)
	})

	s.Succeed()
	deps.Logger.InfoContext(ctx, "user create flow completed", "user_id", userID)
	return domain.OK(userID.String()), nil
}

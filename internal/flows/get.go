package flows

import (
	"context"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/taxonomy"
)

// Get assembles the user read model. Reads have no side effects, so there is
// no saga; failures map straight through the taxonomy.
func Get(ctx context.Context, deps Deps, id string) (domain.Result[domain.UserWithProfile], error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.Err[domain.UserWithProfile](taxonomy.CodeApplicationFailure,
			map[string]string{"userId": id, "error": "invalid user id"}), nil
	}

	user, err := deps.Database.GetUser(ctx, userID)
	if err != nil {
		return reject[domain.UserWithProfile](err)
	}
	if user.Deleted {
		return domain.Err[domain.UserWithProfile](taxonomy.CodeUserNotFound,
			map[string]string{"userId": id}), nil
	}

	profile, err := deps.Database.GetProfile(ctx, userID)
	if err != nil {
		return reject[domain.UserWithProfile](err)
	}

	return domain.OK(domain.UserWithProfile{User: user, Profile: profile}), nil
}

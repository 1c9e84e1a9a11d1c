package ports

import "context"

// Account is the identity provider's view of a user.
type Account struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Enabled   bool
}

// Directory is the external identity-provider account store. Every call is an
// idempotent-contracted activity: implementations must tolerate retries of the
// same logical operation. Adapters signal business conditions with the domain
// sentinel errors (ErrNotFound, ErrConflict, ErrPermissionDenied).
type Directory interface {
	// CreateAccount provisions an account with an initial credential and
	// returns the provider-assigned account ID.
	CreateAccount(ctx context.Context, account Account, password string) (string, error)

	// UpdateAccount overwrites the account's profile attributes.
	UpdateAccount(ctx context.Context, id string, account Account) error

	// DeleteAccount removes the account permanently.
	DeleteAccount(ctx context.Context, id string) error

	// GetAccount fetches an account by provider ID.
	GetAccount(ctx context.Context, id string) (Account, error)

	// DisableAccount blocks logins without deleting the account.
	DisableAccount(ctx context.Context, id string) error

	// SetPassword replaces the account credential. The previous credential is
	// unrecoverable; there is no inverse operation.
	SetPassword(ctx context.Context, id, password string) error

	// AssignClientRole grants a client-scoped role to the account.
	AssignClientRole(ctx context.Context, accountID, clientID, role string) error

	// RemoveClientRole revokes a client-scoped role from the account.
	RemoveClientRole(ctx context.Context, accountID, clientID, role string) error
}

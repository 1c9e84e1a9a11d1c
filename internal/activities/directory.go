// Package activities wraps the external collaborators as named, retryable
// activities. Each call runs under the invoker's policy and converts adapter
// errors into tagged failures so the taxonomy can decide the flow-facing
// outcome. Business conditions (not found, conflict, permission denied)
// become domain failures; everything else is infrastructure and retryable.
package activities

import (
	"context"
	"errors"
	"log/slog"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
	"github.com/identropy/accord/pkg/taxonomy"
)

// Directory exposes identity-provider operations as activities.
type Directory struct {
	dir    ports.Directory
	inv    ports.Invoker
	logger *slog.Logger
}

// NewDirectory wraps a directory port.
func NewDirectory(dir ports.Directory, inv ports.Invoker, logger *slog.Logger) *Directory {
	return &Directory{dir: dir, inv: inv, logger: logger}
}

// CreateAccount provisions the account and returns the provider-assigned ID.
func (a *Directory) CreateAccount(ctx context.Context, account ports.Account, password string) (string, error) {
	a.logger.InfoContext(ctx, "activity: creating directory account", "email", account.Email)

	var id string
	err := a.inv.Invoke(ctx, "CreateDirectoryAccount", func(ctx context.Context) error {
		var err error
		id, err = a.dir.CreateAccount(ctx, account, password)
		if err != nil {
			return domain.InfraFailure(taxonomy.CodeDirectoryCreateFailed,
				"failed to create directory account",
				map[string]string{"email": account.Email}, err)
		}
		return nil
	})
	return id, err
}

// UpdateAccount overwrites the account attributes.
func (a *Directory) UpdateAccount(ctx context.Context, id string, account ports.Account) error {
	a.logger.InfoContext(ctx, "activity: updating directory account", "account_id", id)

	return a.inv.Invoke(ctx, "UpdateDirectoryAccount", func(ctx context.Context) error {
		if err := a.dir.UpdateAccount(ctx, id, account); err != nil {
			return domain.InfraFailure(taxonomy.CodeDirectoryUpdateFailed,
				"failed to update directory account",
				map[string]string{"accountId": id}, err)
		}
		return nil
	})
}

// DeleteAccount removes the account permanently.
func (a *Directory) DeleteAccount(ctx context.Context, id string) error {
	a.logger.InfoContext(ctx, "activity: deleting directory account", "account_id", id)

	return a.inv.Invoke(ctx, "DeleteDirectoryAccount", func(ctx context.Context) error {
		if err := a.dir.DeleteAccount(ctx, id); err != nil {
			return domain.InfraFailure(taxonomy.CodeDirectoryDeleteFailed,
				"failed to delete directory account",
				map[string]string{"accountId": id}, err)
		}
		return nil
	})
}

// DisableAccount blocks logins for the account.
func (a *Directory) DisableAccount(ctx context.Context, id string) error {
	a.logger.InfoContext(ctx, "activity: disabling directory account", "account_id", id)

	return a.inv.Invoke(ctx, "DisableDirectoryAccount", func(ctx context.Context) error {
		if err := a.dir.DisableAccount(ctx, id); err != nil {
			return domain.InfraFailure(taxonomy.CodeDirectoryDisableFailed,
				"failed to disable directory account",
				map[string]string{"accountId": id}, err)
		}
		return nil
	})
}

// GetAccount fetches the account by provider ID.
func (a *Directory) GetAccount(ctx context.Context, id string) (ports.Account, error) {
	a.logger.InfoContext(ctx, "activity: fetching directory account", "account_id", id)

	var account ports.Account
	err := a.inv.Invoke(ctx, "GetDirectoryAccount", func(ctx context.Context) error {
		var err error
		account, err = a.dir.GetAccount(ctx, id)
		if err != nil {
			return domain.InfraFailure(taxonomy.CodeDirectoryGetFailed,
				"failed to get directory account",
				map[string]string{"accountId": id}, err)
		}
		return nil
	})
	return account, err
}

// SetPassword replaces the account credential. The previous credential cannot
// be recovered, so callers must not register a compensation for this step.
func (a *Directory) SetPassword(ctx context.Context, id, password string) error {
	a.logger.InfoContext(ctx, "activity: setting directory password", "account_id", id)

	return a.inv.Invoke(ctx, "SetDirectoryPassword", func(ctx context.Context) error {
		if err := a.dir.SetPassword(ctx, id, password); err != nil {
			return domain.InfraFailure(taxonomy.CodeDirectoryUpdateFailed,
				"failed to set directory password",
				map[string]string{"accountId": id}, err)
		}
		return nil
	})
}

// AssignClientRole grants a client-scoped role to the account.
func (a *Directory) AssignClientRole(ctx context.Context, accountID, clientID, role string) error {
	a.logger.InfoContext(ctx, "activity: assigning client role",
		"account_id", accountID, "client_id", clientID, "role", role)

	return a.inv.Invoke(ctx, "AssignClientRole", func(ctx context.Context) error {
		err := a.dir.AssignClientRole(ctx, accountID, clientID, role)
		if err == nil {
			return nil
		}

		details := map[string]string{
			"accountId": accountID,
			"clientId":  clientID,
			"roleName":  role,
		}
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.DomainFailure(taxonomy.CodeRoleNotFound, "role not found", details)
		case errors.Is(err, domain.ErrPermissionDenied):
			return domain.DomainFailure(taxonomy.CodeDirectoryPermissionDenied,
				"not allowed to assign role", details)
		default:
			return domain.InfraFailure(taxonomy.CodeDirectoryRoleFailed,
				"failed to assign client role", details, err)
		}
	})
}

// RemoveClientRole revokes a client-scoped role from the account.
func (a *Directory) RemoveClientRole(ctx context.Context, accountID, clientID, role string) error {
	a.logger.InfoContext(ctx, "activity: removing client role",
		"account_id", accountID, "client_id", clientID, "role", role)

	return a.inv.Invoke(ctx, "RemoveClientRole", func(ctx context.Context) error {
		if err := a.dir.RemoveClientRole(ctx, accountID, clientID, role); err != nil {
			return domain.InfraFailure(taxonomy.CodeDirectoryRoleFailed,
				"failed to remove client role",
				map[string]string{"accountId": accountID, "clientId": clientID, "roleName": role}, err)
		}
		return nil
	})
}

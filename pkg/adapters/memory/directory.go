package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
)

// Directory implements ports.Directory in memory. Safe for concurrent use.
type Directory struct {
	mu        sync.RWMutex
	accounts  map[string]ports.Account
	passwords map[string]string
	// roles is keyed accountID -> "clientID/role".
	roles map[string]map[string]bool
	// knownRoles are the client roles that may be assigned; assigning anything
	// else reports domain.ErrNotFound like a real provider would.
	knownRoles map[string]bool
}

// NewDirectory creates an in-memory identity provider holding the given
// client roles ("clientID/role").
func NewDirectory(knownRoles ...string) *Directory {
	known := make(map[string]bool, len(knownRoles))
	for _, r := range knownRoles {
		known[r] = true
	}
	return &Directory{
		accounts:   make(map[string]ports.Account),
		passwords:  make(map[string]string),
		roles:      make(map[string]map[string]bool),
		knownRoles: known,
	}
}

func (d *Directory) CreateAccount(ctx context.Context, account ports.Account, password string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.accounts {
		if existing.Email == account.Email {
			return "", fmt.Errorf("email %s: %w", account.Email, domain.ErrConflict)
		}
	}

	id := uuid.NewString()
	account.ID = id
	account.Enabled = true
	d.accounts[id] = account
	d.passwords[id] = password
	return id, nil
}

func (d *Directory) UpdateAccount(ctx context.Context, id string, account ports.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	account.ID = id
	d.accounts[id] = account
	return nil
}

func (d *Directory) DeleteAccount(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Deleting an absent account is a no-op: the call is idempotent under
	// saga compensation retries.
	delete(d.accounts, id)
	delete(d.passwords, id)
	delete(d.roles, id)
	return nil
}

func (d *Directory) GetAccount(ctx context.Context, id string) (ports.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	account, ok := d.accounts[id]
	if !ok {
		return ports.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return account, nil
}

func (d *Directory) DisableAccount(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	account, ok := d.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	account.Enabled = false
	d.accounts[id] = account
	return nil
}

func (d *Directory) SetPassword(ctx context.Context, id, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	d.passwords[id] = password
	return nil
}

func (d *Directory) AssignClientRole(ctx context.Context, accountID, clientID, role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[accountID]; !ok {
		return fmt.Errorf("account %s: %w", accountID, domain.ErrNotFound)
	}
	key := clientID + "/" + role
	if !d.knownRoles[key] {
		return fmt.Errorf("role %s: %w", key, domain.ErrNotFound)
	}
	if d.roles[accountID] == nil {
		d.roles[accountID] = make(map[string]bool)
	}
	d.roles[accountID][key] = true
	return nil
}

func (d *Directory) RemoveClientRole(ctx context.Context, accountID, clientID, role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.roles[accountID], clientID+"/"+role)
	return nil
}

// HasRole reports whether the account holds the client role. Test helper.
func (d *Directory) HasRole(accountID, clientID, role string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.roles[accountID][clientID+"/"+role]
}

// AccountCount reports the number of provisioned accounts. Test helper.
func (d *Directory) AccountCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

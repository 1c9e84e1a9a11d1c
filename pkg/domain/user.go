package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the relational-database record for an identity. DirectoryID links it
// to the account held by the external identity provider.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	DirectoryID string     `json:"directoryId"`
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy, used to capture rollback snapshots before updates.
func (u User) Clone() User {
	clone := u
	if u.DeletedAt != nil {
		t := *u.DeletedAt
		clone.DeletedAt = &t
	}
	return clone
}

// Profile is the auxiliary per-user record kept alongside the User row.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	HeightCm  *float64   `json:"heightCm,omitempty"`
	WeightKg  *float64   `json:"weightKg,omitempty"`
	Timezone  string     `json:"timezone,omitempty"`
	Locale    string     `json:"locale,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	clone := p
	if p.Birthdate != nil {
		t := *p.Birthdate
		clone.Birthdate = &t
	}
	if p.HeightCm != nil {
		v := *p.HeightCm
		clone.HeightCm = &v
	}
	if p.WeightKg != nil {
		v := *p.WeightKg
		clone.WeightKg = &v
	}
	return clone
}

// CreateUserRequest is the input to the create flow.
type CreateUserRequest struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// UpdateUserRequest is the input to the update flow. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"-"`
}

// Empty reports whether the request changes nothing.
func (r UpdateUserRequest) Empty() bool {
	return r.Email == nil && r.FirstName == nil && r.LastName == nil && r.Password == nil
}

// TouchesAttributes reports whether any non-credential attribute changes.
func (r UpdateUserRequest) TouchesAttributes() bool {
	return r.Email != nil || r.FirstName != nil || r.LastName != nil
}

// UserWithProfile is the read model returned by the get flow.
type UserWithProfile struct {
	User    User     `json:"user"`
	Profile *Profile `json:"profile,omitempty"`
}

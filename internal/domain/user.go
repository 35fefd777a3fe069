package domain

import "time"

// UserRole grants nothing beyond labelling; ownership checks do not consult it.
type UserRole string

const (
	UserRoleMember UserRole = "Member"
	UserRoleAdmin  UserRole = "Admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == UserRoleMember || r == UserRoleAdmin
}

// UserStatus represents lifecycle states for a user.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inActive"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// Defaults applied when a user is created without explicit values.
const (
	DefaultUserRole   = UserRoleMember
	DefaultUserStatus = UserStatusActive
)

// User is a person who owns tasks and authors comments.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref returns the public projection used when a user is embedded in another record.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserRef is a populated reference: id plus display fields.
// Name and Email are empty when the referenced user no longer exists.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

package domain

import "fmt"

// User is the resolved identity of an actor, as returned by an identity resolver.
type User struct {
	// ID is the internal user id.
	ID string `json:"id" validate:"required,min=1"`

	// Email may be empty when the directory has no address for the user.
	Email string `json:"email,omitempty" validate:"omitempty,email"`

	DisplayName string `json:"display_name,omitempty"`
}

// HasEmail reports whether the user has a usable email address.
func (u *User) HasEmail() bool { return u != nil && u.Email != "" }

// String returns a human-readable representation of the user.
func (u User) String() string { return fmt.Sprintf("user:%s", u.ID) }

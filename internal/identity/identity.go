// Package identity resolves the acting user for the evaluation rules.
// The rules only need three answers: who is acting, whether a user is an
// administrator, and what a user's directory entry looks like.
package identity

import (
	"sync"

	"github.com/ahrav/go-evalrules/internal/domain"
)

// Resolver answers identity questions about the current actor.
type Resolver interface {
	// CurrentUserID returns the id of the acting user, or "" when anonymous.
	CurrentUserID() string

	// IsUserAdmin reports whether userID has administrative rights.
	IsUserAdmin(userID string) bool

	// UserByID looks up a user. The second result is false when the id is unknown.
	UserByID(id string) (*domain.User, bool)
}

// IsCurrentUserAdmin reports whether the acting user is an administrator.
// A nil resolver or an anonymous actor is never an administrator.
func IsCurrentUserAdmin(r Resolver) bool {
	if r == nil {
		return false
	}
	id := r.CurrentUserID()
	if id == "" {
		return false
	}
	return r.IsUserAdmin(id)
}

// CurrentUser returns the acting user's directory entry, if any.
func CurrentUser(r Resolver) (*domain.User, bool) {
	if r == nil {
		return nil, false
	}
	id := r.CurrentUserID()
	if id == "" {
		return nil, false
	}
	return r.UserByID(id)
}

// CheckUserPermission reports whether userID may control an evaluation owned
// by ownerID: administrators always may, everyone else only for their own.
func CheckUserPermission(r Resolver, userID, ownerID string) bool {
	if userID == "" {
		return false
	}
	if r != nil && r.IsUserAdmin(userID) {
		return true
	}
	return userID == ownerID
}

// Actor is a Resolver fixed to one already-resolved user. It is what workflow
// code uses once an activity has looked the actor up.
type Actor struct {
	User  domain.User `json:"user"`
	Admin bool        `json:"admin"`
}

// CurrentUserID implements Resolver.
func (a Actor) CurrentUserID() string { return a.User.ID }

// IsUserAdmin implements Resolver. Only the actor's own admin flag is known.
func (a Actor) IsUserAdmin(userID string) bool {
	return a.Admin && userID != "" && userID == a.User.ID
}

// UserByID implements Resolver. Only the actor can be looked up.
func (a Actor) UserByID(id string) (*domain.User, bool) {
	if id == "" || id != a.User.ID {
		return nil, false
	}
	u := a.User
	return &u, true
}

// Directory is an in-memory Resolver safe for concurrent use.
type Directory struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	admins  map[string]struct{}
	current string
}

// NewDirectory creates an empty directory with no current user.
func NewDirectory() *Directory {
	return &Directory{
		users:  make(map[string]domain.User),
		admins: make(map[string]struct{}),
	}
}

// AddUser stores u, replacing any entry with the same id.
func (d *Directory) AddUser(u domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// SetAdmin grants or revokes administrative rights for userID.
func (d *Directory) SetAdmin(userID string, admin bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if admin {
		d.admins[userID] = struct{}{}
		return
	}
	delete(d.admins, userID)
}

// SetCurrentUser makes userID the acting user.
func (d *Directory) SetCurrentUser(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = userID
}

// CurrentUserID implements Resolver.
func (d *Directory) CurrentUserID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// IsUserAdmin implements Resolver.
func (d *Directory) IsUserAdmin(userID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.admins[userID]
	return ok
}

// UserByID implements Resolver.
func (d *Directory) UserByID(id string) (*domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return nil, false
	}
	return &u, true
}

// Resolve returns the acting user as an Actor. When the current user has no
// directory entry the actor carries the bare id.
func (d *Directory) Resolve() Actor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[d.current]
	if !ok {
		u = domain.User{ID: d.current}
	}
	_, admin := d.admins[d.current]
	return Actor{User: u, Admin: admin && d.current != ""}
}

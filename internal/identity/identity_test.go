package identity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-evalrules/internal/domain"
)

func newTestDirectory() *Directory {
	d := NewDirectory()
	d.AddUser(domain.User{ID: "admin", Email: "admin@example.edu"})
	d.AddUser(domain.User{ID: "owner", Email: "owner@example.edu"})
	d.AddUser(domain.User{ID: "other"})
	d.SetAdmin("admin", true)
	return d
}

func TestCheckUserPermission(t *testing.T) {
	d := newTestDirectory()

	tests := []struct {
		name    string
		userID  string
		ownerID string
		want    bool
	}{
		{"admin on someone else's evaluation", "admin", "owner", true},
		{"owner on own evaluation", "owner", "owner", true},
		{"non-owner", "other", "owner", false},
		{"anonymous", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckUserPermission(d, tt.userID, tt.ownerID))
		})
	}

	assert.True(t, CheckUserPermission(nil, "owner", "owner"), "nil resolver still allows owners")
	assert.False(t, CheckUserPermission(nil, "admin", "owner"))
}

func TestIsCurrentUserAdmin(t *testing.T) {
	d := newTestDirectory()
	assert.False(t, IsCurrentUserAdmin(d), "anonymous actor")

	d.SetCurrentUser("admin")
	assert.True(t, IsCurrentUserAdmin(d))

	d.SetAdmin("admin", false)
	assert.False(t, IsCurrentUserAdmin(d))

	assert.False(t, IsCurrentUserAdmin(nil))
}

func TestCurrentUser(t *testing.T) {
	d := newTestDirectory()

	_, ok := CurrentUser(d)
	assert.False(t, ok)

	d.SetCurrentUser("owner")
	u, ok := CurrentUser(d)
	require.True(t, ok)
	assert.Equal(t, "owner@example.edu", u.Email)

	d.SetCurrentUser("ghost")
	_, ok = CurrentUser(d)
	assert.False(t, ok)
}

func TestDirectory_ReturnsCopies(t *testing.T) {
	d := newTestDirectory()

	u, ok := d.UserByID("owner")
	require.True(t, ok)
	u.Email = "changed@example.edu"

	again, _ := d.UserByID("owner")
	assert.Equal(t, "owner@example.edu", again.Email)
}

func TestDirectory_Resolve(t *testing.T) {
	d := newTestDirectory()
	d.SetCurrentUser("admin")

	actor := d.Resolve()
	assert.Equal(t, "admin@example.edu", actor.User.Email)
	assert.True(t, actor.Admin)

	d.SetCurrentUser("unlisted")
	actor = d.Resolve()
	assert.Equal(t, "unlisted", actor.User.ID)
	assert.Empty(t, actor.User.Email)
	assert.False(t, actor.Admin)
}

func TestActor(t *testing.T) {
	a := Actor{User: domain.User{ID: "u1", Email: "u1@example.edu"}, Admin: true}

	assert.Equal(t, "u1", a.CurrentUserID())
	assert.True(t, a.IsUserAdmin("u1"))
	assert.False(t, a.IsUserAdmin("u2"))
	assert.True(t, IsCurrentUserAdmin(a))

	u, ok := a.UserByID("u1")
	require.True(t, ok)
	assert.Equal(t, "u1@example.edu", u.Email)

	_, ok = a.UserByID("u2")
	assert.False(t, ok)

	anon := Actor{Admin: true}
	assert.False(t, IsCurrentUserAdmin(anon))
}

func TestDirectory_ConcurrentAccess(t *testing.T) {
	d := newTestDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			d.SetAdmin("other", i%2 == 0)
			d.SetCurrentUser("other")
		}(i)
		go func() {
			defer wg.Done()
			_ = IsCurrentUserAdmin(d)
			_, _ = CurrentUser(d)
		}()
	}
	wg.Wait()
}

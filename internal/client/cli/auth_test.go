package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f, "")
	stubInputs(t, []string{"alice", "alice@example.org"}, []byte("secret"))

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "alice", f.regUser)
	assert.Equal(t, "alice@example.org", f.regEmail)
	assert.Equal(t, "secret", string(f.regPass))
	assert.Contains(t, out.String(), "Registered alice <alice@example.org>")
}

func TestRegister_WipesPassword(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f, "")
	pw := []byte("secret")
	stubInputs(t, []string{"alice", "a@x.io"}, pw)

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, make([]byte, len(pw)), pw)
}

func TestRegister_Conflict(t *testing.T) {
	f := &fakeAuth{regErr: fmt.Errorf("%w: username or email is already taken", client.ErrConflict)}
	a, out := newTestApp(f, "")
	stubInputs(t, []string{"alice", "a@x.io"}, []byte("pw"))

	err := a.Register(context.Background())
	assert.ErrorIs(t, err, client.ErrConflict)
	assert.Contains(t, out.String(), "already taken")
}

func TestRegister_InputError(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f, "")
	stubInputs(t, nil, nil)

	assert.Error(t, a.Register(context.Background()))
	assert.Empty(t, f.regUser)
}

func TestLogin(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f, "")
	stubInputs(t, []string{"bob"}, []byte("pw"))

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "bob", f.loginUser)
	assert.Equal(t, "pw", string(f.loginPass))
	assert.Contains(t, out.String(), "Logged in as bob")
	assert.True(t, a.isLoggedIn())
}

func TestLogin_Unauthorized(t *testing.T) {
	f := &fakeAuth{loginErr: fmt.Errorf("%w: invalid username or password", client.ErrUnauthorized)}
	a, out := newTestApp(f, "")
	stubInputs(t, []string{"bob"}, []byte("bad"))

	assert.ErrorIs(t, a.Login(context.Background()), client.ErrUnauthorized)
	assert.Contains(t, out.String(), "invalid username or password")
	assert.False(t, a.isLoggedIn())
}

func TestLogout(t *testing.T) {
	f := &fakeAuth{loggedUser: "bob"}
	a, out := newTestApp(f, "")

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, f.logoutCalled)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Logged out")
}

func TestLogout_ErrorPropagates(t *testing.T) {
	f := &fakeAuth{logoutErr: errors.New("disk")}
	a, _ := newTestApp(f, "")
	assert.Error(t, a.Logout(context.Background()))
}

func TestProfileAndProtected(t *testing.T) {
	f := &fakeAuth{loggedUser: "bob", profile: "bob", protected: "This is a protected endpoint!"}
	a, out := newTestApp(f, "")

	require.NoError(t, a.Profile(context.Background()))
	require.NoError(t, a.Protected(context.Background()))
	assert.Contains(t, out.String(), "Username: bob")
	assert.Contains(t, out.String(), "This is a protected endpoint!")
}

func TestProtected_NotLoggedIn(t *testing.T) {
	f := &fakeAuth{callErr: services.ErrNotLoggedIn}
	a, out := newTestApp(f, "")

	assert.ErrorIs(t, a.Protected(context.Background()), services.ErrNotLoggedIn)
	assert.Contains(t, out.String(), "You are not logged in.")
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{services.ErrNotLoggedIn, "You are not logged in."},
		{fmt.Errorf("%w: token expired", client.ErrUnauthorized), "Not authorized: unauthorized: token expired"},
		{client.ErrConflict, "Rejected: conflict"},
		{client.ErrBadRequest, "Invalid input: bad request"},
		{client.ErrUnavailable, "Server is unavailable, try again later."},
		{errors.New("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeError(tt.err))
	}
}

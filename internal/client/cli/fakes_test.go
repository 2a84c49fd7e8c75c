package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

func stubInputs(t *testing.T, lines []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(lines) {
			return "", io.EOF
		}
		i++
		return lines[i-1], nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	mu sync.Mutex

	regUser, regEmail string
	regPass           []byte
	regErr            error

	loginUser string
	loginPass []byte
	loginErr  error

	restoreOK  bool
	restoreErr error

	logoutCalled bool
	logoutErr    error

	profile    string
	protected  string
	callErr    error
	pingErr    error
	pings      int
	closed     bool
	loggedUser string
}

func (f *fakeAuth) Register(_ context.Context, username, email string, password []byte) (*client.User, error) {
	f.regUser, f.regEmail, f.regPass = username, email, append([]byte(nil), password...)
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &client.User{ID: "1", Username: username, Email: email}, nil
}

func (f *fakeAuth) Login(_ context.Context, username string, password []byte) (*client.Session, error) {
	f.loginUser, f.loginPass = username, append([]byte(nil), password...)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.loggedUser = username
	return &client.Session{Token: "tok"}, nil
}

func (f *fakeAuth) Restore(context.Context) (bool, error) {
	if f.restoreOK {
		f.loggedUser = "saved"
	}
	return f.restoreOK, f.restoreErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	f.loggedUser = ""
	return f.logoutErr
}

func (f *fakeAuth) Profile(context.Context) (string, error)   { return f.profile, f.callErr }
func (f *fakeAuth) Protected(context.Context) (string, error) { return f.protected, f.callErr }
func (f *fakeAuth) Username() string                          { return f.loggedUser }
func (f *fakeAuth) IsLoggedIn() bool                          { return f.loggedUser != "" }

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeAuth) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *fakeAuth) Close() error { f.closed = true; return nil }

func newTestApp(f *fakeAuth, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		authService: f,
		logger:      logging.Nop{},
		reader:      bufio.NewReader(strings.NewReader(input)),
		out:         &out,
	}, &out
}

package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/config"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSetMode(t *testing.T) {
	a, _ := newTestApp(&fakeAuth{}, "")

	a.setMode(context.Background(), ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode())

	a.setMode(context.Background(), ModeOffline)
	assert.Equal(t, ModeOffline, a.Mode())
}

func TestCheckOnline(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f, "")

	a.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, a.Mode())

	f.pingErr = errors.New("down")
	a.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, a.Mode())
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &fakeAuth{}
	a, _ := newTestApp(f, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.pingCount() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, ModeOnline, a.Mode())
}

func TestGetStatus(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f, "")
	assert.Equal(t, "", a.getStatus())

	f.loggedUser = "alice"
	assert.Equal(t, "(alice)", a.getStatus())

	a.setMode(context.Background(), ModeOnline)
	assert.Equal(t, "(alice online)", a.getStatus())
}

func TestNewApp_CreatesLocalDatabase(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.LocalDBPath = filepath.Join(t.TempDir(), "cli.db")

	a, err := NewApp(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	assert.False(t, a.isLoggedIn())
	assert.NoError(t, a.authService.Close())
	assert.NoError(t, a.db.Close())
}

func TestNewApp_BadDatabasePath(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.LocalDBPath = filepath.Join(blocker, "cli.db")

	_, err := NewApp(context.Background(), cfg, logging.Nop{})
	assert.Error(t, err)
}

func TestRoot_RestoresSessionAndExits(t *testing.T) {
	f := &fakeAuth{restoreOK: true}
	a, out := newTestApp(f, "exit\n")
	a.config = &config.Config{OnlineCheckInterval: time.Hour}
	silencePrintln(t)

	a.Run(context.Background())

	assert.Contains(t, out.String(), "Resumed session for saved")
	assert.True(t, f.closed)
}

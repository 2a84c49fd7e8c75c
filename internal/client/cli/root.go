package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if name := a.authService.Username(); name != "" {
		parts = append(parts, name)
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root restores a saved session, starts the connectivity watcher and runs
// the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to AuthKeeper CLI (type 'help' for commands)")

	ok, err := a.authService.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "restoring session", "error", err)
	} else if ok {
		fmt.Fprintf(a.out, "Resumed session for %s\n", a.authService.Username())
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(wctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

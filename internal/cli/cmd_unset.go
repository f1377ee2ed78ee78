package cli

import (
	"errors"
	"fmt"

	"github.com/splinter-kv/splinter/internal/shm"
)

func cmdUnset(a *App, args []string) int {
	if !a.ensureOpen() {
		return ExitUserError
	}
	if len(args) < 1 {
		fmt.Fprintln(a.ErrOut, "usage: unset <key>")
		return ExitUserError
	}
	key := args[0]

	n, err := a.Store.Unset(key)
	if err != nil {
		if errors.Is(err, shm.ErrNotFound) {
			a.Metrics.IncNotFound()
			fmt.Fprintf(a.ErrOut, "error: %s: not found\n", key)
			return ExitUserError
		}
		fmt.Fprintf(a.ErrOut, "error: unset %s: %v\n", key, err)
		return ExitIOError
	}
	a.Metrics.IncUnset()
	fmt.Fprintf(a.Out, "removed %d bytes\n", n)
	return ExitOK
}

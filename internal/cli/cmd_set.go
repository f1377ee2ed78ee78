package cli

import (
	"errors"
	"fmt"

	"github.com/splinter-kv/splinter/internal/shm"
)

func cmdSet(a *App, args []string) int {
	if !a.ensureOpen() {
		return ExitUserError
	}
	if len(args) < 2 {
		fmt.Fprintln(a.ErrOut, "usage: set <key> <value>")
		return ExitUserError
	}
	key := args[0]
	val := args[1]

	if err := a.Store.Set(key, []byte(val)); err != nil {
		switch {
		case errors.Is(err, shm.ErrAgain):
			a.Metrics.IncAgain()
		case errors.Is(err, shm.ErrFull):
			a.Metrics.IncFull()
		}
		fmt.Fprintf(a.ErrOut, "error: set %s: %v\n", key, err)
		return ExitIOError
	}
	a.Metrics.IncSet()
	a.Logger.Debug("cli: set", zapKey(key))
	return ExitOK
}

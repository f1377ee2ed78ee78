package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/splinter-kv/splinter/internal/shm"
)

// cmdWatch implements watch <key> [--oneshot] [--timeout dur]. It calls
// Poll in a loop, printing the refreshed value each time the slot's
// sequence counter advances, until interrupted, a non-Timeout error
// occurs, or --oneshot fires once.
func cmdWatch(a *App, args []string) int {
	if !a.ensureOpen() {
		return ExitUserError
	}

	fs := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	fs.SetOutput(a.ErrOut)
	oneshot := fs.Bool("oneshot", false, "return after the first change")
	timeout := fs.Duration("timeout", 5*time.Second, "poll timeout per wait")
	if err := fs.Parse(args); err != nil {
		return ExitUserError
	}
	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintln(a.ErrOut, "usage: watch <key> [--oneshot] [--timeout dur]")
		return ExitUserError
	}
	key := rest[0]

	for {
		err := a.Store.Poll(key, *timeout)
		switch {
		case err == nil:
			val, code := fetchValue(a, key)
			if code != ExitOK {
				return code
			}
			fmt.Fprintf(a.Out, "%s\n", val)
			if *oneshot {
				return ExitOK
			}
		case errors.Is(err, shm.ErrTimeout):
			a.Metrics.IncTimeout()
			if *oneshot {
				fmt.Fprintln(a.ErrOut, "error: watch timed out")
				return ExitIOError
			}
			continue
		default:
			fmt.Fprintf(a.ErrOut, "error: watch %s: %v\n", key, err)
			return ExitIOError
		}
	}
}

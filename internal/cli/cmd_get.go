package cli

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/splinter-kv/splinter/internal/shm"
)

func cmdGet(a *App, args []string) int {
	if !a.ensureOpen() {
		return ExitUserError
	}
	if len(args) < 1 {
		fmt.Fprintln(a.ErrOut, "usage: get <key>")
		return ExitUserError
	}
	key := args[0]

	val, code := fetchValue(a, key)
	if code != ExitOK {
		return code
	}
	if !utf8.Valid(val) {
		a.Store.NoteParseFailure()
	}
	a.Metrics.IncGet()
	fmt.Fprintf(a.Out, "%s\n", val)
	return ExitOK
}

// fetchValue runs the two-call get idiom: probe for the length with a
// nil buffer, then copy into a buffer sized to fit.
func fetchValue(a *App, key string) ([]byte, int) {
	n, err := a.Store.Get(key, nil)
	if err != nil {
		return nil, reportGetErr(a, key, err)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, ExitOK
	}
	got, err := a.Store.Get(key, buf)
	if err != nil {
		var shmErr *shm.Error
		if errors.As(err, &shmErr) && shmErr.Kind == shm.KindWouldOverflow {
			// the value grew between the length probe and the copy;
			// retry once with the reported size.
			buf = make([]byte, shmErr.Size)
			got, err = a.Store.Get(key, buf)
			if err != nil {
				return nil, reportGetErr(a, key, err)
			}
			return buf[:got], ExitOK
		}
		return nil, reportGetErr(a, key, err)
	}
	return buf[:got], ExitOK
}

func reportGetErr(a *App, key string, err error) int {
	switch {
	case errors.Is(err, shm.ErrNotFound):
		a.Metrics.IncNotFound()
		fmt.Fprintf(a.ErrOut, "error: %s: not found\n", key)
		return ExitUserError
	case errors.Is(err, shm.ErrAgain):
		a.Metrics.IncAgain()
		fmt.Fprintf(a.ErrOut, "error: %s: try again\n", key)
		return ExitIOError
	default:
		fmt.Fprintf(a.ErrOut, "error: get %s: %v\n", key, err)
		return ExitIOError
	}
}

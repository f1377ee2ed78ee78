package cli

import (
	"fmt"
	"path"
)

// cmdHist prints the shell's command history, optionally filtered by a
// glob pattern, same matcher as cmdList.
func cmdHist(a *App, args []string) int {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	for _, line := range a.History() {
		if pattern != "" {
			ok, err := path.Match(pattern, line)
			if err != nil {
				fmt.Fprintf(a.ErrOut, "error: bad pattern %q: %v\n", pattern, err)
				return ExitUserError
			}
			if !ok {
				continue
			}
		}
		fmt.Fprintln(a.Out, line)
	}
	return ExitOK
}

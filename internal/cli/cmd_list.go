package cli

import (
	"fmt"
	"path"
)

// cmdList implements list [pattern]. Filtering is glob-style via
// path.Match, which covers the common *prefix*/middle* cases without
// dragging in a regex surface.
func cmdList(a *App, args []string) int {
	if !a.ensureOpen() {
		return ExitUserError
	}
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	keys := a.Store.List(0)
	for _, k := range keys {
		if pattern != "" {
			ok, err := path.Match(pattern, k)
			if err != nil {
				fmt.Fprintf(a.ErrOut, "error: bad pattern %q: %v\n", pattern, err)
				return ExitUserError
			}
			if !ok {
				continue
			}
		}
		fmt.Fprintln(a.Out, k)
	}
	return ExitOK
}

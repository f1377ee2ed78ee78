package cli

import "fmt"

// cmdClear clears the terminal with the plain ANSI home+erase escape;
// no curses dependency is worth pulling in for it.
func cmdClear(a *App, args []string) int {
	fmt.Fprint(a.Out, "\x1b[H\x1b[2J")
	return ExitOK
}

package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"unicode/utf8"
)

// cmdHead prints the first line of key's value.
func cmdHead(a *App, args []string) int {
	if !a.ensureOpen() {
		return ExitUserError
	}
	if len(args) < 1 {
		fmt.Fprintln(a.ErrOut, "usage: head <key>")
		return ExitUserError
	}
	val, code := fetchValue(a, args[0])
	if code != ExitOK {
		return code
	}
	if !utf8.Valid(val) {
		a.Store.NoteParseFailure()
	}
	sc := bufio.NewScanner(bytes.NewReader(val))
	if sc.Scan() {
		fmt.Fprintln(a.Out, sc.Text())
	}
	return ExitOK
}

package cli

import (
	"fmt"
	"strconv"
)

// cmdConfig implements config [flag value]. With no arguments it prints
// every flag; with two it sets one. Only auto_vacuum is settable at
// runtime; slots and max_val_sz are creation-time and reported
// read-only.
func cmdConfig(a *App, args []string) int {
	if !a.ensureOpen() {
		return ExitUserError
	}
	if len(args) == 0 {
		hdr := a.Store.HeaderSnapshot()
		fmt.Fprintf(a.Out, "bus           %s\n", a.Name)
		fmt.Fprintf(a.Out, "slots         %d\n", hdr.Slots)
		fmt.Fprintf(a.Out, "max_val_sz    %d\n", hdr.MaxValSz)
		fmt.Fprintf(a.Out, "auto_vacuum   %d\n", hdr.AutoVacuum)
		fmt.Fprintf(a.Out, "epoch         %d\n", hdr.Epoch)
		fmt.Fprintf(a.Out, "parse_failures %d\n", hdr.ParseFailures)
		return ExitOK
	}
	if len(args) != 2 {
		fmt.Fprintln(a.ErrOut, "usage: config [flag value]")
		return ExitUserError
	}
	flag, value := args[0], args[1]
	switch flag {
	case "auto_vacuum":
		v, err := strconv.ParseBool(value)
		if err != nil {
			n, nerr := strconv.Atoi(value)
			if nerr != nil {
				fmt.Fprintf(a.ErrOut, "error: invalid auto_vacuum value %q\n", value)
				return ExitUserError
			}
			v = n != 0
		}
		a.Store.SetAutoVacuum(v)
		return ExitOK
	default:
		fmt.Fprintf(a.ErrOut, "error: unknown or read-only flag %q\n", flag)
		return ExitUserError
	}
}

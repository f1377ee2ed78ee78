package cli

import (
	"fmt"
	"strconv"

	"github.com/splinter-kv/splinter/internal/shm"
)

// cmdInit creates a fresh bus and selects it: init [name [slots [maxlen]]].
func cmdInit(a *App, args []string) int {
	name := a.Cfg.Bus
	slots := a.Cfg.Slots
	maxlen := a.Cfg.MaxValSz

	if len(args) > 0 {
		name = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			fmt.Fprintf(a.ErrOut, "error: invalid slots %q\n", args[1])
			return ExitUserError
		}
		slots = uint32(n)
	}
	if len(args) > 2 {
		n, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			fmt.Fprintf(a.ErrOut, "error: invalid maxlen %q\n", args[2])
			return ExitUserError
		}
		maxlen = uint32(n)
	}

	resolved := a.resolveName(name)
	s, err := shm.Create(resolved, slots, maxlen, a.storeOpts()...)
	if err != nil {
		fmt.Fprintf(a.ErrOut, "error: init %s: %v\n", resolved, err)
		return ExitIOError
	}
	s.SetAutoVacuum(a.Cfg.AutoVacuum)
	_ = a.Close()
	a.Store, a.Name = s, resolved
	fmt.Fprintf(a.Out, "initialized %s (slots=%d max_val_sz=%d)\n", resolved, slots, maxlen)
	return ExitOK
}

package cli

import (
	"fmt"

	"github.com/splinter-kv/splinter/internal/shm"
)

func cmdUse(a *App, args []string) int {
	name := a.Cfg.Bus
	if len(args) > 0 {
		name = args[0]
	}
	resolved := a.resolveName(name)

	s, err := shm.OpenOrCreate(resolved, a.Cfg.Slots, a.Cfg.MaxValSz, a.storeOpts()...)
	if err != nil {
		fmt.Fprintf(a.ErrOut, "error: use %s: %v\n", resolved, err)
		return ExitIOError
	}
	_ = a.Close()
	a.Store, a.Name = s, resolved
	fmt.Fprintf(a.Out, "using %s (slots=%d max_val_sz=%d)\n", resolved, s.Slots(), s.MaxValueSize())
	return ExitOK
}

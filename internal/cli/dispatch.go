package cli

import "fmt"

// handler is the signature every command module implements.
type handler func(a *App, args []string) int

// commands is the name -> handler table shared by the REPL and
// non-interactive one-shot invocation.
var commands = map[string]handler{
	"help":   cmdHelp,
	"use":    cmdUse,
	"init":   cmdInit,
	"set":    cmdSet,
	"get":    cmdGet,
	"unset":  cmdUnset,
	"list":   cmdList,
	"head":   cmdHead,
	"config": cmdConfig,
	"watch":  cmdWatch,
	"hist":   cmdHist,
	"clear":  cmdClear,
	"export": cmdExport,
}

// Dispatch looks up and runs the handler for argv[0]. It returns the
// command's exit code, -1 for the exit/quit sentinel, or ExitUserError
// with a message for an unknown command.
func (a *App) Dispatch(argv []string) int {
	if len(argv) == 0 {
		return ExitOK
	}
	name := argv[0]
	switch name {
	case "exit", "quit":
		return -1
	}
	h, ok := commands[name]
	if !ok {
		fmt.Fprintf(a.ErrOut, "error: unknown command %q (try 'help')\n", name)
		return ExitUserError
	}
	return h(a, argv[1:])
}

// DispatchLine tokenizes and dispatches one REPL line, recording it in
// history when non-blank.
func (a *App) DispatchLine(line string) int {
	argv := tokenize(line)
	if len(argv) == 0 {
		return ExitOK
	}
	a.recordHistory(line)
	return a.Dispatch(argv)
}

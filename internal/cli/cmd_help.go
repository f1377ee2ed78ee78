package cli

import "fmt"

var helpText = `Splinter commands:
  help                       show this text
  use <name>                 open (or create-or-open) bus <name>
  init [name [slots [maxlen]]]  create a new bus and select it
  set <key> "<value>"        publish a value for key
  get <key>                  print key's current value
  unset <key>                remove key
  list [pattern]             list keys, optionally filtered by a glob pattern
  head <key>                 print key's value's first line
  config [flag value]        show or set store/shell configuration
  watch <key> [--oneshot]    block until key changes
  hist [pattern]             show shell command history
  clear                      clear the terminal
  export [format]            dump all keys/values (json or csv, default json)
  exit / quit                leave the shell
`

func cmdHelp(a *App, _ []string) int {
	fmt.Fprint(a.Out, helpText)
	return ExitOK
}

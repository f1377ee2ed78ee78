// Command splinter-send publishes a value, read from its arguments or
// stdin, to a key on a Splinter bus.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/splinter-kv/splinter/internal/config"
	"github.com/splinter-kv/splinter/internal/shm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses positionally by arity: one argument is a bare value, two
// are key+value, three are bus+key+value.
func run(args []string) int {
	bus := config.DefaultBus
	key := config.DefaultKey

	var value string
	switch len(args) {
	case 1:
		value = args[0]
	case 2:
		key, value = args[0], args[1]
	case 3:
		bus, key, value = args[0], args[1], args[2]
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [bus] [key] value | (reads stdin if value is \"-\")\n", os.Args[0])
		return 1
	}

	if value == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "splinter-send: reading stdin: %v\n", err)
			return 2
		}
		value = string(b)
	}

	s, err := shm.OpenOrCreate(bus, config.DefaultSlots, config.DefaultMaxValSz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "splinter-send: failed to open bus %s: %v\n", bus, err)
		return 1
	}
	defer s.Close()

	if err := s.Set(key, []byte(value)); err != nil {
		fmt.Fprintf(os.Stderr, "splinter-send: failed to send value to key %s: %v\n", key, err)
		return 2
	}
	return 0
}

// Command splinter-logtee taps a bus key and writes each update to
// stdout as it lands, a non-destructive drain suitable for piping into
// another process.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/splinter-kv/splinter/internal/config"
	"github.com/splinter-kv/splinter/internal/shm"
)

const pollTimeout = 100 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	bus := config.DefaultBus
	key := config.DefaultKey
	if len(args) > 0 {
		bus = args[0]
	}
	if len(args) > 1 {
		key = args[1]
	}

	s, err := shm.CreateOrOpen(bus, config.DefaultSlots, config.DefaultMaxValSz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "splinter_logtee: failed to open bus %s: %v\n", bus, err)
		return 1
	}
	defer s.Close()

	for {
		if err := s.Poll(key, pollTimeout); err != nil {
			continue
		}
		n, err := s.Get(key, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "splinter_logtee: failed to read from %s (key %s): %v\n", bus, key, err)
			return 2
		}
		buf := make([]byte, n)
		got, err := s.Get(key, buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "splinter_logtee: failed to read from %s (key %s): %v\n", bus, key, err)
			return 2
		}
		os.Stdout.Write(buf[:got])
		os.Stdout.Write([]byte("\n"))
	}
}

// Command splinter-recv blocks and waits for a key to update, then
// prints it. Runs forever by default; --oneshot exits after the first
// event.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/splinter-kv/splinter/internal/config"
	"github.com/splinter-kv/splinter/internal/shm"
)

const pollTimeout = 100 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("splinter-recv", pflag.ContinueOnError)
	oneshot := fs.BoolP("oneshot", "o", false, "exit after receiving one message")
	bus := fs.String("bus", config.DefaultBus, "bus name")
	key := fs.String("key", config.DefaultKey, "key to watch")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *oneshot {
		fmt.Fprintln(os.Stderr, "splinter-recv: will exit after 1 event (--oneshot specified)")
	}

	s, err := shm.OpenOrCreate(*bus, config.DefaultSlots, config.DefaultMaxValSz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "splinter-recv: failed to open bus %s: %v\n", *bus, err)
		return 1
	}
	defer s.Close()

	fmt.Printf("splinter-recv: listening to %s on %s ...\n", *key, *bus)
	if !*oneshot {
		fmt.Fprintln(os.Stderr, "splinter-recv: use --oneshot if you ever wish to exit after a single event.")
	}

	for {
		err := s.Poll(*key, pollTimeout)
		if err != nil {
			continue
		}

		n, err := s.Get(*key, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "splinter-recv: failed to read data from %s (key %s): %v\n", *bus, *key, err)
			return 3
		}
		buf := make([]byte, n)
		got, err := s.Get(*key, buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "splinter-recv: failed to read data from %s (key %s): %v\n", *bus, *key, err)
			return 3
		}
		fmt.Printf("splinter-recv: %s\n", buf[:got])

		if *oneshot {
			return 0
		}
	}
}

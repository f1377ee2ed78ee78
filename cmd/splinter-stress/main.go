// Command splinter-stress runs a multi-reader/single-writer torture
// scenario: one writer cycling through a pool of hot keys bumping an
// embedded version counter, and many readers each tracking the highest
// version they have observed per key, flagging any regression or
// unparseable payload as an integrity failure.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/splinter-kv/splinter/internal/metrics"
	"github.com/splinter-kv/splinter/internal/shm"
)

const (
	slots       = 50000
	maxValSz    = 4096
	hotKeys     = 20000
	numReaders  = 31
	runDuration = 60 * time.Second
	busName     = "splinter_stress"
)

func main() {
	os.Exit(run())
}

func run() int {
	reg := prometheus.NewRegistry()
	sink := metrics.New(reg)

	s, err := shm.Create(busName, slots, maxValSz)
	if err != nil {
		s, err = shm.Open(busName)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "splinter-stress: open: %v\n", err)
		return 1
	}
	defer s.Close()

	keys := make([]string, hotKeys)
	for i := range keys {
		keys[i] = "hot:" + strconv.Itoa(i)
		val := encodeValue(0, rand.Int63(), keys[i])
		if err := s.Set(keys[i], []byte(val)); err != nil {
			fmt.Fprintf(os.Stderr, "splinter-stress: seeding %s: %v\n", keys[i], err)
			return 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), runDuration)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writerLoop(gctx, s, sink, keys)
	})
	for i := 0; i < numReaders; i++ {
		g.Go(func() error {
			return readerLoop(gctx, s, sink, keys)
		})
	}

	if err := g.Wait(); err != nil && err != context.DeadlineExceeded {
		fmt.Fprintf(os.Stderr, "splinter-stress: %v\n", err)
		return 1
	}

	fmt.Printf("splinter-stress: ran %s over %d hot keys with %d readers\n", runDuration, hotKeys, numReaders)
	return 0
}

// encodeValue renders the "ver:N|nonce:M|data:K" payload S6 parses.
func encodeValue(ver uint64, nonce int64, key string) string {
	return fmt.Sprintf("ver:%d|nonce:%d|data:%s", ver, nonce, key)
}

func parseVer(val []byte) (uint64, bool) {
	s := string(val)
	i := strings.Index(s, "ver:")
	if i != 0 {
		return 0, false
	}
	rest := s[4:]
	j := strings.IndexByte(rest, '|')
	if j < 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(rest[:j], 10, 64)
	if err != nil {
		return 0, false
	}
	rest = rest[j+1:]
	if !strings.HasPrefix(rest, "nonce:") {
		return 0, false
	}
	rest = rest[len("nonce:"):]
	k := strings.IndexByte(rest, '|')
	if k < 0 {
		return 0, false
	}
	if _, err := strconv.ParseInt(rest[:k], 10, 64); err != nil {
		return 0, false
	}
	if !strings.HasPrefix(rest[k+1:], "data:") {
		return 0, false
	}
	return n, true
}

func writerLoop(ctx context.Context, s *shm.Store, sink metrics.Sink, keys []string) error {
	vers := make([]uint64, len(keys))
	for {
		for i, k := range keys {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			vers[i]++
			val := encodeValue(vers[i], rand.Int63(), k)
			if err := s.Set(k, []byte(val)); err != nil {
				sink.IncAgain()
			}
		}
		// One full pass over the hot-key pool is as good a cadence as any
		// for the live-key gauge: List is O(slots) so it is not worth
		// calling per-Set.
		sink.SetLiveKeys(float64(len(s.List(0))))
	}
}

func readerLoop(ctx context.Context, s *shm.Store, sink metrics.Sink, keys []string) error {
	highest := make(map[string]uint64, len(keys))
	idx := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		k := keys[idx.Intn(len(keys))]

		n, err := s.Get(k, nil)
		if err != nil {
			sink.IncAgain()
			continue
		}
		buf := make([]byte, n)
		got, err := s.Get(k, buf)
		if err != nil {
			sink.IncAgain()
			continue
		}
		ver, ok := parseVer(buf[:got])
		if !ok {
			sink.IncIntegrityFailure()
			continue
		}

		if prev, seen := highest[k]; seen && ver < prev {
			sink.IncIntegrityFailure()
		}
		highest[k] = ver
	}
}

package shm

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Store is a handle to one mapped Splinter bus, returned by Create/Open
// and taken as the receiver of every operation. There is no process-wide
// "current mapping" — callers may hold as many Stores open, in the same
// process, as they like.
type Store struct {
	name string
	m    *mapping
	opts *options
}

// Create opens the named shared-memory object with create-exclusive
// semantics and lays out a fresh store with the given slot count and
// per-slot value capacity.
func Create(name string, slots, maxValSz uint32, opts ...Option) (*Store, error) {
	o := newOptions(opts...)
	m, err := createMapping(name, slots, maxValSz, o)
	if err != nil {
		return nil, err
	}
	return &Store{name: name, m: m, opts: o}, nil
}

// Open maps an existing store by name and validates its header.
func Open(name string, opts ...Option) (*Store, error) {
	o := newOptions(opts...)
	m, err := openMapping(name, o)
	if err != nil {
		return nil, err
	}
	return &Store{name: name, m: m, opts: o}, nil
}

// CreateOrOpen tries Create first and falls back to Open if the backing
// object already exists.
func CreateOrOpen(name string, slots, maxValSz uint32, opts ...Option) (*Store, error) {
	s, err := Create(name, slots, maxValSz, opts...)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, unix.EEXIST) {
		return nil, err
	}
	return Open(name, opts...)
}

// OpenOrCreate tries Open first and falls back to Create if the backing
// object does not yet exist.
func OpenOrCreate(name string, slots, maxValSz uint32, opts ...Option) (*Store, error) {
	s, err := Open(name, opts...)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, unix.ENOENT) {
		return nil, err
	}
	return Create(name, slots, maxValSz, opts...)
}

// Close unmaps the current mapping; it has no effect on the underlying
// shared object or on any other process's mapping of it.
func (s *Store) Close() error {
	if s == nil || s.m == nil {
		return nil
	}
	s.opts.logger.Debug("shm: closing store", zap.String("name", s.name))
	err := s.m.close()
	s.m = nil
	return err
}

func validateKey(op, key string) error {
	if key == "" {
		return newErr(op, KindInvalidArgument, key)
	}
	if len(key) > keySize-1 {
		return newErr(op, KindInvalidArgument, key)
	}
	return nil
}

// Set publishes val as the value for key, inserting it if absent or
// overwriting in place if present.
func (s *Store) Set(key string, val []byte) error {
	if s == nil || s.m == nil {
		return newErr("set", KindInvalidArgument, key)
	}
	if err := validateKey("set", key); err != nil {
		return err
	}
	if len(val) == 0 || uint32(len(val)) > s.m.maxValSz() {
		return newErr("set", KindInvalidArgument, key)
	}
	kb := []byte(key)
	err := s.m.set(hashKey(key), kb, val, s.m.autoVacuum())
	if err != nil {
		if e, ok := err.(*Error); ok && e.Kind == KindFull {
			s.opts.logger.Warn("shm: table full", zap.String("key", key))
		}
	}
	return err
}

// Get copies key's current value into buf and returns the number of
// bytes written. If buf is nil, only the length is determined and zero
// bytes are copied.
func (s *Store) Get(key string, buf []byte) (int, error) {
	if s == nil || s.m == nil {
		return 0, newErr("get", KindInvalidArgument, key)
	}
	if err := validateKey("get", key); err != nil {
		return 0, err
	}
	return s.m.get(hashKey(key), []byte(key), buf)
}

// Unset removes key and returns the length of the value that was
// removed, or -1 if the key was absent.
func (s *Store) Unset(key string) (int, error) {
	if s == nil || s.m == nil {
		return -1, newErr("unset", KindInvalidArgument, key)
	}
	if err := validateKey("unset", key); err != nil {
		return -1, err
	}
	return s.m.unset(hashKey(key), []byte(key), s.m.autoVacuum())
}

// List returns up to max keys (max<=0 for unlimited) for non-empty
// slots, in slot order.
func (s *Store) List(max int) []string {
	if s == nil || s.m == nil {
		return nil
	}
	return s.m.list(max)
}

// Poll blocks until key's slot sequence counter advances past its
// current baseline, the timeout elapses, or a writer is caught active.
func (s *Store) Poll(key string, timeout time.Duration) error {
	if s == nil || s.m == nil {
		return newErr("poll", KindInvalidArgument, key)
	}
	if err := validateKey("poll", key); err != nil {
		return err
	}
	err := s.m.poll(hashKey(key), []byte(key), timeout)
	if e, ok := err.(*Error); ok && e.Kind == KindTimeout {
		s.opts.logger.Debug("shm: poll timed out", zap.String("key", key), zap.Duration("timeout", timeout))
	}
	return err
}

// HeaderSnapshot copies the header fields with acquire loads of the
// atomic fields. Diagnostic only.
func (s *Store) HeaderSnapshot() HeaderSnapshot {
	if s == nil || s.m == nil {
		return HeaderSnapshot{}
	}
	return s.m.headerSnapshot()
}

// SlotSnapshot copies hash/epoch/val_off/val_len/key for key's slot
// without honoring the seqlock. Diagnostic only.
func (s *Store) SlotSnapshot(key string) (SlotSnapshot, error) {
	if s == nil || s.m == nil {
		return SlotSnapshot{}, newErr("get_slot_snapshot", KindInvalidArgument, key)
	}
	if err := validateKey("get_slot_snapshot", key); err != nil {
		return SlotSnapshot{}, err
	}
	return s.m.slotSnapshot(hashKey(key), []byte(key))
}

// arenaBytes returns a copy of the full per-slot value arena for key,
// including any bytes beyond the current value's length. Diagnostic
// only; unexported because nothing outside this package's own tests
// needs a view past what Get already exposes.
func (s *Store) arenaBytes(key string) ([]byte, error) {
	if s == nil || s.m == nil {
		return nil, newErr("get_arena_bytes", KindInvalidArgument, key)
	}
	if err := validateKey("get_arena_bytes", key); err != nil {
		return nil, err
	}
	return s.m.arenaBytes(hashKey(key), []byte(key))
}

// SetAutoVacuum sets the header's auto_vacuum flag with release
// semantics.
func (s *Store) SetAutoVacuum(on bool) {
	if s == nil || s.m == nil {
		return
	}
	s.m.setAutoVacuum(on)
}

// AutoVacuum reads the header's auto_vacuum flag with acquire
// semantics.
func (s *Store) AutoVacuum() bool {
	if s == nil || s.m == nil {
		return false
	}
	return s.m.autoVacuum()
}

// Slots returns the store's fixed slot count N.
func (s *Store) Slots() uint32 {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.slots()
}

// MaxValueSize returns the store's per-slot value capacity V.
func (s *Store) MaxValueSize() uint32 {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.maxValSz()
}

// NoteParseFailure bumps the header's reserved diagnostic counters.
// Nothing in this package calls it; it exists for boundary callers,
// such as the CLI's get/head commands, that detect a payload failing
// to decode as the text they expected to display.
func (s *Store) NoteParseFailure() {
	if s == nil || s.m == nil {
		return
	}
	h := s.m.hdr()
	h.ParseFailures.Add(1)
	h.LastFailureEpoch.Store(h.Epoch.Load())
}

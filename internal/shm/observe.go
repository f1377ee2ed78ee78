package shm

// Observer primitives: diagnostic copies of header/slot fields taken
// with acquire loads but without re-checking the seqlock.
// They may capture an inconsistent intermediate view and must never be
// used where correctness matters; they back "list" and "config".

// HeaderSnapshot is a point-in-time copy of the header fields.
type HeaderSnapshot struct {
	Magic            uint32
	Version          uint32
	Slots            uint32
	MaxValSz         uint32
	Epoch            uint64
	AutoVacuum       uint32
	ParseFailures    uint64
	LastFailureEpoch uint64
}

// SlotSnapshot is a point-in-time, non-seqlock-validated copy of a
// single slot's fields.
type SlotSnapshot struct {
	Hash   uint64
	Epoch  uint64
	ValOff uint32
	ValLen uint32
	Key    string
}

func (l *layout) headerSnapshot() HeaderSnapshot {
	h := l.hdr()
	return HeaderSnapshot{
		Magic:            h.Magic,
		Version:          h.Version,
		Slots:            h.Slots,
		MaxValSz:         h.MaxValSz,
		Epoch:            h.Epoch.Load(),
		AutoVacuum:       h.AutoVacuum.Load(),
		ParseFailures:    h.ParseFailures.Load(),
		LastFailureEpoch: h.LastFailureEpoch.Load(),
	}
}

func (l *layout) slotSnapshot(h uint64, key []byte) (SlotSnapshot, error) {
	_, s, ok := l.findSlot(h, key)
	if !ok {
		return SlotSnapshot{}, newErr("get_slot_snapshot", KindInvalidArgument, string(key))
	}
	return SlotSnapshot{
		Hash:   s.Hash.Load(),
		Epoch:  s.Epoch.Load(),
		ValOff: s.ValOff,
		ValLen: s.ValLen.Load(),
		Key:    keyString(s),
	}, nil
}

// arenaBytes returns a copy of the full V-byte arena region belonging to
// key's slot, not just the ValLen prefix Get returns. Diagnostic only,
// used by tests to observe auto_vacuum's zeroing of the untouched tail
// after a shorter overwrite.
func (l *layout) arenaBytes(h uint64, key []byte) ([]byte, error) {
	idx, _, ok := l.findSlot(h, key)
	if !ok {
		return nil, newErr("get_arena_bytes", KindInvalidArgument, string(key))
	}
	region := l.arenaRegion(idx)
	out := make([]byte, len(region))
	copy(out, region)
	return out, nil
}

func keyString(s *slot) string {
	n := 0
	for n < keySize && s.Key[n] != 0 {
		n++
	}
	return string(s.Key[:n])
}

// list returns up to max non-empty keys in slot order (max<=0 means no
// limit). A slot counts as non-empty when hash!=0 and val_len>0, so a
// slot caught mid-unset with its length already cleared is skipped.
// list is not atomic: it may include keys being concurrently unset or
// omit keys being concurrently set.
func (l *layout) list(max int) []string {
	n := l.slots()
	out := make([]string, 0, 16)
	for i := uint32(0); i < n; i++ {
		if max > 0 && len(out) >= max {
			break
		}
		s := l.slotAt(i)
		if s.Hash.Load() == 0 {
			continue
		}
		if s.ValLen.Load() == 0 {
			continue
		}
		out = append(out, keyString(s))
	}
	return out
}

func (l *layout) autoVacuum() bool {
	return l.hdr().AutoVacuum.Load() != 0
}

func (l *layout) setAutoVacuum(on bool) {
	var v uint32
	if on {
		v = 1
	}
	l.hdr().AutoVacuum.Store(v)
}

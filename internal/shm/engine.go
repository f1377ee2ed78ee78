package shm

// This file implements the slot engine: linear-probe placement and the
// per-slot seqlock write/read/unset protocol. Go's sync/atomic package
// is sequentially consistent, a strictly stronger guarantee than the
// acquire/release orderings the protocol minimally requires, so using
// it throughout is safe everywhere a weaker ordering would do.

// probeStart returns the first candidate slot index for hash h.
func probeStart(h uint64, n uint32) uint32 {
	return uint32(h % uint64(n))
}

// keyMatches reports whether slot s currently holds the nul-terminated
// key equal to key. This read is not seqlock-validated on its own: a
// caller that needs the full slot contents still has to check the
// sequence counter before trusting the match. Reading a torn key buffer
// here can only cause a spurious continue past the right slot (and a
// retry surfaces as NotFound or Again to the caller, never corruption),
// the same benign race the hash comparison above it tolerates.
func keyMatches(s *slot, key []byte) bool {
	if len(key) >= keySize {
		return false
	}
	for i, c := range key {
		if s.Key[i] != c {
			return false
		}
	}
	return s.Key[len(key)] == 0
}

func writeKey(s *slot, key []byte, vacuum bool) {
	if vacuum {
		for i := range s.Key {
			s.Key[i] = 0
		}
	} else {
		s.Key[0] = 0
	}
	copy(s.Key[:keySize-1], key)
	s.Key[len(key)] = 0
}

// set probes for an empty or matching slot, enters its seqlock, writes
// the value and key, and publishes the hash last so a reader matching
// on it knows the body was written earlier in the same critical
// section. val must already have been validated (0 < len <= maxValSz)
// by the caller.
func (l *layout) set(h uint64, key, val []byte, vacuum bool) error {
	n := l.slots()
	start := probeStart(h, n)
	for p := uint32(0); p < n; p++ {
		idx := (start + p) % n
		s := l.slotAt(idx)

		cur := s.Hash.Load()
		accept := cur == 0
		if !accept && cur == h {
			accept = keyMatches(s, key)
		}
		if !accept {
			continue
		}

		e := s.Epoch.Load()
		if e%2 != 0 {
			// a writer is already active on this slot; probing onward
			// (instead of spinning here) avoids deadlocking against a
			// concurrent set on the same key.
			continue
		}
		if !s.Epoch.CompareAndSwap(e, e+1) {
			continue
		}

		// We are now the sole writer for this slot; epoch is odd.
		arenaTotal := uint64(n) * uint64(l.maxValSz())
		if uint64(s.ValOff) >= arenaTotal || uint64(s.ValOff)+uint64(len(val)) > arenaTotal {
			s.Epoch.Add(1) // leave the critical section even on abort
			return newErr("set", KindInvalidArgument, string(key))
		}

		region := l.arenaRegion(idx)
		if vacuum {
			clear(region)
		}
		copy(region, val)
		s.ValLen.Store(uint32(len(val)))
		writeKey(s, key, vacuum)
		s.Hash.Store(h) // publishes this slot as carrying key=h

		s.Epoch.Add(1) // leave the seqlock; net +2, now even
		l.hdr().Epoch.Add(1)
		return nil
	}
	return newErr("set", KindFull, string(key))
}

// findSlot scans the full probe chain for h/key, the lookup rule shared
// by get/unset/poll/slot snapshots: a slot is only skipped on hash or
// key mismatch, never by stopping at the first empty slot, since unset
// leaves holes in the middle of a chain.
func (l *layout) findSlot(h uint64, key []byte) (uint32, *slot, bool) {
	n := l.slots()
	start := probeStart(h, n)
	for p := uint32(0); p < n; p++ {
		idx := (start + p) % n
		s := l.slotAt(idx)
		hv := s.Hash.Load()
		if hv != h {
			continue
		}
		if !keyMatches(s, key) {
			continue
		}
		return idx, s, true
	}
	return 0, nil, false
}

// get validates a seqlock-bracketed snapshot of the slot's value. dst
// may be nil, in which case only the length is determined (a zero-copy
// "does this key exist, how big" probe).
func (l *layout) get(h uint64, key []byte, dst []byte) (n int, err error) {
	idx, s, ok := l.findSlot(h, key)
	if !ok {
		return 0, newErr("get", KindNotFound, string(key))
	}

	start := s.Epoch.Load()
	if start%2 != 0 {
		return 0, newErr("get", KindAgain, string(key))
	}

	length := s.ValLen.Load()
	if dst != nil && uint32(len(dst)) < length {
		return 0, &Error{Op: "get", Kind: KindWouldOverflow, Key: string(key), Size: int(length)}
	}

	region := l.arenaRegion(idx)
	copied := 0
	if dst != nil {
		copied = copy(dst, region[:length])
	}

	end := s.Epoch.Load()
	if start != end || end%2 != 0 {
		return 0, newErr("get", KindAgain, string(key))
	}
	if dst == nil {
		return int(length), nil
	}
	return copied, nil
}

// unset marks the slot empty by storing hash 0 and returns the length
// of the removed value. It does not CAS the epoch: a concurrent writer
// would already have made it odd, which returns Again above.
func (l *layout) unset(h uint64, key []byte, vacuum bool) (int, error) {
	idx, s, ok := l.findSlot(h, key)
	if !ok {
		return -1, newErr("unset", KindNotFound, string(key))
	}

	e := s.Epoch.Load()
	if e%2 != 0 {
		return 0, newErr("unset", KindAgain, string(key))
	}

	length := s.ValLen.Load()
	s.Hash.Store(0)
	if vacuum {
		for i := range s.Key {
			s.Key[i] = 0
		}
		clear(l.arenaRegion(idx))
	} else {
		s.Key[0] = 0
	}
	s.ValLen.Store(0)
	s.Epoch.Add(2)
	l.hdr().Epoch.Add(1)
	return int(length), nil
}

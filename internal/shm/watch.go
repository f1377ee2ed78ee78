package shm

import "time"

// pollInterval is the sleep quantum between epoch checks. No condition
// variable is used: the data lives in shared memory across processes,
// and the write path cannot afford to signal waiters.
const pollInterval = 10 * time.Millisecond

// poll blocks until the slot's sequence counter advances past its
// baseline, the deadline elapses, or a writer is caught active.
func (l *layout) poll(h uint64, key []byte, timeout time.Duration) error {
	_, s, ok := l.findSlot(h, key)
	if !ok {
		return newErr("poll", KindNotFound, string(key))
	}

	start := s.Epoch.Load()
	if start%2 != 0 {
		return newErr("poll", KindAgain, string(key))
	}

	deadline := time.Now().Add(timeout)
	for {
		cur := s.Epoch.Load()
		if cur%2 != 0 {
			return newErr("poll", KindAgain, string(key))
		}
		if cur != start {
			return nil
		}
		if !time.Now().Before(deadline) {
			return newErr("poll", KindTimeout, string(key))
		}
		time.Sleep(pollInterval)
	}
}

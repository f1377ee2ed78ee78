package shm

import "testing"

func TestFnv1a64NeverReturnsZero(t *testing.T) {
	seen := make(map[uint64]bool)
	inputs := [][]byte{
		[]byte(""), []byte("a"), []byte("splinter"), []byte("__debug"),
		{0x00}, {0xff, 0xff, 0xff, 0xff},
	}
	for _, in := range inputs {
		h := fnv1a64(in)
		if h == 0 {
			t.Fatalf("fnv1a64(%q) = 0, want nonzero sentinel remap", in)
		}
		seen[h] = true
	}
	if len(seen) != len(inputs) {
		t.Fatalf("expected %d distinct hashes for distinct inputs, got %d", len(inputs), len(seen))
	}
}

func TestHashKeyDeterministic(t *testing.T) {
	a := hashKey("same-key")
	b := hashKey("same-key")
	if a != b {
		t.Fatalf("hashKey not deterministic: %d != %d", a, b)
	}
}

func TestProbeStartWithinRange(t *testing.T) {
	h := hashKey("anything")
	n := uint32(37)
	start := probeStart(h, n)
	if start >= n {
		t.Fatalf("probeStart(%d, %d) = %d, out of range", h, n, start)
	}
}

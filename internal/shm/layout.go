package shm

import (
	"sync/atomic"
	"unsafe"
)

// Format constants. version bumps whenever the on-shm layout changes;
// the format is host-endian and not guaranteed compatible across
// architectures.
const (
	magicConst    uint32 = 0x534c4e54
	layoutVersion uint32 = 1

	// keySize is the fixed key buffer length, including the nul
	// terminator.
	keySize = 64
)

// header is the fixed region at offset 0 of the mapping. Magic, Version,
// Slots and MaxValSz are written once at create and never change
// afterward, so they are plain fields; the rest are mutated concurrently
// and use the sync/atomic typed wrappers so their layout (same size and
// alignment as the bare integer) overlays directly onto shared memory.
type header struct {
	Magic    uint32
	Version  uint32
	Slots    uint32
	MaxValSz uint32

	Epoch      atomic.Uint64
	AutoVacuum atomic.Uint32
	_          [4]byte // pad so the following Uint64 fields are 8-byte aligned

	ParseFailures    atomic.Uint64
	LastFailureEpoch atomic.Uint64
}

const headerSize = unsafe.Sizeof(header{})

// slot is one fixed-capacity key-value entry. Hash==0 means empty.
// Epoch is the per-slot seqlock counter: even means no writer active,
// odd means a writer is in the critical section. ValOff is assigned at
// creation to i*V and never changes.
type slot struct {
	Hash   atomic.Uint64
	Epoch  atomic.Uint64
	ValOff uint32
	ValLen atomic.Uint32
	Key    [keySize]byte
}

const slotSize = unsafe.Sizeof(slot{})

func init() {
	if headerSize != 48 {
		panic("shm: header layout drifted from the documented 48 bytes")
	}
	if slotSize != 88 {
		panic("shm: slot layout drifted from the documented 88 bytes")
	}
}

// layout computes the total mapping size and gives typed access to the
// header, slot array and value arena within a mapped byte slice. It
// holds no data of its own beyond what it is handed; all state lives in
// the mapping.
type layout struct {
	data []byte
	n    uint32 // slot count
	v    uint32 // per-slot value capacity
}

// totalSize returns sizeof(Header) + slots*sizeof(Slot) + slots*maxValSz.
func totalSize(slots, maxValSz uint32) int64 {
	return int64(headerSize) + int64(slots)*int64(slotSize) + int64(slots)*int64(maxValSz)
}

func newLayout(data []byte, n, v uint32) *layout {
	return &layout{data: data, n: n, v: v}
}

func (l *layout) hdr() *header {
	return (*header)(unsafe.Pointer(&l.data[0]))
}

func (l *layout) slotAt(i uint32) *slot {
	off := int(headerSize) + int(i)*int(slotSize)
	return (*slot)(unsafe.Pointer(&l.data[off]))
}

// arenaRegion returns the full V-byte arena region belonging to slot i.
func (l *layout) arenaRegion(i uint32) []byte {
	base := int(headerSize) + int(l.n)*int(slotSize)
	off := base + int(i)*int(l.v)
	return l.data[off : off+int(l.v) : off+int(l.v)]
}

func (l *layout) slots() uint32    { return l.n }
func (l *layout) maxValSz() uint32 { return l.v }

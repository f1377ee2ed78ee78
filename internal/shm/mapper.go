package shm

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const defaultShmDir = "/dev/shm"

// mapping owns one mmap'd region. close unmaps it; the backing object
// itself is only ever removed externally, by an administrator or by
// whichever client chose to create it.
type mapping struct {
	*layout
	path string
}

// backingPath resolves the path backing a named store. In persistent
// mode (opts.persistentDir set) the backing object is a regular file at
// persistentDir/name rather than a POSIX shared-memory object; the
// layout is identical either way.
func backingPath(name string, o *options) string {
	if o.persistentDir != "" {
		return filepath.Join(o.persistentDir, name)
	}
	return filepath.Join(defaultShmDir, name)
}

// createMapping opens the named backing object with create-exclusive
// semantics, sizes it, maps it read/write shared, and writes a freshly
// initialized header and slot array.
func createMapping(name string, slots, maxValSz uint32, o *options) (*mapping, error) {
	if slots == 0 || maxValSz == 0 {
		return nil, newErr("create", KindInvalidArgument, "")
	}
	path := backingPath(name, o)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, wrapErr("create", KindInvalidArgument, err)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, 0o644)
	if err != nil {
		return nil, wrapErr("create", KindInvalidArgument, fmt.Errorf("open %s: %w", path, err))
	}
	defer unix.Close(fd)

	size := totalSize(slots, maxValSz)
	if err := unix.Ftruncate(fd, size); err != nil {
		_ = os.Remove(path)
		return nil, wrapErr("create", KindInvalidArgument, fmt.Errorf("truncate %s: %w", path, err))
	}

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = os.Remove(path)
		return nil, wrapErr("create", KindInvalidArgument, fmt.Errorf("mmap %s: %w", path, err))
	}

	l := newLayout(data, slots, maxValSz)
	h := l.hdr()
	h.Magic = magicConst
	h.Version = layoutVersion
	h.Slots = slots
	h.MaxValSz = maxValSz
	h.Epoch.Store(1)
	h.AutoVacuum.Store(1)
	h.ParseFailures.Store(0)
	h.LastFailureEpoch.Store(0)

	for i := uint32(0); i < slots; i++ {
		s := l.slotAt(i)
		s.Hash.Store(0)
		s.Epoch.Store(0)
		s.ValOff = i * maxValSz
		s.ValLen.Store(0)
		s.Key[0] = 0
	}

	o.logger.Debug("shm: created store", zap.String("path", path), zap.Uint32("slots", slots), zap.Uint32("max_val_sz", maxValSz))
	return &mapping{layout: l, path: path}, nil
}

// openMapping opens an existing backing object read/write, maps its
// full size, and validates the header. It never writes the header.
func openMapping(name string, o *options) (*mapping, error) {
	path := backingPath(name, o)

	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, wrapErr("open", KindInvalidArgument, fmt.Errorf("open %s: %w", path, err))
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, wrapErr("open", KindInvalidArgument, fmt.Errorf("stat %s: %w", path, err))
	}
	size := st.Size
	if size < int64(headerSize) {
		return nil, newErr("open", KindCorrupt, "")
	}

	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, wrapErr("open", KindInvalidArgument, fmt.Errorf("mmap %s: %w", path, err))
	}

	probe := newLayout(data, 0, 0)
	h := probe.hdr()
	if h.Magic != magicConst || h.Version != layoutVersion {
		_ = unix.Munmap(data)
		o.logger.Error("shm: header validation failed at open", zap.String("path", path), zap.Uint32("magic", h.Magic), zap.Uint32("version", h.Version))
		return nil, newErr("open", KindCorrupt, "")
	}

	l := newLayout(data, h.Slots, h.MaxValSz)
	wantSize := totalSize(h.Slots, h.MaxValSz)
	if wantSize != size {
		_ = unix.Munmap(data)
		return nil, newErr("open", KindCorrupt, "")
	}

	o.logger.Debug("shm: opened store", zap.String("path", path), zap.Uint32("slots", h.Slots))
	return &mapping{layout: l, path: path}, nil
}

func (m *mapping) close() error {
	if m == nil || m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

package shm

import "go.uber.org/zap"

// options bundles the knobs accepted by Create/Open/CreateOrOpen/
// OpenOrCreate. All fields have usable zero values; Option only narrows
// them.
type options struct {
	logger        *zap.Logger
	persistentDir string
}

// Option configures a Store at Create/Open time.
type Option func(*options)

// WithLogger plugs a structured logger for slow-path events: header
// validation failures, Full/Timeout errors, store open/close. The hot
// path (Set/Get/Unset/Poll's inner loop) never logs, opted in or not.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPersistentDir switches the backing object from a POSIX
// shared-memory object under /dev/shm to a regular file under dir.
// The mmap call and the layout are identical either way; only the
// opened path differs, so the file survives reboots.
func WithPersistentDir(dir string) Option {
	return func(o *options) {
		o.persistentDir = dir
	}
}

func newOptions(opts ...Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

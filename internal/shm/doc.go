// Package shm implements the Splinter shared-memory key-value bus: the
// header/slot/arena memory layout, the per-slot seqlock write/read
// protocol, linear-probe placement, and the diagnostic snapshot
// primitives. Multiple readers and at most one writer per slot operate
// concurrently against a fixed-capacity table mapped from a POSIX
// shared-memory object (or, in persistent mode, a regular file).
//
// Readers never block writers and writers never block readers; a
// concurrent write in progress is surfaced to readers as ErrAgain
// rather than by waiting.
package shm

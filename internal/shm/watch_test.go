package shm_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinter-kv/splinter/internal/shm"
)

func TestStore_PollReturnsTimeoutWhenUnchanged(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, 8, 8)
	require.NoError(t, s.Set("k", []byte("v")))

	err := s.Poll("k", 30*time.Millisecond)
	assert.True(t, errors.Is(err, shm.ErrTimeout))
}

func TestStore_PollReturnsNotFoundForMissingKey(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, 8, 8)

	err := s.Poll("missing", 30*time.Millisecond)
	assert.True(t, errors.Is(err, shm.ErrNotFound))
}

func TestStore_PollWakesOnChange(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, 8, 8)
	require.NoError(t, s.Set("k", []byte("v1")))

	done := make(chan error, 1)
	go func() {
		done <- s.Poll("k", time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Set("k", []byte("v2")))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poll did not wake up after a concurrent set")
	}
}

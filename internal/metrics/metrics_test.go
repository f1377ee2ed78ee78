package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinter-kv/splinter/internal/metrics"
)

func TestNoop_NeverPanics(t *testing.T) {
	s := metrics.Noop
	s.IncSet()
	s.IncGet()
	s.IncUnset()
	s.IncAgain()
	s.IncFull()
	s.IncNotFound()
	s.IncTimeout()
	s.IncIntegrityFailure()
	s.SetLiveKeys(3)
}

func TestNew_NilRegistryReturnsNoop(t *testing.T) {
	s := metrics.New(nil)
	assert.Equal(t, metrics.Noop, s)
}

func TestNew_RegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := metrics.New(reg)
	s.IncSet()
	s.IncAgain()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

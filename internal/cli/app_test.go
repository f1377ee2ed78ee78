package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinter-kv/splinter/internal/config"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Bus = "dispatch-test"
	cfg.Persistent = t.TempDir()

	var out, errOut bytes.Buffer
	app := NewApp(cfg, t.TempDir(), &out, &errOut, nil, nil)
	t.Cleanup(func() { _ = app.Close() })
	return app, &out, &errOut
}

func TestApp_DispatchUnknownCommand(t *testing.T) {
	app, _, errOut := newTestApp(t)
	code := app.Dispatch([]string{"bogus"})
	assert.Equal(t, ExitUserError, code)
	assert.Contains(t, errOut.String(), "unknown command")
}

func TestApp_DispatchRequiresOpenStoreForSet(t *testing.T) {
	app, _, errOut := newTestApp(t)
	code := app.Dispatch([]string{"set", "k", "v"})
	assert.Equal(t, ExitUserError, code)
	assert.Contains(t, errOut.String(), "no store open")
}

func TestApp_InitThenSetGetRoundTrip(t *testing.T) {
	app, out, _ := newTestApp(t)

	code := app.Dispatch([]string{"init", "roundtrip", "8", "64"})
	require.Equal(t, ExitOK, code)

	code = app.Dispatch([]string{"set", "k", "hello"})
	require.Equal(t, ExitOK, code)

	out.Reset()
	code = app.Dispatch([]string{"get", "k"})
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out.String(), "hello")
}

func TestApp_ExitSentinel(t *testing.T) {
	app, _, _ := newTestApp(t)
	code := app.Dispatch([]string{"exit"})
	assert.Equal(t, -1, code)
}

func TestApp_DispatchLineRecordsHistory(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.DispatchLine("help")
	app.DispatchLine("  ")
	assert.Equal(t, []string{"help"}, app.History())
}

func TestApp_ResolveNameAppliesPrefix(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Cfg.NSPrefix = "ns_"
	assert.Equal(t, "ns_bus", app.resolveName("bus"))
}

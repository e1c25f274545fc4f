package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/acttree/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(cfg *config.Config) *Registry {
	r := NewRegistry()
	r.Register(NewHelpCommand(r))
	r.Register(NewVersionCommand("1.2.3"))
	r.Register(NewConfigCommand(cfg, ""))
	r.Register(NewRunCommand(cfg))
	r.Register(NewDumpCommand(cfg))
	return r
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := testRegistry(config.NewConfig())
	assert.Equal(t, []string{"config", "dump", "help", "run", "version"}, r.List())

	cmd, err := r.Get("run")
	require.NoError(t, err)
	assert.Equal(t, "run", cmd.Name())

	_, err = r.Get("nope")
	require.EqualError(t, err, "command not found: nope")

	r.Register(NewVersionCommand("2.0.0"))
	assert.Len(t, r.List(), 5)
}

func TestHelpCommand_ListsCommands(t *testing.T) {
	t.Parallel()

	r := testRegistry(config.NewConfig())
	help, _ := r.Get("help")
	stdout, stderr, err := execute(t, help)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Available commands:")
	for _, name := range r.List() {
		assert.Contains(t, stdout, "  "+name+" ")
	}
	assert.Contains(t, stdout, "Run tree scripts until every tree concludes")
}

func TestHelpCommand_SpecificCommand(t *testing.T) {
	t.Parallel()

	r := testRegistry(config.NewConfig())
	help, _ := r.Get("help")

	stdout, _, err := execute(t, help, "run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Command: run\n")
	assert.Contains(t, stdout, "Usage: run [options] script.js...\n")
	assert.Contains(t, stdout, "Flags:")
	for _, flag := range []string{"-interval", "-max-ticks", "-log-file", "-log-level", "-color", "-timeout"} {
		assert.Contains(t, stdout, flag)
	}

	stdout, _, err = execute(t, help, "version")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Flags:")
}

func TestHelpCommand_Unknown(t *testing.T) {
	t.Parallel()

	r := testRegistry(config.NewConfig())
	help, _ := r.Get("help")
	_, stderr, err := execute(t, help, "missing")
	require.Error(t, err)
	assert.Equal(t, "Unknown command: missing\n", stderr)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, NewVersionCommand("1.2.3"))
	require.NoError(t, err)
	assert.Equal(t, "acttree version 1.2.3\n", stdout)

	_, stderr, err := execute(t, NewVersionCommand("1.2.3"), "extra")
	require.Error(t, err)
	assert.Contains(t, stderr, "unexpected arguments")
}

func TestConfigCommand_Show(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SetGlobalOption("tick.max", "9")
	cfg.SetGlobalOption("color", "never")
	cfg.SetSectionOption("run", "summary", "false")

	stdout, _, err := execute(t, NewConfigCommand(cfg, ""), "-global")
	require.NoError(t, err)
	assert.Equal(t, "Global configuration:\n  color: never\n  tick.max: 9\n", stdout)

	stdout, _, err = execute(t, NewConfigCommand(cfg, ""), "-all")
	require.NoError(t, err)
	assert.Equal(t, "Global configuration:\n  color: never\n  tick.max: 9\n\nSection configuration:\n  [run]\n    summary: false\n", stdout)

	stdout, _, err = execute(t, NewConfigCommand(cfg, ""))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration management:")
}

func TestConfigCommand_Get(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SetSectionOption("dump", "style", "plain")
	cfg.SetGlobalOption("empty", "")

	for _, tc := range []struct {
		key  string
		want string
	}{
		{"tick.interval", "tick.interval: 10ms\n"},
		{"run.summary", "run.summary: true\n"},
		{"dump.style", "dump.style: plain\n"},
		{"empty", "empty: \n"},
		{"missing", "Configuration key 'missing' not found\n"},
	} {
		stdout, _, err := execute(t, NewConfigCommand(cfg, ""), tc.key)
		require.NoError(t, err, tc.key)
		assert.Equal(t, tc.want, stdout, tc.key)
	}
}

func TestConfigCommand_Set(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("color never\n\n[run]\nsummary false\n"), 0o644))
	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)

	stdout, _, err := execute(t, NewConfigCommand(cfg, path), "tick.max", "25")
	require.NoError(t, err)
	assert.Equal(t, "Set configuration: tick.max = 25\n", stdout)
	assert.Equal(t, "25", cfg.Global["tick.max"])

	reloaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "25", reloaded.Global["tick.max"])
	assert.Equal(t, "false", reloaded.Sections["run"]["summary"])
}

func TestConfigCommand_TooManyArgs(t *testing.T) {
	t.Parallel()

	_, stderr, err := execute(t, NewConfigCommand(config.NewConfig(), ""), "a", "b", "c")
	require.Error(t, err)
	assert.Equal(t, "Invalid number of arguments\n", stderr)
}

func TestConfigCommand_ValidateAndSchema(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	stdout, _, err := execute(t, NewConfigCommand(cfg, ""), "validate")
	require.NoError(t, err)
	assert.Equal(t, "Configuration is valid.\n", stdout)

	cfg.SetGlobalOption("tick.max", "lots")
	cfg.SetGlobalOption("mystery", "1")
	stdout, _, err = execute(t, NewConfigCommand(cfg, ""), "validate")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Configuration has 2 issue(s):\n"), stdout)

	stdout, _, err = execute(t, NewConfigCommand(cfg, ""), "schema")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSchema().FormatHelp(), stdout)
}

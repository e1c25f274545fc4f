package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/acttree/internal/act"
	"github.com/joeycumines/acttree/internal/builtin"
	"github.com/joeycumines/acttree/internal/builtin/bt"
)

// script is a loaded tree script, with its own event loop and bridge.
type script struct {
	path   string
	loop   *eventloop.EventLoop
	bridge *bt.Bridge
}

// loadScript runs the file at path on a fresh event loop and returns the
// tree it passed to setRoot. Script console output goes to logger, and
// the acttree/text module is available alongside acttree.
func loadScript(ctx context.Context, path string, timeout time.Duration, logger *slog.Logger) (*script, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	logger = logger.With("script", filepath.Base(path))

	registry := require.NewRegistry()
	builtin.Register(registry, logger)
	loop := eventloop.NewEventLoop(
		eventloop.WithRegistry(registry),
		eventloop.EnableConsole(true),
	)
	loop.Start()

	bridge, err := bt.NewBridgeWithEventLoop(ctx, loop, registry,
		bt.WithLogger(logger),
		bt.WithTimeout(timeout),
	)
	if err != nil {
		loop.Stop()
		return nil, err
	}
	s := &script{path: path, loop: loop, bridge: bridge}

	if err := bridge.LoadScript(path, string(code)); err != nil {
		s.close()
		return nil, err
	}
	if bridge.Root() == nil {
		s.close()
		return nil, fmt.Errorf("%s: script did not call setRoot", path)
	}
	logger.Debug("script loaded", "root", bridge.Root().Name())
	return s, nil
}

func (s *script) root() *act.Node { return s.bridge.Root() }

func (s *script) close() {
	s.bridge.Stop()
	s.loop.Stop()
}

// loadScripts loads every path, closing what was already loaded on failure.
func loadScripts(ctx context.Context, paths []string, timeout time.Duration, logger *slog.Logger) ([]*script, error) {
	scripts := make([]*script, 0, len(paths))
	for _, path := range paths {
		s, err := loadScript(ctx, path, timeout, logger)
		if err != nil {
			closeScripts(scripts)
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

func closeScripts(scripts []*script) {
	for _, s := range scripts {
		s.close()
	}
}

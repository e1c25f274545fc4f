// Package builtin registers the native modules available to tree scripts,
// other than the acttree module itself, which each bt.Bridge registers.
package builtin

import (
	"log/slog"

	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/acttree/internal/builtin/text"
)

// Register registers the script support modules with registry. It must be
// called before the event loop is created from registry, so that the loop's
// console global is built from the printer registered here, which forwards
// console output to logger.
func Register(registry *require.Registry, logger *slog.Logger) {
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(consolePrinter{logger}))
	registry.RegisterNativeModule(text.ModuleName, text.Require)
}

// consolePrinter routes script console output to a logger.
type consolePrinter struct {
	logger *slog.Logger
}

func (p consolePrinter) Log(s string)   { p.logger.Info(s, "source", "console") }
func (p consolePrinter) Warn(s string)  { p.logger.Warn(s, "source", "console") }
func (p consolePrinter) Error(s string) { p.logger.Error(s, "source", "console") }

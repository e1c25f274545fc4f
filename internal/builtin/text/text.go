// Package text is the "acttree/text" script module: display width aware
// string helpers, for scripts that format their own console output.
//
//	const text = require('acttree/text');
//	text.width('你好');              // 4
//	text.truncate('patrolling', 6);  // "pat..."
//	text.pad('ok', 4);               // "ok  "
package text

import (
	"strings"

	"github.com/dop251/goja"
	"github.com/rivo/uniseg"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "acttree/text"

// Width returns the monospace display width of s.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most maxWidth columns, ending it with tail when
// anything was cut. Grapheme clusters are never split. A tail wider than
// maxWidth is returned alone.
func Truncate(s string, maxWidth int, tail string) string {
	if uniseg.StringWidth(s) <= maxWidth {
		return s
	}
	room := maxWidth - uniseg.StringWidth(tail)
	if room < 0 {
		return tail
	}
	var (
		b       strings.Builder
		used    int
		cluster string
		width   int
		state   = -1
	)
	for s != "" {
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if used+width > room {
			break
		}
		used += width
		b.WriteString(cluster)
	}
	b.WriteString(tail)
	return b.String()
}

// Pad right-pads s with spaces to width columns.
func Pad(s string, width int) string {
	if n := width - uniseg.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// Require is the module loader.
func Require(runtime *goja.Runtime, module *goja.Object) {
	exports := module.Get("exports").ToObject(runtime)

	_ = exports.Set("width", func(call goja.FunctionCall) goja.Value {
		return runtime.ToValue(Width(stringArg(call, 0)))
	})

	_ = exports.Set("truncate", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(runtime.NewTypeError("truncate requires a string and a width"))
		}
		tail := "..."
		if len(call.Arguments) > 2 {
			tail = call.Argument(2).String()
		}
		return runtime.ToValue(Truncate(call.Argument(0).String(), int(call.Argument(1).ToInteger()), tail))
	})

	_ = exports.Set("pad", func(call goja.FunctionCall) goja.Value {
		return runtime.ToValue(Pad(stringArg(call, 0), int(call.Argument(1).ToInteger())))
	})
}

func stringArg(call goja.FunctionCall, i int) string {
	if v := call.Argument(i); !goja.IsUndefined(v) && !goja.IsNull(v) {
		return v.String()
	}
	return ""
}

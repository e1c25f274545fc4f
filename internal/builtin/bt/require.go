package bt

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/acttree/internal/act"
)

// ModuleLoader returns the require.ModuleLoader for the acttree module:
//
//   - running, succeeded, failed: status strings leaves may return
//   - unbounded: the loop bound that repeats until failure
//   - blackboard: the bridge's Blackboard
//   - leaf([name,] fn): fn(blackboard) returns a status string or a boolean
//   - condition([name,] expression): an expr-lang expression over the blackboard
//   - selector, sequence, parallel, ignoreFailure, not ([name,] ...children)
//   - loop([name,] maxIterations, ...children)
//   - dump(node): the indented listing of node
//   - advance(node), reset(node): drive a tree from script
//   - setRoot(node): hands node to the Go side, see Bridge.Root
//
// Constructors throw on invalid arguments, including a child that already
// belongs to another node.
func (b *Bridge) ModuleLoader() require.ModuleLoader {
	return func(runtime *goja.Runtime, module *goja.Object) {
		exports := module.Get("exports").(*goja.Object)
		blackboard := b.bb.ExposeToJS(runtime)

		throw := func(err error) {
			panic(runtime.NewGoError(err))
		}
		typeError := func(format string, args ...any) {
			panic(runtime.NewTypeError("%s", fmt.Sprintf(format, args...)))
		}
		node := func(n *act.Node, err error) goja.Value {
			if err != nil {
				throw(err)
			}
			return runtime.ToValue(n)
		}

		_ = exports.Set("running", act.Running.String())
		_ = exports.Set("succeeded", act.Succeeded.String())
		_ = exports.Set("failed", act.Failed.String())
		_ = exports.Set("unbounded", act.Unbounded)
		_ = exports.Set("blackboard", blackboard)

		_ = exports.Set("leaf", func(call goja.FunctionCall) goja.Value {
			name, args := optionalName(call.Arguments)
			if len(args) != 1 {
				typeError("leaf requires a function")
			}
			fn, ok := goja.AssertFunction(args[0])
			if !ok {
				typeError("leaf requires a function, got %s", args[0])
			}
			return node(b.newJSLeaf(runtime, name, fn, blackboard))
		})

		_ = exports.Set("condition", func(call goja.FunctionCall) goja.Value {
			var name, expression string
			switch len(call.Arguments) {
			case 1:
				expression = call.Argument(0).String()
			case 2:
				name, expression = call.Argument(0).String(), call.Argument(1).String()
			default:
				typeError("condition requires an expression")
			}
			return node(act.NewCondition(name, expression, b.bb.Snapshot,
				act.WithConditionLogger(b.logger)))
		})

		composite := func(build func(name string, children ...*act.Node) (*act.Node, error)) func(goja.FunctionCall) goja.Value {
			return func(call goja.FunctionCall) goja.Value {
				name, args := optionalName(call.Arguments)
				children, err := childrenUnwrap(args)
				if err != nil {
					typeError("%v", err)
				}
				return node(build(name, children...))
			}
		}
		_ = exports.Set("selector", composite(act.NewSelector))
		_ = exports.Set("sequence", composite(act.NewSequence))
		_ = exports.Set("parallel", composite(act.NewParallel))
		_ = exports.Set("ignoreFailure", composite(act.NewIgnoreFailure))
		_ = exports.Set("not", composite(act.NewNegate))

		_ = exports.Set("loop", func(call goja.FunctionCall) goja.Value {
			name, args := optionalName(call.Arguments)
			if len(args) == 0 {
				typeError("loop requires maxIterations")
			}
			bound, ok := args[0].Export().(int64)
			if !ok {
				typeError("loop maxIterations must be an integer, got %v", args[0])
			}
			children, err := childrenUnwrap(args[1:])
			if err != nil {
				typeError("%v", err)
			}
			return node(act.NewLoop(name, int(bound), children...))
		})

		unwrapArg := func(call goja.FunctionCall, fn string) *act.Node {
			n, err := nodeUnwrap(call.Argument(0))
			if err != nil {
				typeError("%s: %v", fn, err)
			}
			return n
		}

		_ = exports.Set("dump", func(call goja.FunctionCall) goja.Value {
			return runtime.ToValue(act.Sprint(unwrapArg(call, "dump")))
		})

		_ = exports.Set("advance", func(call goja.FunctionCall) goja.Value {
			status, err := unwrapArg(call, "advance").Advance()
			if err != nil {
				throw(err)
			}
			return runtime.ToValue(status.String())
		})

		_ = exports.Set("reset", func(call goja.FunctionCall) goja.Value {
			unwrapArg(call, "reset").Reset()
			return goja.Undefined()
		})

		_ = exports.Set("setRoot", func(call goja.FunctionCall) goja.Value {
			b.setRoot(unwrapArg(call, "setRoot"))
			return goja.Undefined()
		})
	}
}

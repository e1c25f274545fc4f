package bt

import (
	"github.com/dop251/goja"
	"github.com/joeycumines/acttree/internal/act"
)

// newJSLeaf wraps fn as an act Leaf. Each activation calls fn(blackboard) on
// the event loop; when the tree is advanced from the loop itself (a script
// calling advance) the call happens inline.
//
// The Leaf contract only admits Succeeded or Failed, so a thrown error, a
// "running" result or any unrecognised value is logged and reported as
// Failed.
func (b *Bridge) newJSLeaf(vm *goja.Runtime, name string, fn goja.Callable, blackboard goja.Value) (*act.Node, error) {
	var leaf *act.Node
	leaf, err := act.NewLeaf(name, func() act.Status {
		status := act.Failed
		err := b.TryRunOnLoopSync(vm, func(vm *goja.Runtime) error {
			result, err := fn(goja.Undefined(), blackboard)
			if err != nil {
				return err
			}
			status, err = statusFromJS(result)
			return err
		})
		switch {
		case err != nil:
			b.logger.Warn("leaf failed", "leaf", leaf.Name(), "error", err)
			return act.Failed
		case !status.Terminal():
			b.logger.Warn("leaf returned a non-terminal status", "leaf", leaf.Name(), "status", status)
			return act.Failed
		}
		return status
	})
	return leaf, err
}

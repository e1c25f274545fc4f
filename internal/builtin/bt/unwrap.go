package bt

import (
	"fmt"
	"strconv"

	"github.com/dop251/goja"
	"github.com/joeycumines/acttree/internal/act"
)

// nodeUnwrap extracts the act node wrapped by a constructor of the acttree
// module.
func nodeUnwrap(val goja.Value) (*act.Node, error) {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, fmt.Errorf("expected a node, got %v", val)
	}
	n, ok := val.Export().(*act.Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("expected a node, got %T", val.Export())
	}
	return n, nil
}

// childrenUnwrap converts constructor arguments to nodes. A single array
// argument is spread, so both sequence(a, b) and sequence([a, b]) work.
func childrenUnwrap(args []goja.Value) ([]*act.Node, error) {
	if len(args) == 1 {
		if obj, ok := args[0].(*goja.Object); ok && obj.ClassName() == "Array" {
			length := obj.Get("length").ToInteger()
			spread := make([]goja.Value, 0, length)
			for i := int64(0); i < length; i++ {
				spread = append(spread, obj.Get(strconv.FormatInt(i, 10)))
			}
			args = spread
		}
	}
	children := make([]*act.Node, 0, len(args))
	for i, arg := range args {
		n, err := nodeUnwrap(arg)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, n)
	}
	return children, nil
}

// optionalName strips a leading string argument and returns it as the node
// name.
func optionalName(args []goja.Value) (string, []goja.Value) {
	if len(args) > 0 {
		if s, ok := args[0].Export().(string); ok {
			return s, args[1:]
		}
	}
	return "", args
}

// statusFromJS maps a leaf's return value. Status strings and booleans are
// accepted, anything else is an error.
func statusFromJS(val goja.Value) (act.Status, error) {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return act.Failed, fmt.Errorf("%w: leaf returned %v", act.ErrInvalidStatus, val)
	}
	switch v := val.Export().(type) {
	case bool:
		if v {
			return act.Succeeded, nil
		}
		return act.Failed, nil
	case string:
		return act.ParseStatus(v)
	default:
		return act.Failed, fmt.Errorf("%w: leaf returned %T", act.ErrInvalidStatus, v)
	}
}

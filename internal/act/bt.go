package act

import (
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"
)

// BT converts s to the equivalent go-behaviortree status.
func (s Status) BT() bt.Status {
	switch s {
	case Running:
		return bt.Running
	case Succeeded:
		return bt.Success
	default:
		return bt.Failure
	}
}

// FromBTStatus converts a go-behaviortree status.
func FromBTStatus(s bt.Status) (Status, error) {
	switch s {
	case bt.Running:
		return Running, nil
	case bt.Success:
		return Succeeded, nil
	case bt.Failure:
		return Failed, nil
	default:
		return Failed, fmt.Errorf("%w: go-behaviortree status %d", ErrInvalidStatus, int(s))
	}
}

// ToBT exposes root as a go-behaviortree leaf. Each tick is one Advance.
// go-behaviortree nodes are re-tickable, so root is Reset after it reports a
// terminal status or an error, and the next tick starts a new activation.
func ToBT(root *Node) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		status, err := root.Advance()
		if err != nil || status.Terminal() {
			root.Reset()
		}
		return status.BT(), err
	})
}

// NewBTLeaf returns a Leaf that ticks node once per activation. The Leaf
// contract has no Running outcome, so a node that is still running, or that
// returns an error, is reported as Failed.
func NewBTLeaf(name string, node bt.Node) (*Node, error) {
	if node == nil {
		return nil, ErrNilCallable
	}
	return NewLeaf(name, func() Status {
		status, err := node.Tick()
		if err != nil || status != bt.Success {
			return Failed
		}
		return Succeeded
	})
}

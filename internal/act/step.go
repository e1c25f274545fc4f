package act

import (
	"fmt"
)

// Advance performs one step and returns its status. Once Succeeded or Failed
// is returned the node is exhausted, and further calls return ErrExhausted
// until Reset. A suspended node returns Running without doing any work.
//
// A non-nil error is always paired with Failed, and ends the activation.
func (n *Node) Advance() (Status, error) {
	switch {
	case n.busy:
		return Failed, fmt.Errorf("%s: %w", n.name, ErrInFlight)
	case n.state == stateDone:
		return Failed, fmt.Errorf("%s: %w", n.name, ErrExhausted)
	case n.suspends > 0:
		return Running, nil
	}

	n.busy = true
	defer func() { n.busy = false }()
	n.state = stateRunning

	var (
		status Status
		err    error
	)
	switch n.kind {
	case KindLeaf:
		status, err = n.stepLeaf()
	case KindSelector:
		status, err = n.stepSelector()
	case KindSequence:
		status, err = n.stepSequence()
	case KindParallel:
		status, err = n.stepParallel()
	case KindLoop:
		status, err = n.stepLoop()
	case KindIgnoreFailure:
		status, err = n.stepIgnoreFailure()
	case KindNegate:
		status, err = n.stepNegate()
	default:
		panic(fmt.Sprintf("act: unknown node kind %d", int(n.kind)))
	}

	if err != nil {
		n.state = stateDone
		return Failed, fmt.Errorf("%s: %w", n.name, err)
	}
	if status.Terminal() {
		n.state = stateDone
	}
	return status, nil
}

func (n *Node) stepLeaf() (Status, error) {
	switch status := n.fn(); status {
	case Succeeded, Failed:
		return status, nil
	default:
		return Failed, fmt.Errorf("%w: leaf returned %v", ErrInvalidStatus, status)
	}
}

func (n *Node) stepSelector() (Status, error) {
	if n.cursor >= len(n.children) {
		return Failed, nil
	}
	status, err := n.children[n.cursor].Advance()
	if err != nil {
		return Failed, err
	}
	switch status {
	case Succeeded:
		return Succeeded, nil
	case Failed:
		n.cursor++
	}
	return Running, nil
}

// stepSequence is shared by Sequence and both decorators, which only differ
// in how they remap the terminal status of the pass.
func (n *Node) stepSequence() (Status, error) {
	if n.cursor >= len(n.children) {
		return Succeeded, nil
	}
	status, err := n.children[n.cursor].Advance()
	if err != nil {
		return Failed, err
	}
	switch status {
	case Failed:
		return Failed, nil
	case Succeeded:
		n.cursor++
	}
	return Running, nil
}

// stepParallel performs exactly one sweep. Children that concluded during an
// earlier sweep are skipped.
func (n *Node) stepParallel() (Status, error) {
	for _, child := range n.children {
		if child.state == stateDone {
			continue
		}
		status, err := child.Advance()
		if err != nil {
			return Failed, err
		}
		switch status {
		case Succeeded:
			return Succeeded, nil
		case Failed:
			n.failures++
		}
	}
	if n.failures >= len(n.children) {
		return Failed, nil
	}
	return Running, nil
}

func (n *Node) stepLoop() (Status, error) {
	if n.cursor == 0 {
		// pass boundary
		if n.maxIterations != Unbounded && n.passes >= n.maxIterations {
			return Succeeded, nil
		}
		if len(n.children) == 0 {
			if n.maxIterations == Unbounded {
				return Failed, ErrEmptyLoop
			}
			n.passes = n.maxIterations
			return Succeeded, nil
		}
	}
	status, err := n.children[n.cursor].Advance()
	if err != nil {
		return Failed, err
	}
	switch status {
	case Failed:
		return Failed, nil
	case Succeeded:
		n.cursor++
		if n.cursor == len(n.children) {
			for _, child := range n.children {
				child.Reset()
			}
			n.cursor = 0
			n.passes++
		}
	}
	return Running, nil
}

func (n *Node) stepIgnoreFailure() (Status, error) {
	status, err := n.stepSequence()
	if err != nil {
		return Failed, err
	}
	if status == Failed {
		return Succeeded, nil
	}
	return status, nil
}

func (n *Node) stepNegate() (Status, error) {
	status, err := n.stepSequence()
	if err != nil {
		return Failed, err
	}
	switch status {
	case Succeeded:
		return Failed, nil
	case Failed:
		return Succeeded, nil
	}
	return status, nil
}

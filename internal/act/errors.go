package act

import (
	"errors"
)

var (
	// ErrExhausted is returned by Advance on a node that already reported a
	// terminal status and has not been Reset since.
	ErrExhausted = errors.New("act: node exhausted")

	// ErrInvalidStatus is returned when a leaf function produces anything other
	// than Succeeded or Failed.
	ErrInvalidStatus = errors.New("act: invalid status")

	// ErrEmptyLoop is returned by Advance on an Unbounded loop with no children.
	ErrEmptyLoop = errors.New("act: unbounded loop has no children")

	// ErrInvalidIterations is returned for a negative loop bound other than
	// Unbounded.
	ErrInvalidIterations = errors.New("act: invalid loop iterations")

	// ErrNilCallable is returned when constructing a leaf without a function.
	ErrNilCallable = errors.New("act: nil leaf function")

	// ErrNilChild is returned when a nil node is given as a child.
	ErrNilChild = errors.New("act: nil child")

	// ErrAlreadyOwned is returned when a node that already has a parent is
	// added as a child.
	ErrAlreadyOwned = errors.New("act: child already has a parent")

	// ErrCycle is returned when adding a child would make a node its own
	// descendant.
	ErrCycle = errors.New("act: child is an ancestor")

	// ErrInFlight is returned when a node is re-entered during Advance, or its
	// children are modified mid-activation.
	ErrInFlight = errors.New("act: node is in flight")

	// ErrNotChild is returned by RemoveChild for a node that is not a child.
	ErrNotChild = errors.New("act: not a child")

	// ErrLeafChildren is returned when adding children to a leaf.
	ErrLeafChildren = errors.New("act: leaf nodes cannot have children")
)

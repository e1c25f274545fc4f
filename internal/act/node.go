package act

import (
	"fmt"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindLeaf Kind = iota + 1
	KindSelector
	KindSequence
	KindParallel
	KindLoop
	KindIgnoreFailure
	KindNegate
)

// String returns the default node name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindSelector:
		return "Selector"
	case KindSequence:
		return "Sequence"
	case KindParallel:
		return "Parallel"
	case KindLoop:
		return "Loop"
	case KindIgnoreFailure:
		return "IgnoreFailure"
	case KindNegate:
		return "Negate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Unbounded is the Loop bound that repeats until a child fails.
const Unbounded = -1

// state is the activation state of a node.
type state uint8

const (
	stateFresh state = iota
	stateRunning
	stateDone
)

// Node is a single act in a behavior tree. The zero value is not usable,
// construct nodes with NewLeaf, NewSelector, NewSequence, NewParallel,
// NewLoop, NewIgnoreFailure or NewNegate.
type Node struct {
	name     string
	kind     Kind
	parent   *Node
	children []*Node

	// fn is only set for KindLeaf.
	fn func() Status

	state state
	// cursor indexes the child currently being driven, for every kind except
	// Leaf and Parallel.
	cursor int
	// passes counts completed Loop passes.
	passes int
	// maxIterations is the Loop bound, or Unbounded.
	maxIterations int
	// failures counts children of a Parallel that reported Failed.
	failures int

	// suspends counts outstanding Suspend calls, so that a parent's
	// Suspend/Resume pair leaves a directly suspended child paused.
	suspends int
	busy     bool
}

// NewLeaf wraps fn, which must return Succeeded or Failed. The function is
// called exactly once per activation.
func NewLeaf(name string, fn func() Status) (*Node, error) {
	if fn == nil {
		return nil, ErrNilCallable
	}
	n := newNode(KindLeaf, name)
	n.fn = fn
	return n, nil
}

// NewSelector returns a node that succeeds as soon as one child succeeds.
func NewSelector(name string, children ...*Node) (*Node, error) {
	return newComposite(KindSelector, name, children)
}

// NewSequence returns a node that fails as soon as one child fails.
func NewSequence(name string, children ...*Node) (*Node, error) {
	return newComposite(KindSequence, name, children)
}

// NewParallel returns a node that interleaves its children, succeeding on
// the first child success and failing once every child failed.
func NewParallel(name string, children ...*Node) (*Node, error) {
	return newComposite(KindParallel, name, children)
}

// NewLoop returns a node that repeats passes over its children until
// maxIterations passes have completed, or forever if maxIterations is
// Unbounded. Any child failure fails the loop.
func NewLoop(name string, maxIterations int, children ...*Node) (*Node, error) {
	if maxIterations < 0 && maxIterations != Unbounded {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, maxIterations)
	}
	n, err := newComposite(KindLoop, name, children)
	if err != nil {
		return nil, err
	}
	n.maxIterations = maxIterations
	return n, nil
}

// NewIgnoreFailure returns a node that runs its children like a Sequence and
// reports a failed pass as Succeeded.
func NewIgnoreFailure(name string, children ...*Node) (*Node, error) {
	return newComposite(KindIgnoreFailure, name, children)
}

// NewNegate returns a node that runs its children like a Sequence and swaps
// the pass's Succeeded and Failed.
func NewNegate(name string, children ...*Node) (*Node, error) {
	return newComposite(KindNegate, name, children)
}

// Must panics if err is non-nil, otherwise it returns n. It is intended for
// trees built from literals.
func Must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

func newNode(kind Kind, name string) *Node {
	if name == "" {
		name = kind.String()
	}
	return &Node{name: name, kind: kind}
}

func newComposite(kind Kind, name string, children []*Node) (*Node, error) {
	n := newNode(kind, name)
	n.children = make([]*Node, 0, len(children))
	for i, child := range children {
		if err := n.AddChild(child); err != nil {
			for _, added := range n.children {
				added.parent = nil
			}
			return nil, fmt.Errorf("%s: child %d: %w", n.name, i, err)
		}
	}
	return n, nil
}

// Name returns the display name of the node.
func (n *Node) Name() string { return n.name }

// Kind returns the variant of the node.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Exhausted reports whether the node reported a terminal status during its
// current activation.
func (n *Node) Exhausted() bool { return n.state == stateDone }

// Started reports whether the node has been advanced since it was last fresh.
func (n *Node) Started() bool { return n.state != stateFresh }

// Suspended reports whether the node is suspended.
func (n *Node) Suspended() bool { return n.suspends > 0 }

// Passes returns the number of completed Loop passes in the current
// activation. It is always zero for other kinds.
func (n *Node) Passes() int { return n.passes }

// MaxIterations returns the Loop bound. It is zero for other kinds.
func (n *Node) MaxIterations() int { return n.maxIterations }

// Current returns the child being driven, or nil if there is none. Parallel
// nodes drive every child and always return nil.
func (n *Node) Current() *Node {
	switch n.kind {
	case KindLeaf, KindParallel:
		return nil
	}
	if n.state != stateRunning || n.cursor >= len(n.children) {
		return nil
	}
	return n.children[n.cursor]
}

// AddChild appends child. The child must not already have a parent, must not
// be n or one of its ancestors, and n must not be mid-activation.
func (n *Node) AddChild(child *Node) error {
	switch {
	case child == nil:
		return ErrNilChild
	case n.kind == KindLeaf:
		return ErrLeafChildren
	case n.busy || n.state == stateRunning:
		return ErrInFlight
	case child.parent != nil:
		return fmt.Errorf("%w: %s is owned by %s", ErrAlreadyOwned, child.name, child.parent.name)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: %s", ErrCycle, child.name)
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// RemoveChild detaches child from n. The detached node keeps its own state.
func (n *Node) RemoveChild(child *Node) error {
	if n.busy || n.state == stateRunning {
		return ErrInFlight
	}
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return nil
		}
	}
	return ErrNotChild
}

// Walk calls fn for n and every descendant, depth first in child order. The
// depth of n is zero. Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.children {
		child.walk(fn, depth+1)
	}
}

// Reset returns n and its whole subtree to the fresh state, discarding
// progress and suspension.
func (n *Node) Reset() {
	n.state = stateFresh
	n.cursor = 0
	n.passes = 0
	n.failures = 0
	n.suspends = 0
	for _, child := range n.children {
		child.Reset()
	}
}

// Suspend pauses n and the child(ren) it is currently driving. Leaves have
// nothing to pause.
func (n *Node) Suspend() {
	if n.kind == KindLeaf {
		return
	}
	n.suspends++
	n.eachActive(func(child *Node) { child.Suspend() })
}

// Resume reverses one Suspend. It does nothing on a node that is not
// suspended.
func (n *Node) Resume() {
	if n.kind == KindLeaf || n.suspends == 0 {
		return
	}
	n.suspends--
	n.eachActive(func(child *Node) { child.Resume() })
}

func (n *Node) eachActive(fn func(child *Node)) {
	if n.kind == KindParallel {
		for _, child := range n.children {
			fn(child)
		}
		return
	}
	if child := n.Current(); child != nil {
		fn(child)
	}
}

func (n *Node) String() string {
	return n.name
}

/*
Package act implements a step-driven behavior tree engine.

A tree is built from acts: leaves wrapping caller-supplied functions, and
composites combining the status of their children. The caller advances the
root one step at a time, typically once per control cycle, and every step
returns exactly one Status:

  - Running: the node did bounded work this call and has not concluded
  - Succeeded, Failed: terminal; the node is exhausted until Reset

Nothing in this package blocks, sleeps, or starts goroutines. Parallel means
interleaved: each Advance sweeps every unfinished child once.

# Node Kinds

The set of node kinds is closed, and Node is a tagged union over it:

  - Leaf: calls its function once per activation
  - Selector: first child to succeed wins; fails once every child failed
  - Sequence: first child to fail loses; succeeds once every child succeeded
  - Parallel: one sweep per step; first success wins, all must fail to fail
  - Loop: repeats Sequence-like passes, bounded or Unbounded
  - IgnoreFailure: a Sequence-like pass whose Failed is reported as Succeeded
  - Negate: a Sequence-like pass with Succeeded and Failed swapped

A composite that moves from one child to the next reports Running for that
step, so the driver always sees at least one step per concluded child.

# Protocol

Advance on an exhausted node returns ErrExhausted. Reset returns a node and
its whole subtree to the fresh state and is safe to call at any time outside
of Advance. A child error ends the parent's activation and is returned,
prefixed with each node name on the path, alongside a Failed status.

# Ownership

Every node has at most one parent. AddChild (and therefore every composite
constructor) rejects nodes that already have a parent, and rejects cycles.
Children may be added or removed between activations; doing so while a node
is mid-activation returns ErrInFlight.

# Suspension

Suspend marks a composite and the child(ren) it is currently driving as
suspended. A suspended node reports Running from Advance without progressing,
until Resume clears the same marks. Suspend on a Leaf is a no-op.

# Concurrency

A tree is not safe for concurrent use. Callers that drive a tree from more
than one goroutine must serialize every call, including Reset, Suspend and
mutation of children.
*/
package act

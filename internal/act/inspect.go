package act

// Snapshot is a serializable view of a node and its subtree.
type Snapshot struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	// State is "fresh", "running" or "done".
	State     string     `json:"state" yaml:"state"`
	Suspended bool       `json:"suspended,omitempty" yaml:"suspended,omitempty"`
	Loop      *LoopState `json:"loop,omitempty" yaml:"loop,omitempty"`
	Children  []Snapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// LoopState is the progress of a Loop. MaxIterations is Unbounded for loops
// without a bound.
type LoopState struct {
	Passes        int `json:"passes" yaml:"passes"`
	MaxIterations int `json:"maxIterations" yaml:"maxIterations"`
}

// Inspect captures root and its subtree. Like the dump functions it does
// not affect execution.
func Inspect(root *Node) Snapshot {
	s := Snapshot{
		Name:      root.name,
		Kind:      root.kind.String(),
		State:     root.state.String(),
		Suspended: root.suspends > 0,
	}
	if root.kind == KindLoop {
		s.Loop = &LoopState{Passes: root.passes, MaxIterations: root.maxIterations}
	}
	for _, child := range root.children {
		s.Children = append(s.Children, Inspect(child))
	}
	return s
}

func (s state) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateRunning:
		return "running"
	default:
		return "done"
	}
}

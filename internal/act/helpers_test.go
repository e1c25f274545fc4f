package act

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// probe is a leaf function with a fixed result that records its calls.
type probe struct {
	result Status
	calls  int
}

func (p *probe) tick() Status {
	p.calls++
	return p.result
}

func newProbe(t *testing.T, name string, result Status) (*Node, *probe) {
	t.Helper()
	p := &probe{result: result}
	n, err := NewLeaf(name, p.tick)
	require.NoError(t, err)
	return n, p
}

func succeed(t *testing.T, name string) *Node {
	t.Helper()
	n, _ := newProbe(t, name, Succeeded)
	return n
}

func fail(t *testing.T, name string) *Node {
	t.Helper()
	n, _ := newProbe(t, name, Failed)
	return n
}

// drive advances n until it reports a terminal status, returning every status
// observed. It fails the test after limit steps, or on any error.
func drive(t *testing.T, n *Node, limit int) []Status {
	t.Helper()
	var out []Status
	for i := 0; i < limit; i++ {
		status, err := n.Advance()
		require.NoError(t, err)
		out = append(out, status)
		if status.Terminal() {
			return out
		}
	}
	t.Fatalf("%s did not conclude within %d steps: %v", n.Name(), limit, out)
	return nil
}

func last(statuses []Status) Status {
	return statuses[len(statuses)-1]
}

package act

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

// Styles controls how FprintStyled decorates each line of a tree listing.
type Styles struct {
	Name      lipgloss.Style
	Kind      lipgloss.Style
	Arrow     lipgloss.Style
	Running   lipgloss.Style
	Done      lipgloss.Style
	Suspended lipgloss.Style
}

// DefaultStyles returns the styles used by the CLI on colour terminals.
func DefaultStyles() Styles {
	return Styles{
		Name:      lipgloss.NewStyle().Bold(true),
		Kind:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Arrow:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Running:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Done:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Suspended: lipgloss.NewStyle().Foreground(lipgloss.Color("57")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Name: s, Kind: s, Arrow: s, Running: s, Done: s, Suspended: s}
}

// Fprint writes an indented listing of the names under root, one node per
// line, four spaces per level:
//
//	Root
//	--> Child
//	    --> Grandchild
func Fprint(w io.Writer, root *Node) error {
	var err error
	root.Walk(func(node *Node, depth int) bool {
		if err != nil {
			return false
		}
		_, err = io.WriteString(w, prefix(depth, "-->")+node.name+"\n")
		return true
	})
	return err
}

// Sprint returns the Fprint listing of root.
func Sprint(root *Node) string {
	var b strings.Builder
	_ = Fprint(&b, root)
	return b.String()
}

// FprintStyled writes the Fprint listing annotated with each node's kind and,
// where applicable, its activation state and Loop progress.
func FprintStyled(w io.Writer, root *Node, styles Styles) error {
	var err error
	root.Walk(func(node *Node, depth int) bool {
		if err != nil {
			return false
		}
		var b strings.Builder
		if depth > 0 {
			b.WriteString(strings.Repeat("    ", depth-1))
			b.WriteString(styles.Arrow.Render("-->"))
			b.WriteByte(' ')
		}
		b.WriteString(styles.Name.Render(node.name))
		if node.name != node.kind.String() {
			b.WriteByte(' ')
			b.WriteString(styles.Kind.Render("(" + node.kind.String() + ")"))
		}
		if node.kind == KindLoop {
			b.WriteByte(' ')
			b.WriteString(styles.Kind.Render(loopProgress(node)))
		}
		switch {
		case node.suspends > 0:
			b.WriteString(" " + styles.Suspended.Render("[suspended]"))
		case node.state == stateDone:
			b.WriteString(" " + styles.Done.Render("[done]"))
		case node.state == stateRunning:
			b.WriteString(" " + styles.Running.Render("[running]"))
		}
		b.WriteByte('\n')
		_, err = io.WriteString(w, b.String())
		return true
	})
	return err
}

func prefix(depth int, arrow string) string {
	if depth == 0 {
		return ""
	}
	return strings.Repeat("    ", depth-1) + arrow + " "
}

func loopProgress(n *Node) string {
	if n.maxIterations == Unbounded {
		return fmt.Sprintf("%d/∞", n.passes)
	}
	return fmt.Sprintf("%d/%d", n.passes, n.maxIterations)
}

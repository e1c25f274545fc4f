package act

import (
	"fmt"
	"log/slog"
)

// Status is the outcome of a single step.
type Status int

const (
	// Running indicates the node has not concluded and must be advanced again.
	Running Status = iota + 1
	// Succeeded is terminal.
	Succeeded
	// Failed is terminal.
	Failed
)

// String returns the lower case name of the status.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// LogValue logs s by name, since slog's JSON handler ignores Stringer.
func (s Status) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool {
	return s == Running || s == Succeeded || s == Failed
}

// Terminal reports whether s ends an activation.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed
}

// ParseStatus maps the names produced by String back to a Status.
// The go-behaviortree style names "success" and "failure" are also accepted.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "running":
		return Running, nil
	case "succeeded", "success":
		return Succeeded, nil
	case "failed", "failure":
		return Failed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

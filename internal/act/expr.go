package act

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Condition is a compiled boolean expression, evaluated against a variable
// environment supplied at evaluation time.
type Condition struct {
	expression string
	program    *vm.Program
	env        func() map[string]any
	logger     *slog.Logger
	lastErr    error
}

// ConditionOption configures a Condition.
type ConditionOption func(*Condition)

// WithConditionLogger sets the logger that evaluation failures are reported
// to. The default is slog.Default().
func WithConditionLogger(logger *slog.Logger) ConditionOption {
	return func(c *Condition) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// CompileCondition compiles expression using expr-lang. Variables that are
// missing from the environment evaluate to nil rather than failing.
func CompileCondition(expression string, env func() map[string]any, opts ...ConditionOption) (*Condition, error) {
	program, err := expr.Compile(expression,
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("act: compile condition %q: %w", expression, err)
	}
	c := &Condition{expression: expression, program: program, env: env, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Expression returns the source expression.
func (c *Condition) Expression() string { return c.expression }

// LastError returns the error from the most recent Eval, if any.
func (c *Condition) LastError() error { return c.lastErr }

// Eval runs the expression. Evaluation errors and non-boolean results count
// as false and are kept for LastError.
func (c *Condition) Eval() bool {
	c.lastErr = nil
	var env map[string]any
	if c.env != nil {
		env = c.env()
	}
	if env == nil {
		env = map[string]any{}
	}
	result, err := expr.Run(c.program, env)
	if err != nil {
		c.lastErr = fmt.Errorf("act: evaluate condition %q: %w", c.expression, err)
		c.logger.Error("condition evaluation failed", "expression", c.expression, "error", err)
		return false
	}
	b, ok := result.(bool)
	if !ok {
		c.lastErr = fmt.Errorf("act: condition %q returned %T", c.expression, result)
		c.logger.Warn("condition returned non-boolean result", "expression", c.expression, "resultType", fmt.Sprintf("%T", result))
		return false
	}
	return b
}

// NewCondition returns a Leaf that succeeds when expression evaluates to true
// against env(), and fails otherwise. The expression is compiled once, here.
func NewCondition(name, expression string, env func() map[string]any, opts ...ConditionOption) (*Node, error) {
	cond, err := CompileCondition(expression, env, opts...)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = expression
	}
	return NewLeaf(name, func() Status {
		if cond.Eval() {
			return Succeeded
		}
		return Failed
	})
}

package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/joeycumines/acttree/internal/act"
	"github.com/joeycumines/acttree/internal/config"
	"github.com/joeycumines/acttree/internal/driver"
)

// RunCommand loads tree scripts and drives their trees to conclusion.
type RunCommand struct {
	*BaseCommand
	config *config.Config

	interval time.Duration
	maxTicks int
	logFile  string
	logLevel string
	color    string
	timeout  time.Duration
}

// NewRunCommand creates a new run command.
func NewRunCommand(cfg *config.Config) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Run tree scripts until every tree concludes",
			"run [options] script.js...",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", 0, "Delay between ticks (default from tick.interval)")
	fs.IntVar(&c.maxTicks, "max-ticks", -1, "Maximum ticks per tree, 0 for no limit (default from tick.max)")
	fs.DurationVar(&c.timeout, "timeout", 0, "Maximum wait for a script call (default from script.timeout)")
	fs.StringVar(&c.logFile, "log-file", "", "Write JSON logs to this file")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.color, "color", "", "Color mode: auto, always, never")
}

// Execute runs the scripts named by args.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stderr, "run requires at least one script")
		return fmt.Errorf("no scripts given")
	}

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.config, "run")
	if err != nil {
		return err
	}
	defer lc.close()
	logger := lc.logger(stderr)

	color, err := resolveColor(c.color, c.config, "run", stdout)
	if err != nil {
		return err
	}

	schema := config.DefaultSchema()
	opts := driver.Options{
		Interval: c.interval,
		MaxTicks: c.maxTicks,
		Logger:   logger,
	}
	if opts.Interval <= 0 {
		opts.Interval = schema.ResolveDuration(c.config, "run", "tick.interval")
	}
	if opts.MaxTicks < 0 {
		opts.MaxTicks = max(schema.ResolveInt(c.config, "run", "tick.max"), 0)
	}
	timeout := c.timeout
	if timeout <= 0 {
		timeout = schema.ResolveDuration(c.config, "run", "script.timeout")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scripts, err := loadScripts(ctx, args, timeout, logger)
	if err != nil {
		return err
	}
	defer closeScripts(scripts)

	roots := make([]*act.Node, len(scripts))
	for i, s := range scripts {
		roots[i] = s.root()
	}
	results, runErr := driver.RunAll(ctx, roots, opts)
	if results == nil {
		return runErr
	}

	if schema.ResolveBool(c.config, "run", "summary") {
		printSummary(stdout, scripts, results, color)
	}

	var failed int
	for _, r := range results {
		if r.Err != nil || r.Status != act.Succeeded {
			failed++
		}
	}
	if failed > 0 && schema.ResolveBool(c.config, "run", "fail-exit") {
		if runErr != nil {
			return fmt.Errorf("%d of %d trees did not succeed: %w", failed, len(results), runErr)
		}
		return fmt.Errorf("%d of %d trees did not succeed", failed, len(results))
	}
	return nil
}

var (
	succeededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// printSummary writes one line per tree:
//
//	patrol.js: patrol succeeded after 4 ticks (40ms)
func printSummary(w io.Writer, scripts []*script, results []driver.Result, color bool) {
	for i, r := range results {
		status := r.Status.String()
		if color {
			switch r.Status {
			case act.Succeeded:
				status = succeededStyle.Render(status)
			case act.Failed:
				status = failedStyle.Render(status)
			default:
				status = runningStyle.Render(status)
			}
		}
		_, _ = fmt.Fprintf(w, "%s: %s %s after %d ticks (%s)",
			scripts[i].path, r.Root, status, r.Ticks, r.Elapsed.Round(time.Millisecond))
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, ": %v", r.Err)
		}
		_, _ = fmt.Fprintln(w)
	}
}

// Package driver advances act trees on a fixed interval until they conclude.
//
// Trees are clocked by go-behaviortree tickers, one per tree, aggregated by a
// go-behaviortree Manager. A tree is only ever advanced from its ticker's
// goroutine, and never after Run or RunAll returns.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/acttree/internal/act"
)

// DefaultInterval is used when Options.Interval is not positive.
const DefaultInterval = 10 * time.Millisecond

// ErrMaxTicks is returned when a tree is still running after Options.MaxTicks
// ticks.
var ErrMaxTicks = errors.New("driver: tick budget exhausted")

// Options configures Run and RunAll.
type Options struct {
	// Interval between ticks.
	Interval time.Duration
	// MaxTicks bounds the number of ticks per tree. Zero means no bound.
	MaxTicks int
	// Logger receives per-run and per-tick records. Defaults to slog.Default.
	Logger *slog.Logger
}

func (o Options) interval() time.Duration {
	if o.Interval <= 0 {
		return DefaultInterval
	}
	return o.Interval
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Result describes one driven tree.
type Result struct {
	// RunID uniquely identifies the run in log records.
	RunID string
	// Root is the name of the driven tree.
	Root string
	// Status is the last status the tree reported.
	Status act.Status
	// Ticks is the number of times the tree was advanced.
	Ticks int
	// Elapsed is the wall time from start to conclusion.
	Elapsed time.Duration
	// Err is set when the tree did not conclude normally.
	Err error
}

// Step advances root once, logging the outcome at debug level.
func Step(root *act.Node, logger *slog.Logger) (act.Status, error) {
	if logger == nil {
		logger = slog.Default()
	}
	status, err := root.Advance()
	if err != nil {
		logger.Debug("step failed", "root", root.Name(), "error", err)
		return status, err
	}
	logger.Debug("step", "root", root.Name(), "status", status)
	return status, nil
}

// Run drives root until it reports a terminal status, its tick budget runs
// out, or ctx is cancelled. The returned error is Result.Err.
func Run(ctx context.Context, root *act.Node, opts Options) (Result, error) {
	results, err := RunAll(ctx, []*act.Node{root}, opts)
	if len(results) == 0 {
		return Result{}, err
	}
	return results[0], results[0].Err
}

// RunAll drives every root concurrently, each on its own ticker, and waits
// for all of them. The roots must be distinct trees. The error joins the Err
// of every Result.
func RunAll(ctx context.Context, roots []*act.Node, opts Options) ([]Result, error) {
	seen := make(map[*act.Node]struct{}, len(roots))
	for i, root := range roots {
		if root == nil {
			return nil, fmt.Errorf("driver: root %d: %w", i, act.ErrNilChild)
		}
		if _, ok := seen[root]; ok {
			return nil, fmt.Errorf("driver: root %d: %s given twice", i, root.Name())
		}
		seen[root] = struct{}{}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	manager := bt.NewManager()
	runs := make([]*run, len(roots))
	tickers := make([]bt.Ticker, len(roots))
	for i, root := range roots {
		runs[i] = newRun(root, opts)
		tickers[i] = bt.NewTicker(runCtx, opts.interval(), runs[i].node())
		if err := manager.Add(tickers[i]); err != nil {
			for _, t := range tickers[:i+1] {
				t.Stop()
			}
			manager.Stop()
			return nil, fmt.Errorf("driver: %w", err)
		}
	}

	for _, r := range runs {
		select {
		case <-r.done:
		case <-ctx.Done():
		}
	}

	manager.Stop()
	for _, t := range tickers {
		t.Stop()
		<-t.Done()
	}
	<-manager.Done()

	results := make([]Result, len(runs))
	errs := make([]error, 0, len(runs))
	for i, r := range runs {
		results[i] = r.result(ctx.Err())
		if results[i].Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", results[i].Root, results[i].Err))
		}
	}
	return results, errors.Join(errs...)
}

// run is the state of one driven tree. The mutable fields are guarded by mu,
// and done is closed once they are final.
type run struct {
	root     *act.Node
	id       string
	maxTicks int
	logger   *slog.Logger
	start    time.Time

	mu       sync.Mutex
	finished bool
	done     chan struct{}
	status   act.Status
	ticks    int
	err      error
	elapsed  time.Duration
}

func newRun(root *act.Node, opts Options) *run {
	id := uuid.NewString()
	r := &run{
		root:     root,
		id:       id,
		maxTicks: opts.MaxTicks,
		logger:   opts.logger().With("run", id, "root", root.Name()),
		start:    time.Now(),
		done:     make(chan struct{}),
		status:   act.Running,
	}
	r.logger.Info("run started", "maxTicks", opts.MaxTicks, "interval", opts.interval())
	return r
}

// node adapts the run to a go-behaviortree node. Ticks never return errors,
// so the ticker only stops when the run is over, and ticks after the tree
// concluded do nothing.
func (r *run) node() bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.finished {
			return bt.Success, nil
		}
		status, err := Step(r.root, r.logger)
		r.ticks++
		r.status = status
		switch {
		case err != nil:
			r.finish(err)
		case status.Terminal():
			r.finish(nil)
		case r.maxTicks > 0 && r.ticks >= r.maxTicks:
			r.finish(ErrMaxTicks)
		}
		return status.BT(), nil
	})
}

// finish must be called with mu held.
func (r *run) finish(err error) {
	r.finished = true
	r.err = err
	r.elapsed = time.Since(r.start)
	close(r.done)
}

// result must only be called once the ticker has stopped. cause is reported
// for a run that was interrupted before it finished.
func (r *run) result(cause error) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.finished {
		if cause == nil {
			cause = context.Canceled
		}
		r.finish(cause)
	}
	res := Result{
		RunID:   r.id,
		Root:    r.root.Name(),
		Status:  r.status,
		Ticks:   r.ticks,
		Elapsed: r.elapsed,
		Err:     r.err,
	}
	if r.err != nil {
		r.logger.Warn("run ended", "status", r.status, "ticks", r.ticks, "elapsed", r.elapsed, "error", r.err)
	} else {
		r.logger.Info("run ended", "status", r.status, "ticks", r.ticks, "elapsed", r.elapsed)
	}
	return res
}

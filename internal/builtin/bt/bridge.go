package bt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/acttree/internal/act"
	"github.com/joeycumines/acttree/internal/goroutineid"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "acttree"

// DefaultTimeout is the maximum duration to wait for RunOnLoopSync operations.
const DefaultTimeout = 5 * time.Second

var (
	// ErrNotRunning is returned when work is submitted to a stopped bridge.
	ErrNotRunning = errors.New("bt: event loop not running")

	// ErrStopped is returned when the bridge stops while a caller is waiting.
	ErrStopped = errors.New("bt: bridge stopped before completion")

	// ErrTimeout is returned when RunOnLoopSync waits longer than the timeout.
	ErrTimeout = errors.New("bt: operation timed out")
)

// Bridge connects act trees to a goja runtime running on a goja_nodejs event
// loop. Scripts build trees through the acttree module, and JS leaves are
// executed back on the loop whenever the tree is advanced.
//
// The goja.Runtime is not goroutine safe, so every runtime access goes through
// RunOnLoop, RunOnLoopSync or TryRunOnLoopSync. The event loop is owned by
// the caller: Stop only shuts the bridge down.
type Bridge struct {
	timeout time.Duration
	loop    *eventloop.EventLoop
	logger  *slog.Logger
	bb      *Blackboard

	// loopID is captured on the loop during construction, before the module is
	// registered, so that a require issued immediately cannot miss it.
	loopID atomic.Int64

	mu      sync.RWMutex
	stopped bool
	root    *act.Node

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for leaf and condition diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTimeout sets the RunOnLoopSync timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(b *Bridge) { b.timeout = timeout }
}

// WithBlackboard shares bb with scripts instead of a fresh Blackboard.
func WithBlackboard(bb *Blackboard) Option {
	return func(b *Bridge) {
		if bb != nil {
			b.bb = bb
		}
	}
}

// NewBridgeWithEventLoop creates a Bridge on loop, which must already be
// started, and registers the acttree module with registry when it is non-nil.
// The bridge stops when ctx is cancelled.
func NewBridgeWithEventLoop(ctx context.Context, loop *eventloop.EventLoop, registry *require.Registry, opts ...Option) (*Bridge, error) {
	if loop == nil {
		return nil, errors.New("bt: event loop must not be nil")
	}

	// The lifecycle context is independent of ctx, so that Stop can mark the
	// bridge stopped before Done is closed.
	childCtx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		timeout: DefaultTimeout,
		loop:    loop,
		logger:  slog.Default(),
		bb:      new(Blackboard),
		ctx:     childCtx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(b)
	}

	errCh := make(chan error, 1)
	if !loop.RunOnLoop(func(*goja.Runtime) {
		b.loopID.Store(goroutineid.Get())
		errCh <- nil
	}) {
		cancel()
		return nil, ErrNotRunning
	}
	select {
	case err := <-errCh:
		if err != nil {
			cancel()
			return nil, err
		}
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	if registry != nil {
		registry.RegisterNativeModule(ModuleName, b.ModuleLoader())
	}

	if ctx.Done() != nil {
		context.AfterFunc(ctx, b.Stop)
	}

	return b, nil
}

// Stop shuts the bridge down and closes Done. It is safe to call more than
// once. Work already posted to the loop may still run after Stop returns.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.stopped = true
	b.cancel()
}

// Done returns a channel that is closed when the bridge is stopped.
func (b *Bridge) Done() <-chan struct{} {
	return b.ctx.Done()
}

// IsRunning reports whether Stop has not yet been called.
func (b *Bridge) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.stopped
}

// SetTimeout sets the timeout for RunOnLoopSync operations. Zero disables it.
func (b *Bridge) SetTimeout(timeout time.Duration) {
	b.mu.Lock()
	b.timeout = timeout
	b.mu.Unlock()
}

// Timeout returns the current RunOnLoopSync timeout.
func (b *Bridge) Timeout() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.timeout
}

// Blackboard returns the store shared with scripts.
func (b *Bridge) Blackboard() *Blackboard { return b.bb }

// Root returns the tree most recently passed to setRoot, or nil.
func (b *Bridge) Root() *act.Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.root
}

func (b *Bridge) setRoot(n *act.Node) {
	b.mu.Lock()
	b.root = n
	b.mu.Unlock()
}

// RunOnLoop schedules fn on the event loop, reporting false if the bridge or
// the loop is not running.
func (b *Bridge) RunOnLoop(fn func(*goja.Runtime)) bool {
	if !b.IsRunning() {
		return false
	}
	return b.loop.RunOnLoop(fn)
}

// RunOnLoopSync schedules fn on the event loop and waits for it to return.
// It must not be called from the loop goroutine, use TryRunOnLoopSync there.
func (b *Bridge) RunOnLoopSync(fn func(*goja.Runtime) error) error {
	b.mu.RLock()
	stopped, timeout := b.stopped, b.timeout
	b.mu.RUnlock()
	if stopped {
		return ErrNotRunning
	}

	errCh := make(chan error, 1)
	if !b.loop.RunOnLoop(func(vm *goja.Runtime) {
		errCh <- fn(vm)
	}) {
		return ErrNotRunning
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case err := <-errCh:
		return err
	case <-b.Done():
		return ErrStopped
	case <-expired:
		b.logger.Warn("event loop did not respond", "timeout", timeout)
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
}

// TryRunOnLoopSync runs fn inline with currentVM when called on the event
// loop goroutine, and behaves like RunOnLoopSync otherwise. JS leaves use it
// because a tree may be advanced either by a script or by a driver goroutine.
func (b *Bridge) TryRunOnLoopSync(currentVM *goja.Runtime, fn func(*goja.Runtime) error) error {
	if !b.IsRunning() {
		return ErrNotRunning
	}
	if id := b.loopID.Load(); id > 0 && id == goroutineid.Get() {
		return fn(currentVM)
	}
	return b.RunOnLoopSync(fn)
}

// LoadScript compiles and runs code on the event loop.
func (b *Bridge) LoadScript(name, code string) error {
	return b.RunOnLoopSync(func(vm *goja.Runtime) error {
		prg, err := goja.Compile(name, code, true)
		if err != nil {
			return fmt.Errorf("compile %s: %w", name, err)
		}
		if _, err := vm.RunProgram(prg); err != nil {
			return fmt.Errorf("run %s: %w", name, err)
		}
		return nil
	})
}

// SetGlobal sets a global variable in the runtime.
func (b *Bridge) SetGlobal(name string, value any) error {
	return b.RunOnLoopSync(func(vm *goja.Runtime) error {
		return vm.Set(name, value)
	})
}

// GetGlobal returns the exported value of a global variable, and whether it
// is defined. A global explicitly set to null reports (nil, true).
func (b *Bridge) GetGlobal(name string) (any, bool) {
	var (
		result any
		exists bool
	)
	err := b.RunOnLoopSync(func(vm *goja.Runtime) error {
		val := vm.Get(name)
		if val == nil || goja.IsUndefined(val) {
			return nil
		}
		exists = true
		if !goja.IsNull(val) {
			result = val.Export()
		}
		return nil
	})
	if err != nil {
		return nil, false
	}
	return result, exists
}

// ExposeBlackboard sets the bridge's Blackboard as a global named name.
func (b *Bridge) ExposeBlackboard(name string) error {
	return b.RunOnLoopSync(func(vm *goja.Runtime) error {
		return vm.Set(name, b.bb.ExposeToJS(vm))
	})
}

// Package dispatch serializes actions from key bindings, IPC and MCP onto
// the transition coordinator.
package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/tilewm/internal/action"
	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/transition"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when an action arrives faster than the
// configured repeat rate.
var ErrRateLimited = errors.New("action rate limited")

// Engine is the part of the tiling engine the dispatcher drives directly.
type Engine interface {
	Refresh() error
	ToggleFloating() (bool, error)
	RetileAll() error
}

// Result describes what a dispatched action did.
type Result struct {
	RequestID  string `json:"request_id"`
	Action     string `json:"action"`
	Transition string `json:"transition,omitempty"`
	Skip       string `json:"skip,omitempty"`
	Floating   *bool  `json:"floating,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Dispatcher runs one action at a time against the coordinator.
type Dispatcher struct {
	mu          sync.Mutex
	coordinator *transition.Coordinator
	engine      Engine
	limiter     *rate.Limiter
	metrics     *Metrics
	logger      *zap.Logger
}

// New creates a dispatcher. A zero repeat rate disables limiting; metrics
// may be nil.
func New(coordinator *transition.Coordinator, engine Engine, repeat config.RepeatConfig, metrics *Metrics, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		coordinator: coordinator,
		engine:      engine,
		limiter:     newLimiter(repeat),
		metrics:     metrics,
		logger:      logger,
	}
}

func newLimiter(repeat config.RepeatConfig) *rate.Limiter {
	if repeat.PerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(repeat.PerSecond), repeat.Burst)
}

// Reconfigure replaces the rate limit and runs apply under the dispatch
// lock, so a config reload never lands between an action's reads and its
// transition. apply may be nil.
func (d *Dispatcher) Reconfigure(repeat config.RepeatConfig, apply func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.limiter = newLimiter(repeat)
	if apply == nil {
		return nil
	}
	return apply()
}

// Refresh resnapshots the engine under the dispatch lock, so periodic
// reconciliation never interleaves with a running action.
func (d *Dispatcher) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Refresh()
}

// Dispatch parses and runs an action. Unknown names and rate limiting are
// errors; coordinator skips and engine failures are reported in the Result.
func (d *Dispatcher) Dispatch(name string) (Result, error) {
	a, err := action.Parse(name)
	if err != nil {
		return Result{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.limiter.Allow() {
		d.metrics.reject()
		return Result{}, ErrRateLimited
	}

	start := time.Now()
	defer d.metrics.since(a.Name, start)

	res := Result{RequestID: uuid.NewString(), Action: a.Name}
	logger := d.logger.With(zap.String("request_id", res.RequestID), zap.String("action", a.Name))

	if err := d.engine.Refresh(); err != nil {
		// A stale snapshot is still usable.
		logger.Warn("refresh before action failed", zap.Error(err))
	}

	switch a.Name {
	case action.ToggleFloat:
		floating, err := d.engine.ToggleFloating()
		if err != nil {
			res.Error = err.Error()
			break
		}
		res.Floating = &floating
	case action.Retile:
		if err := d.engine.RetileAll(); err != nil {
			res.Error = err.Error()
		}
	default:
		out := d.run(a)
		d.metrics.observe(out)
		if out.Transition != nil {
			res.Transition = out.Transition.String()
		}
		res.Skip = string(out.Skip)
		if out.Err != nil {
			res.Error = out.Err.Error()
		}
	}

	if res.Error != "" {
		d.metrics.fail(a.Name)
		logger.Warn("action failed", zap.String("error", res.Error))
	} else {
		logger.Debug("action dispatched",
			zap.String("transition", res.Transition),
			zap.String("skip", res.Skip),
			zap.Duration("took", time.Since(start)),
		)
	}
	return res, nil
}

func (d *Dispatcher) run(a action.Action) transition.Outcome {
	c := d.coordinator
	switch a.Op {
	case transition.OpSwapToMain:
		return c.SwapFocusedToMain()
	case transition.OpSwapCounterClockwise:
		return c.SwapFocusedCounterClockwise()
	case transition.OpSwapClockwise:
		return c.SwapFocusedClockwise()
	case transition.OpThrowToScreen:
		return c.ThrowToScreenAtIndex(a.Index)
	case transition.OpScreenClockwise:
		return c.SwapFocusedWindowScreenClockwise()
	case transition.OpScreenCounterClockwise:
		return c.SwapFocusedWindowScreenCounterClockwise()
	case transition.OpPushToSpace:
		return c.PushFocusedWindowToSpace(a.Index)
	case transition.OpPushToSpaceLeft:
		return c.PushFocusedWindowToSpaceLeft()
	case transition.OpPushToSpaceRight:
		return c.PushFocusedWindowToSpaceRight()
	default:
		return transition.Outcome{Op: a.Op, Err: fmt.Errorf("action %q has no coordinator operation", a.Name)}
	}
}

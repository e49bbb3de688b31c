package dispatch

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/transition"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// emptyTarget has no focused window and no screens.
type emptyTarget struct {
	executed []transition.Transition
}

func (t *emptyTarget) ExecuteTransition(tr transition.Transition) error {
	t.executed = append(t.executed, tr)
	return nil
}
func (t *emptyTarget) FocusedWindow() (transition.Window, bool) { return nil, false }
func (t *emptyTarget) IsWindowFloating(transition.Window) bool { return false }
func (t *emptyTarget) CurrentLayout() (string, bool) { return "tall", true }
func (t *emptyTarget) Screen(int) (transition.Screen, bool) { return nil, false }
func (t *emptyTarget) ActiveWindows(transition.Screen) []transition.Window { return nil }
func (t *emptyTarget) NextScreenIndexClockwise(transition.Screen) int { return 0 }
func (t *emptyTarget) NextScreenIndexCounterClockwise(transition.Screen) int { return 0 }
func (t *emptyTarget) LastMainWindowForCurrentSpace() (transition.Window, bool) { return nil, false }

type stubEngine struct {
	refreshes  int
	refreshErr error
	floating   bool
	toggleErr  error
	retiles    int
}

func (e *stubEngine) Refresh() error {
	e.refreshes++
	return e.refreshErr
}

func (e *stubEngine) ToggleFloating() (bool, error) {
	if e.toggleErr != nil {
		return false, e.toggleErr
	}
	e.floating = !e.floating
	return e.floating, nil
}

func (e *stubEngine) RetileAll() error {
	e.retiles++
	return nil
}

func newTestDispatcher(t *testing.T, repeat config.RepeatConfig) (*Dispatcher, *stubEngine, *emptyTarget, *Metrics) {
	t.Helper()
	target := &emptyTarget{}
	c := transition.NewCoordinator(nil, zaptest.NewLogger(t))
	c.Attach(target)
	engine := &stubEngine{}
	metrics := NewMetrics()
	return New(c, engine, repeat, metrics, zaptest.NewLogger(t)), engine, target, metrics
}

func TestDispatchUnknownAction(t *testing.T) {
	d, engine, _, _ := newTestDispatcher(t, config.RepeatConfig{})

	_, err := d.Dispatch("swap-sideways")
	require.Error(t, err)
	assert.Zero(t, engine.refreshes, "unknown actions never touch the engine")
}

func TestDispatchRecordsSkip(t *testing.T) {
	d, engine, target, metrics := newTestDispatcher(t, config.RepeatConfig{})

	res, err := d.Dispatch("swap-main")
	require.NoError(t, err)

	assert.Equal(t, "swap-main", res.Action)
	assert.Equal(t, string(transition.SkipNoFocusedWindow), res.Skip)
	assert.Empty(t, res.Transition)
	assert.Empty(t, target.executed)
	assert.Equal(t, 1, engine.refreshes)
	_, err = uuid.Parse(res.RequestID)
	assert.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Skipped.WithLabelValues("swap-main", "no_focused_window")))
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.Transitions))
}

func TestDispatchResetFocusFallback(t *testing.T) {
	d, _, target, metrics := newTestDispatcher(t, config.RepeatConfig{})

	res, err := d.Dispatch("swap-cw")
	require.NoError(t, err)

	assert.Equal(t, "reset_focus", res.Transition)
	assert.Equal(t, string(transition.SkipNoFocusedWindow), res.Skip)
	require.Len(t, target.executed, 1)
	assert.Equal(t, transition.KindResetFocus, target.executed[0].Kind)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("reset_focus")))
}

func TestDispatchIndexedActions(t *testing.T) {
	d, _, _, metrics := newTestDispatcher(t, config.RepeatConfig{})

	res, err := d.Dispatch("throw-screen-2")
	require.NoError(t, err)
	assert.Equal(t, string(transition.SkipUnknownScreen), res.Skip)

	res, err = d.Dispatch("push-space-3")
	require.NoError(t, err)
	assert.Equal(t, string(transition.SkipNoFocusedWindow), res.Skip)

	res, err = d.Dispatch("push-space-left")
	require.NoError(t, err)
	assert.Equal(t, string(transition.SkipNoSpaceInfo), res.Skip)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Skipped.WithLabelValues("throw-screen", "unknown_screen")))
}

func TestDispatchDetachedCoordinator(t *testing.T) {
	c := transition.NewCoordinator(nil, nil)
	d := New(c, &stubEngine{}, config.RepeatConfig{}, nil, nil)

	res, err := d.Dispatch("screen-cw")
	require.NoError(t, err)
	assert.Equal(t, string(transition.SkipNoTarget), res.Skip)
}

func TestDispatchToggleFloat(t *testing.T) {
	d, engine, target, metrics := newTestDispatcher(t, config.RepeatConfig{})

	res, err := d.Dispatch("toggle-float")
	require.NoError(t, err)
	require.NotNil(t, res.Floating)
	assert.True(t, *res.Floating)
	assert.Empty(t, target.executed)

	engine.toggleErr = errors.New("no focused window")
	res, err = d.Dispatch("toggle-float")
	require.NoError(t, err)
	assert.Nil(t, res.Floating)
	assert.Equal(t, "no focused window", res.Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Failures.WithLabelValues("toggle-float")))
}

func TestDispatchRetile(t *testing.T) {
	d, engine, _, _ := newTestDispatcher(t, config.RepeatConfig{})

	_, err := d.Dispatch("retile")
	require.NoError(t, err)
	assert.Equal(t, 1, engine.retiles)
}

func TestDispatchContinuesWhenRefreshFails(t *testing.T) {
	d, engine, target, _ := newTestDispatcher(t, config.RepeatConfig{})
	engine.refreshErr = errors.New("x11 gone")

	res, err := d.Dispatch("screen-ccw")
	require.NoError(t, err)
	assert.Equal(t, "reset_focus", res.Transition)
	assert.Len(t, target.executed, 1)
}

func TestDispatchRateLimited(t *testing.T) {
	d, engine, _, metrics := newTestDispatcher(t, config.RepeatConfig{PerSecond: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		_, err := d.Dispatch("retile")
		require.NoError(t, err)
	}
	_, err := d.Dispatch("retile")
	require.ErrorIs(t, err, ErrRateLimited)

	assert.Equal(t, 2, engine.retiles)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejected))

	require.NoError(t, d.Reconfigure(config.RepeatConfig{}, nil))
	_, err = d.Dispatch("retile")
	assert.NoError(t, err)
}

func TestMetricsHandler(t *testing.T) {
	d, _, _, metrics := newTestDispatcher(t, config.RepeatConfig{})
	_, err := d.Dispatch("swap-main")
	require.NoError(t, err)

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `tilewm_skipped_total{op="swap-main",reason="no_focused_window"} 1`)
	assert.Contains(t, string(body), "tilewm_dispatch_duration_seconds")
}

func TestRefreshBypassesRateLimit(t *testing.T) {
	d, engine, _, _ := newTestDispatcher(t, config.RepeatConfig{PerSecond: 0.001, Burst: 1})

	_, err := d.Dispatch("retile")
	require.NoError(t, err)
	require.NoError(t, d.Refresh())
	require.NoError(t, d.Refresh())

	assert.Equal(t, 3, engine.refreshes)
}

func TestReconfigureHoldsDispatchLock(t *testing.T) {
	d, engine, _, _ := newTestDispatcher(t, config.RepeatConfig{})

	entered := make(chan struct{})
	release := make(chan struct{})
	reconfigured := make(chan error, 1)
	go func() {
		reconfigured <- d.Reconfigure(config.RepeatConfig{}, func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	dispatched := make(chan struct{})
	go func() {
		_, _ = d.Dispatch("retile")
		close(dispatched)
	}()

	assert.Never(t, func() bool {
		select {
		case <-dispatched:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond, "dispatch ran while the config was being applied")

	close(release)
	require.NoError(t, <-reconfigured)
	<-dispatched
	assert.Equal(t, 1, engine.retiles)
}

func TestReconfigure(t *testing.T) {
	tests := []struct {
		name    string
		apply   func() error
		wantErr string
	}{
		{name: "nil apply"},
		{name: "apply succeeds", apply: func() error { return nil }},
		{name: "apply fails", apply: func() error { return errors.New("layout does not fit") }, wantErr: "layout does not fit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _, _ := newTestDispatcher(t, config.RepeatConfig{})

			err := d.Reconfigure(config.RepeatConfig{PerSecond: 0.001, Burst: 1}, tt.apply)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			// The new limit holds even when apply fails.
			_, err = d.Dispatch("retile")
			require.NoError(t, err)
			_, err = d.Dispatch("retile")
			assert.ErrorIs(t, err, ErrRateLimited)
		})
	}
}

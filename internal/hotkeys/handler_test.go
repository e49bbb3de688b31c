package hotkeys

import (
	"errors"
	"testing"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingDispatcher struct {
	calls []string
	err   error
}

func (d *recordingDispatcher) Dispatch(name string) (dispatch.Result, error) {
	d.calls = append(d.calls, name)
	if d.err != nil {
		return dispatch.Result{}, d.err
	}
	return dispatch.Result{RequestID: "req-1", Action: name}, nil
}

func TestPlanSortsAndSkipsUnbound(t *testing.T) {
	plan := Plan(map[string]string{
		"swap-main": " Mod4-Return ",
		"retile":    "",
		"screen-cw": "Mod4-l",
	})

	assert.Equal(t, []Binding{
		{Action: "screen-cw", Keys: "Mod4-l"},
		{Action: "swap-main", Keys: "Mod4-Return"},
	}, plan)
}

func TestPlanCoversDefaultBindings(t *testing.T) {
	defaults := config.DefaultBindings()
	assert.Len(t, Plan(defaults), len(defaults))
}

func TestTriggerDispatchesAction(t *testing.T) {
	d := &recordingDispatcher{}
	h := &Handler{dispatcher: d, logger: zap.NewNop()}

	h.trigger("swap-cw")()
	h.trigger("push-space-2")()

	assert.Equal(t, []string{"swap-cw", "push-space-2"}, d.calls)
}

func TestTriggerLogsFailuresButNotRateLimits(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := &recordingDispatcher{err: dispatch.ErrRateLimited}
	h := &Handler{dispatcher: d, logger: zap.New(core)}

	h.trigger("swap-cw")()
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)

	d.err = errors.New("boom")
	h.trigger("swap-cw")()
	warnings := logs.FilterLevelExact(zapcore.WarnLevel)
	assert.Equal(t, 1, warnings.Len())
}

func TestNewHandlerRequiresX11(t *testing.T) {
	_, err := NewHandler(nil, &recordingDispatcher{}, nil)
	assert.Error(t, err)
}

package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/1broseidon/tilewm/internal/action"
	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/ipc"
	"github.com/1broseidon/tilewm/internal/tiling"
)

type fakeDaemon struct {
	actions   []string
	statusErr error
	reloadErr error
	reloads   int
}

func (d *fakeDaemon) Action(name string) (*dispatch.Result, error) {
	d.actions = append(d.actions, name)
	return &dispatch.Result{RequestID: "req-7", Action: name, Transition: "switch_windows(1, 2)"}, nil
}

func (d *fakeDaemon) ToggleFloat() (*dispatch.Result, error) {
	floating := false
	return &dispatch.Result{RequestID: "req-8", Action: action.ToggleFloat, Floating: &floating}, nil
}

func (d *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if d.statusErr != nil {
		return nil, d.statusErr
	}
	return &ipc.StatusData{
		Tiling:        tiling.Status{Space: 0, SpaceCount: 2, Layout: "tall", Screens: []tiling.ScreenStatus{}},
		Bindings:      map[string]string{"swap-main": "Mod4-Shift-Return"},
		DaemonRunning: true,
	}, nil
}

func (d *fakeDaemon) Reload() error {
	d.reloads++
	return d.reloadErr
}

func newTestServer(t *testing.T) (*Server, *fakeDaemon) {
	t.Helper()
	d := &fakeDaemon{}
	return NewServer(d, zaptest.NewLogger(t)), d
}

func TestRunAction(t *testing.T) {
	s, d := newTestServer(t)

	_, out, err := s.handleRunAction(context.Background(), nil, RunActionInput{Action: " swap-main "})
	require.NoError(t, err)

	assert.Equal(t, "req-7", out.RequestID)
	assert.Equal(t, "swap-main", out.Action)
	assert.Equal(t, "switch_windows(1, 2)", out.Transition)
	assert.Equal(t, []string{"swap-main"}, d.actions)
}

func TestRunActionRejectsUnknownNames(t *testing.T) {
	s, d := newTestServer(t)

	for _, name := range []string{"", "swap-sideways", "throw-screen-0", "push-space-10"} {
		_, _, err := s.handleRunAction(context.Background(), nil, RunActionInput{Action: name})
		assert.Error(t, err, name)
	}
	assert.Empty(t, d.actions)
}

func TestToggleFloat(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.handleToggleFloat(context.Background(), nil, ToggleFloatInput{})
	require.NoError(t, err)
	require.NotNil(t, out.Floating)
	assert.False(t, *out.Floating)
}

func TestListActions(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.handleListActions(context.Background(), nil, ListActionsInput{})
	require.NoError(t, err)
	require.Len(t, out.Actions, len(action.Names()))

	bound := map[string]string{}
	for _, a := range out.Actions {
		bound[a.Name] = a.Binding
	}
	assert.Equal(t, "Mod4-Shift-Return", bound["swap-main"])
	assert.Contains(t, bound, "push-space-9")
	assert.Empty(t, bound["push-space-9"])
}

func TestListActionsWithoutDaemon(t *testing.T) {
	s, d := newTestServer(t)
	d.statusErr = errors.New("daemon not running")

	_, out, err := s.handleListActions(context.Background(), nil, ListActionsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Actions, len(action.Names()))
}

func TestGetStatus(t *testing.T) {
	s, d := newTestServer(t)

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	require.NoError(t, err)
	assert.Equal(t, "tall", out.Tiling.Layout)
	assert.True(t, out.DaemonRunning)

	d.statusErr = errors.New("daemon not running")
	_, _, err = s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	assert.Error(t, err)
}

func TestReloadConfig(t *testing.T) {
	s, d := newTestServer(t)

	_, out, err := s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{})
	require.NoError(t, err)
	assert.True(t, out.Reloaded)

	d.reloadErr = errors.New("bad yaml")
	_, _, err = s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{})
	assert.Error(t, err)
	assert.Equal(t, 2, d.reloads)
}

func TestToolsAreListed(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"run_action", "list_actions", "toggle_float", "get_status", "reload_config"}, names)
}

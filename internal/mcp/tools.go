package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/tilewm/internal/action"
	"github.com/1broseidon/tilewm/internal/dispatch"
)

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	name := strings.TrimSpace(args.Action)
	if name == "" {
		return nil, RunActionOutput{}, fmt.Errorf("action is required")
	}
	// Reject bad names locally so the caller gets the grammar error
	// without a daemon round trip.
	if _, err := action.Parse(name); err != nil {
		return nil, RunActionOutput{}, err
	}

	res, err := s.daemon.Action(name)
	if err != nil {
		return nil, RunActionOutput{}, err
	}
	s.logger.Debug("mcp action", zap.String("action", name), zap.String("request_id", res.RequestID))
	return nil, toOutput(res), nil
}

func (s *Server) handleToggleFloat(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleFloatInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	res, err := s.daemon.ToggleFloat()
	if err != nil {
		return nil, RunActionOutput{}, err
	}
	return nil, toOutput(res), nil
}

func (s *Server) handleListActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListActionsInput) (*mcpsdk.CallToolResult, ListActionsOutput, error) {
	// Bindings are best effort; the names are known without a daemon.
	var bindings map[string]string
	if status, err := s.daemon.GetStatus(); err == nil {
		bindings = status.Bindings
	} else {
		s.logger.Debug("status unavailable for list_actions", zap.Error(err))
	}

	names := action.Names()
	out := ListActionsOutput{Actions: make([]ActionInfo, 0, len(names))}
	for _, name := range names {
		out.Actions = append(out.Actions, ActionInfo{Name: name, Binding: bindings[name]})
	}
	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	return nil, ReloadConfigOutput{Reloaded: true}, nil
}

func toOutput(res *dispatch.Result) RunActionOutput {
	return RunActionOutput{
		RequestID:  res.RequestID,
		Action:     res.Action,
		Transition: res.Transition,
		Skipped:    res.Skip,
		Floating:   res.Floating,
		Error:      res.Error,
	}
}

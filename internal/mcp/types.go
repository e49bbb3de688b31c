package mcp

import (
	"github.com/1broseidon/tilewm/internal/ipc"
)

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Action name as bound in the config, e.g. swap-main, screen-cw, throw-screen-2 or push-space-3"`
}

// RunActionOutput is the output for the run_action and toggle_float tools.
type RunActionOutput struct {
	RequestID  string `json:"request_id"`
	Action     string `json:"action"`
	Transition string `json:"transition,omitempty"`
	Skipped    string `json:"skipped,omitempty"`
	Floating   *bool  `json:"floating,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ListActionsInput is the input for the list_actions tool.
type ListActionsInput struct{}

// ActionInfo describes one action and its current binding.
type ActionInfo struct {
	Name    string `json:"name"`
	Binding string `json:"binding,omitempty"`
}

// ListActionsOutput is the output for the list_actions tool.
type ListActionsOutput struct {
	Actions []ActionInfo `json:"actions"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput = ipc.StatusData

// ToggleFloatInput is the input for the toggle_float tool.
type ToggleFloatInput struct{}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}

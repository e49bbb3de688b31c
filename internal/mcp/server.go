// Package mcp exposes the window actions of a running daemon as MCP tools
// over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/ipc"
)

const (
	ServerName    = "tilewm"
	ServerVersion = "0.1.0"
)

// Daemon is the client side of the daemon socket.
type Daemon interface {
	Action(name string) (*dispatch.Result, error)
	ToggleFloat() (*dispatch.Result, error)
	GetStatus() (*ipc.StatusData, error)
	Reload() error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for tilewm.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *zap.Logger
}

// NewServer creates a new MCP server that forwards tool calls to daemon.
func NewServer(daemon Daemon, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a window action in the tiling daemon, exactly as if its key binding were pressed. Use list_actions for valid names. Skipped actions (for example no focused window) are reported in the skipped field and are not errors.",
	}, s.handleRunAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_actions",
		Description: "List every action name the daemon accepts together with the key currently bound to it.",
	}, s.handleListActions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_float",
		Description: "Toggle the focused window between tiled and floating.",
	}, s.handleToggleFloat)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the current space, the tiled windows of each screen in order (the first is the screen's main window) and the floating windows.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Reload the daemon configuration file. An invalid file is rejected and the running configuration is kept.",
	}, s.handleReloadConfig)
}

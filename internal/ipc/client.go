package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tilewm/internal/dispatch"
	"github.com/1broseidon/tilewm/internal/runtimepath"
)

// Client talks to a running daemon. Every call opens a fresh connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient connects to the default socket. An unresolvable runtime
// directory surfaces as a connection error on first use.
func NewClient() *Client {
	path, _ := runtimepath.SocketPath()
	return NewClientAt(path)
}

// NewClientAt creates a client for the socket at socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest writes req as one JSON line and reads one response line.
// ERROR responses come back as errors.
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// Action asks the daemon to run a named action.
func (c *Client) Action(name string) (*dispatch.Result, error) {
	payload, err := json.Marshal(ActionPayload{Action: name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action payload: %w", err)
	}
	return c.result(&Request{Command: CommandAction, Payload: payload})
}

// ToggleFloat flips the floating state of the focused window.
func (c *Client) ToggleFloat() (*dispatch.Result, error) {
	return c.result(&Request{Command: CommandToggleFloat})
}

func (c *Client) result(req *Request) (*dispatch.Result, error) {
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var res dispatch.Result
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse action result: %w", err)
	}
	return &res, nil
}

// Reload makes the daemon re-read its config file.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Ping reports whether a daemon answers on the socket.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

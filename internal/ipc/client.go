package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/desktop"
	"github.com/1broseidon/relic/internal/runtimepath"
)

// Client talks to a running desktop's control socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// sendRequest surfaces the failure as a dial error.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

func (c *Client) sendRequest(cmd CommandType, payload interface{}) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is 'relic run' active?)", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	req := Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(reqData, '\n')); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}
	return &resp, nil
}

// GetStatus retrieves the desktop status.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Snapshot retrieves the live control tree.
func (c *Client) Snapshot() (desktop.Snapshot, error) {
	resp, err := c.sendRequest(CommandSnapshot, nil)
	if err != nil {
		return desktop.Snapshot{}, err
	}
	var data SnapshotData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return desktop.Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return data.Snapshot, nil
}

// Arrange repositions the desktop's windows.
func (c *Client) Arrange(mode string) error {
	_, err := c.sendRequest(CommandArrange, ArrangePayload{Mode: mode})
	return err
}

// Focus focuses the window named by ref; an empty ref blurs every window.
func (c *Client) Focus(ref string) error {
	_, err := c.sendRequest(CommandFocus, FocusPayload{Ref: ref})
	return err
}

// FocusDirection moves focus to the nearest window in dir (up, down, left,
// right) and returns its id, or "" when the desktop has no windows.
func (c *Client) FocusDirection(dir string) (string, error) {
	resp, err := c.sendRequest(CommandFocus, FocusPayload{Direction: dir})
	if err != nil {
		return "", err
	}
	var data FocusData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse focus data: %w", err)
	}
	return data.Focused, nil
}

// Reload asks the desktop to rebuild its scene from the config file and
// returns the new window count.
func (c *Client) Reload() (int, error) {
	resp, err := c.sendRequest(CommandReload, nil)
	if err != nil {
		return 0, err
	}
	var data ReloadData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse reload data: %w", err)
	}
	return data.WindowCount, nil
}

// Load replaces the desktop's scene with specs and returns the new window
// count. A non-empty arrange mode is applied afterwards.
func (c *Client) Load(specs []config.ControlSpec, arrange string) (int, error) {
	resp, err := c.sendRequest(CommandLoad, LoadPayload{Arrange: arrange, Windows: specs})
	if err != nil {
		return 0, err
	}
	var data ReloadData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse load data: %w", err)
	}
	return data.WindowCount, nil
}

// Ping checks that a desktop is answering.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

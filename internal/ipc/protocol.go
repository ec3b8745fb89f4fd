package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/desktop"
)

// CommandType names a control socket command.
type CommandType string

const (
	CommandGetStatus CommandType = "GET_STATUS"
	CommandSnapshot  CommandType = "SNAPSHOT"
	CommandArrange   CommandType = "ARRANGE"
	CommandFocus     CommandType = "FOCUS"
	CommandReload    CommandType = "RELOAD"
	CommandLoad      CommandType = "LOAD"
)

// Request is one line sent by a client.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the single line written back.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is returned by GET_STATUS.
type StatusData struct {
	Surface       string `json:"surface"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	WindowCount   int    `json:"window_count"`
	Focused       string `json:"focused,omitempty"`
	Dragging      string `json:"dragging,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// SnapshotData is returned by SNAPSHOT.
type SnapshotData struct {
	Snapshot desktop.Snapshot `json:"snapshot"`
}

// ReloadData is returned by RELOAD and LOAD.
type ReloadData struct {
	WindowCount int `json:"window_count"`
}

type ArrangePayload struct {
	Mode string `json:"mode"`
}

// LoadPayload replaces the scene with Windows, then applies Arrange if set.
type LoadPayload struct {
	Arrange string               `json:"arrange,omitempty"`
	Windows []config.ControlSpec `json:"windows"`
}

// FocusPayload names a window, or a direction to move focus in. Ref wins
// when both are set; an empty payload clears focus.
type FocusPayload struct {
	Ref       string `json:"ref,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// FocusData is returned by FOCUS with the id of the focused window.
type FocusData struct {
	Focused string `json:"focused,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}
	return &Response{Status: "OK", Data: dataBytes}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

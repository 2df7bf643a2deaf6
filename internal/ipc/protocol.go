package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/captionbar/internal/caption"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandSetTitle    CommandType = "SET_TITLE"
	CommandGetDisplays CommandType = "GET_DISPLAYS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Title         string  `json:"title"`
	Bound         bool    `json:"bound"`
	StripHeight   int     `json:"strip_height"`
	DrawableStart int     `json:"drawable_start"`
	DrawableEnd   int     `json:"drawable_end"`
	DPI           float64 `json:"dpi,omitempty"`
	// Transparency is empty until the request has resolved.
	Transparency        string               `json:"transparency,omitempty"`
	TransparencyOutcome string               `json:"transparency_outcome,omitempty"`
	LastRecord          *caption.DebugRecord `json:"last_record,omitempty"`
	ConfigPath          string               `json:"config_path,omitempty"`
	UptimeSeconds       int64                `json:"uptime_seconds"`
	Running             bool                 `json:"running"`
}

// DisplayInfo represents information about a single display
type DisplayInfo struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	DPI    float64 `json:"dpi,omitempty"`
}

// DisplaysData represents the data returned by GET_DISPLAYS
type DisplaysData struct {
	Displays []DisplayInfo `json:"displays"`
}

// SetTitlePayload represents the payload for SET_TITLE
type SetTitlePayload struct {
	Title string `json:"title"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: command is required")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

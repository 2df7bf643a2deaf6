// Package mcp exposes a running caption window to MCP clients over stdio.
package mcp

import (
	"context"
	"io"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/captionbar/internal/ipc"
)

const (
	ServerName    = "captionbar"
	ServerVersion = "0.1.0"
)

// CaptionClient is the control channel to a running caption window.
// *ipc.Client implements it.
type CaptionClient interface {
	GetStatus() (*ipc.StatusData, error)
	SetTitle(title string) error
	GetDisplays() (*ipc.DisplaysData, error)
	Reload() error
}

// Server is the MCP server for a captionbar window.
type Server struct {
	mcpServer *mcpsdk.Server
	client    CaptionClient
	logger    *slog.Logger
}

// NewServer creates an MCP server forwarding tool calls to client.
func NewServer(client CaptionClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		client: client,
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
		Name:        "get_caption_status",
		Description: "Report the caption strip of the running captionbar window: title, strip height, the drawable span the title occupies, whether obstacle detection is degraded, and the transparency outcome.",
	}, s.handleGetCaptionStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_caption_title",
		Description: "Change the title shown in the caption strip. The title must be a single line. Geometry is not recomputed.",
	}, s.handleSetCaptionTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List the displays known to the window system, with their bounds and density.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Reload the captionbar config file. Title and colors apply immediately; other keys need a restart.",
	}, s.handleReloadConfig)
}

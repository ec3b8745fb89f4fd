// Package mcp exposes a running desktop over the Model Context Protocol so
// agents can inspect and drive it.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/relic/internal/desktop"
)

const (
	ServerName    = "relic"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for one desktop. Every tool runs on the desktop's
// event goroutine through desktop.Do, so the desktop must be running.
type Server struct {
	mcpServer *mcpsdk.Server
	desk      *desktop.Desktop
	log       *zap.Logger
}

// NewServer creates a server for d. A nil logger discards output.
func NewServer(d *desktop.Desktop, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		desk: d,
		log:  logger.Named("mcp"),
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

// Run serves on the stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect serves one session on t.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_controls",
		Description: "List every control on the desktop in paint order, parents before children, with geometry, colors, titles and focus. Also reports the surface size and the window being dragged, if any.",
	}, s.handleListControls)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_window",
		Description: "Create a window (or a container or plain control via kind) and add it to the desktop or to the container named by parent. Windows are moved inside the parent's content region. Returns the new control.",
	}, s.handleAddWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_child",
		Description: "Remove the most recently added child with the given name from the desktop or from parent. Cancels a drag running inside the removed control.",
	}, s.handleRemoveChild)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_geometry",
		Description: "Move and/or resize a control. Values are not clamped; the layout below the control is recomputed.",
	}, s.handleSetGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_colors",
		Description: "Set the background and/or foreground color of a control. Containers apply colors to their content region.",
	}, s.handleSetColors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_title",
		Description: "Change the title of a window.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window and the windows containing it, blurring all others. An empty ref blurs every window; a direction moves focus to the nearest top-level window.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "pointer",
		Description: "Deliver a primary-button pointer event at surface coordinates, exactly as the host would. A down on a title bar starts a drag, move drags, up drops.",
	}, s.handlePointer)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Arrange the desktop's top-level windows: cascade, grid, vertical or horizontal.",
	}, s.handleArrangeWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_surface",
		Description: "Resize the host surface when the driver supports it (headless and x11). Windows are re-clamped inside the new size. On x11 the server applies the size later and the result reports pending.",
	}, s.handleResizeSurface)
}

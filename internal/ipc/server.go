// Package ipc exposes a running desktop on a unix socket. Each connection
// carries one JSON request line and receives one JSON response line.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/desktop"
	"github.com/1broseidon/relic/internal/runtimepath"
	"github.com/1broseidon/relic/internal/tiling"
)

// requestTimeout bounds how long one request may wait on the event loop.
const requestTimeout = 5 * time.Second

// Server answers control requests for one desktop.
type Server struct {
	socketPath  string
	surfaceName string
	listener    net.Listener
	desk        *desktop.Desktop
	log         *zap.Logger
	startTime   time.Time
	loadMu      sync.Mutex
	loadConfig  func() (*config.Config, error)

	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on the default socket path.
func NewServer(d *desktop.Desktop, surfaceName string, logger *zap.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, d, surfaceName, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, d *desktop.Desktop, surfaceName string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		socketPath:  socketPath,
		surfaceName: surfaceName,
		desk:        d,
		log:         logger.Named("ipc"),
		startTime:   time.Now(),
	}
}

// SetConfigLoader enables RELOAD. load is called outside the event loop.
func (s *Server) SetConfigLoader(load func() (*config.Config, error)) {
	s.loadMu.Lock()
	s.loadConfig = load
	s.loadMu.Unlock()
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening. A stale socket left by a previous run is removed
// unless another desktop still answers on it.
func (s *Server) Start() error {
	if conn, err := net.DialTimeout("unix", s.socketPath, 200*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("another desktop is listening on %s", s.socketPath)
	}
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener
	s.log.Info("control socket listening", zap.String("path", s.socketPath))

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Close stops accepting, waits for in-flight requests and removes the socket.
func (s *Server) Close() error {
	s.shutdownMu.Lock()
	if s.shuttingDown || s.listener == nil {
		s.shutdownMu.Unlock()
		return nil
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()
	_ = os.Remove(s.socketPath)
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			closing := s.shuttingDown
			s.shutdownMu.Unlock()
			if closing {
				return
			}
			s.log.Warn("accept failed", zap.Error(err))
			time.Sleep(50 * time.Millisecond)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * requestTimeout))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Debug("read failed", zap.Error(err))
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	out, err := resp.Marshal()
	if err != nil {
		s.log.Error("marshal response", zap.Error(err))
		return
	}
	if _, err := conn.Write(append(out, '\n')); err != nil {
		s.log.Debug("write failed", zap.Error(err))
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	s.log.Debug("request", zap.String("command", string(req.Command)))
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandSnapshot:
		return s.handleSnapshot(ctx)
	case CommandArrange:
		return s.handleArrange(ctx, req.Payload)
	case CommandFocus:
		return s.handleFocus(ctx, req.Payload)
	case CommandReload:
		return s.handleReload(ctx)
	case CommandLoad:
		return s.handleLoad(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status := StatusData{
		Surface:       s.surfaceName,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
	err := s.desk.Do(ctx, func(d *desktop.Desktop) error {
		status.Width, status.Height = d.Surface().Size()
		status.WindowCount = len(d.Windows())
		for _, w := range d.Windows() {
			if w.Focused() {
				status.Focused = w.ID()
			}
		}
		if active, ok := d.Interaction().Active(); ok {
			status.Dragging = active.Window.ID()
		}
		return nil
	})
	return s.respond(status, err)
}

func (s *Server) handleSnapshot(ctx context.Context) *Response {
	var data SnapshotData
	err := s.desk.Do(ctx, func(d *desktop.Desktop) error {
		data.Snapshot = d.Snapshot()
		return nil
	})
	return s.respond(data, err)
}

func (s *Server) handleArrange(ctx context.Context, payload json.RawMessage) *Response {
	var p ArrangePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
	}
	mode, err := tiling.ParseMode(p.Mode)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	err = s.desk.Do(ctx, func(d *desktop.Desktop) error {
		return d.Arrange(mode)
	})
	return s.respond(nil, err)
}

func (s *Server) handleFocus(ctx context.Context, payload json.RawMessage) *Response {
	var p FocusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}
	if p.Ref == "" && p.Direction != "" {
		dir, err := tiling.ParseDirection(p.Direction)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		var data FocusData
		err = s.desk.Do(ctx, func(d *desktop.Desktop) error {
			if w := d.FocusNeighbor(dir); w != nil {
				data.Focused = w.ID()
			}
			return nil
		})
		return s.respond(data, err)
	}

	var data FocusData
	err := s.desk.Do(ctx, func(d *desktop.Desktop) error {
		var target *control.Control
		if p.Ref != "" {
			target = d.Lookup(p.Ref)
			if target == nil {
				return fmt.Errorf("no control %q", p.Ref)
			}
			if target.Kind() != control.KindWindow {
				return fmt.Errorf("%q: %w", p.Ref, control.ErrNotWindow)
			}
			data.Focused = target.ID()
		}
		d.Focus(target)
		return nil
	})
	return s.respond(data, err)
}

// handleReload rebuilds the scene from freshly loaded configuration. Surface
// and gap settings only apply on the next start.
func (s *Server) handleReload(ctx context.Context) *Response {
	s.loadMu.Lock()
	load := s.loadConfig
	s.loadMu.Unlock()
	if load == nil {
		return NewErrorResponse("reload is not enabled on this desktop")
	}
	cfg, err := load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return s.replaceScene(ctx, cfg.Windows, cfg.Arrange, "scene reloaded")
}

// handleLoad replaces the scene with controls sent by the client. They are
// validated like the config file before the running scene is touched.
func (s *Server) handleLoad(ctx context.Context, payload json.RawMessage) *Response {
	var p LoadPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid load payload: %v", err))
	}
	check := config.DefaultConfig()
	check.Arrange = p.Arrange
	check.Windows = p.Windows
	if err := check.Validate(); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.replaceScene(ctx, p.Windows, p.Arrange, "scene loaded")
}

func (s *Server) replaceScene(ctx context.Context, specs []config.ControlSpec, arrange, msg string) *Response {
	var mode tiling.Mode
	if arrange != "" {
		var err error
		if mode, err = tiling.ParseMode(arrange); err != nil {
			return NewErrorResponse(err.Error())
		}
	}

	var data ReloadData
	err := s.desk.Do(ctx, func(d *desktop.Desktop) error {
		if err := d.Reload(specs, mode); err != nil {
			return err
		}
		data.WindowCount = len(d.Windows())
		return nil
	})
	if err == nil {
		s.log.Info(msg, zap.Int("windows", data.WindowCount))
	}
	return s.respond(data, err)
}

func (s *Server) respond(data interface{}, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

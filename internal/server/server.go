package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
	"github.com/ironsheep/eyedropper-mcp/internal/config"
	"github.com/ironsheep/eyedropper-mcp/internal/display"
	"github.com/ironsheep/eyedropper-mcp/internal/imaging"
	"github.com/ironsheep/eyedropper-mcp/internal/logging"
	"github.com/ironsheep/eyedropper-mcp/internal/sampler"
)

// Server handles MCP protocol communication
type Server struct {
	settings config.Settings
	monitors display.Provider
	capturer capture.Adapter
	cache    *imaging.ImageCache
	slot     *sampler.Slot
	log      logrus.FieldLogger
	version  string
}

// Options configures a Server. Nil providers fall back to the live screen.
type Options struct {
	Settings config.Settings
	Monitors display.Provider
	Capturer capture.Adapter
	Slot     *sampler.Slot
	Logger   logrus.FieldLogger
	Version  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) (*Server, error) {
	cache, err := imaging.NewImageCache(opts.Settings.CacheSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		settings: opts.Settings,
		monitors: opts.Monitors,
		capturer: opts.Capturer,
		cache:    cache,
		slot:     opts.Slot,
		log:      logging.OrDiscard(opts.Logger),
		version:  opts.Version,
	}
	if s.monitors == nil {
		s.monitors = display.NewScreenProvider(opts.Settings.DisplayScale)
	}
	if s.capturer == nil {
		s.capturer = &capture.ScreenAdapter{Encoding: opts.Settings.Encoding()}
	}
	if s.slot == nil {
		s.slot = sampler.NewSlot()
	}
	if s.version == "" {
		s.version = "dev"
	}
	return s, nil
}

// Slot returns the handoff slot that receives magnified results.
func (s *Server) Slot() *sampler.Slot {
	return s.slot
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited requests from r and writes responses to w.
//
// tools/call requests run on their own goroutines so a slow capture never
// stalls the read loop; responses may therefore arrive out of order and are
// matched by ID. Serve returns after r is exhausted and every in-flight call
// has answered.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		encoder = json.NewEncoder(w)
	)
	write := func(resp *MCPResponse) {
		if resp == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := encoder.Encode(resp); err != nil {
			s.log.WithError(err).Error("failed to encode response")
		}
	}

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request")
			write(s.errorResponse(nil, -32700, "Parse error", err.Error()))
			continue
		}

		if req.Method == "tools/call" {
			wg.Add(1)
			go func(req MCPRequest) {
				defer wg.Done()
				write(s.handleRequest(&req))
			}(req)
			continue
		}
		write(s.handleRequest(&req))
	}

	wg.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.WithFields(logrus.Fields{"method": req.Method, "id": req.ID}).Debug("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "eyedropper-mcp",
				"version": s.version,
			},
		},
	}
}

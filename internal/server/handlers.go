package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/eyedropper-mcp/internal/capture"
	"github.com/ironsheep/eyedropper-mcp/internal/display"
	"github.com/ironsheep/eyedropper-mcp/internal/imaging"
	"github.com/ironsheep/eyedropper-mcp/internal/sampler"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sample_color").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArguments marks argument errors so they map to -32602.
var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// sample_magnified additionally returns the PNG as an image content item.
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		s.log.WithError(err).WithField("tool", params.Name).Warn("tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if m, ok := result.(*magnifiedResult); ok {
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     m.ImageBase64,
			"mimeType": m.MimeType,
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "sample_color":
		return s.handleSampleColor(args)
	case "sample_magnified":
		return s.handleSampleMagnified(args)
	case "list_monitors":
		return s.handleListMonitors()
	case "last_magnified_dimensions":
		return s.handleLastDimensions()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Sampling Handlers ===

type sampleArgs struct {
	X           *float64 `json:"x"`
	Y           *float64 `json:"y"`
	CursorX     *float64 `json:"cursor_x"`
	CursorY     *float64 `json:"cursor_y"`
	Path        string   `json:"path"`
	ScaleFactor float64  `json:"scale_factor"`
	Format      string   `json:"format"`
	GridLines   bool     `json:"grid_lines"`
	GridColor   string   `json:"grid_color"`
}

func parseSampleArgs(args json.RawMessage) (*sampleArgs, error) {
	var a sampleArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
		}
	}
	if a.X == nil || a.Y == nil {
		return nil, fmt.Errorf("%w: x and y are required", errInvalidArguments)
	}
	if (a.CursorX == nil) != (a.CursorY == nil) {
		return nil, fmt.Errorf("%w: cursor_x and cursor_y must be given together", errInvalidArguments)
	}
	if a.ScaleFactor < 0 {
		return nil, fmt.Errorf("%w: scale_factor must be positive", errInvalidArguments)
	}
	if a.ScaleFactor == 0 {
		a.ScaleFactor = 1.0
	}
	return &a, nil
}

func (a *sampleArgs) point() display.LogicalPoint {
	return display.LogicalPoint{X: *a.X, Y: *a.Y}
}

// cursor returns the pointer source for the request. Without cursor_x and
// cursor_y the point is taken as relative to the primary monitor.
func (a *sampleArgs) cursor(monitors display.Provider) display.CursorSource {
	if a.CursorX == nil {
		return display.PrimaryCursor{Provider: monitors}
	}
	return display.FixedCursor{X: *a.CursorX, Y: *a.CursorY}
}

// samplerFor builds a request-scoped sampler over the live screen, or over
// the screenshot named by a.Path.
func (s *Server) samplerFor(a *sampleArgs) (*sampler.Sampler, error) {
	cfg := sampler.Config{
		Radius: s.settings.MagnifyRadius,
		Ratio:  s.settings.MagnifyRatio,
		Magnify: imaging.MagnifyOptions{
			GridLines: a.GridLines,
			GridColor: a.GridColor,
		},
	}
	log := s.log.WithField("tool_path", a.Path)

	if a.Path != "" {
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		src := capture.NewImageAdapter(img, capture.EncodingSRGB)
		monitors := display.StaticProvider{src.Monitor(a.ScaleFactor)}
		return sampler.New(monitors, src, cfg, sampler.WithLogger(log))
	}

	if a.CursorX == nil {
		log.Debug("no cursor given, sampling relative to the primary monitor")
	}
	return sampler.New(s.monitors, s.capturer, cfg,
		sampler.WithLogger(log),
		sampler.WithCursor(a.cursor(s.monitors)))
}

type sampleColorResult struct {
	X         float64              `json:"x"`
	Y         float64              `json:"y"`
	Color     *imaging.ColorResult `json:"color"`
	Formatted string               `json:"formatted"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	a, err := parseSampleArgs(args)
	if err != nil {
		return nil, err
	}
	if _, err := imaging.FormatColor(imaging.RGBAColor{}, a.Format); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	smp, err := s.samplerFor(a)
	if err != nil {
		return nil, err
	}
	c, err := smp.SampleColor(a.point())
	if err != nil {
		return nil, err
	}

	formatted, _ := imaging.FormatColor(c, a.Format)
	return &sampleColorResult{
		X:         *a.X,
		Y:         *a.Y,
		Color:     imaging.NewColorResult(c),
		Formatted: formatted,
	}, nil
}

type magnifiedResult struct {
	*imaging.MagnifyResult
	Monitor     string               `json:"monitor"`
	ResultID    string               `json:"result_id"`
	CenterColor *imaging.ColorResult `json:"center_color"`
}

func (s *Server) handleSampleMagnified(args json.RawMessage) (interface{}, error) {
	a, err := parseSampleArgs(args)
	if err != nil {
		return nil, err
	}

	smp, err := s.samplerFor(a)
	if err != nil {
		return nil, err
	}
	m, err := smp.SampleMagnified(a.point())
	if err != nil {
		return nil, err
	}

	out, err := imaging.NewMagnifyResult(m.Image, m.Grid, m.Ratio)
	if err != nil {
		return nil, err
	}
	res, err := sampler.NewResult(m.Image)
	if err != nil {
		return nil, err
	}
	s.slot.Store(res)

	return &magnifiedResult{
		MagnifyResult: out,
		Monitor:       m.Monitor.Name,
		ResultID:      res.ID.String(),
		CenterColor:   imaging.NewColorResult(m.Center()),
	}, nil
}

// === Display Handlers ===

type monitorsResult struct {
	Monitors []display.Monitor `json:"monitors"`
}

func (s *Server) handleListMonitors() (interface{}, error) {
	monitors, err := s.monitors.Monitors()
	if err != nil {
		return nil, err
	}
	if monitors == nil {
		monitors = []display.Monitor{}
	}
	return &monitorsResult{Monitors: monitors}, nil
}

type dimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleLastDimensions() (interface{}, error) {
	w, h, ok := s.slot.Dimensions()
	if !ok {
		return nil, errors.New("no magnified image has been produced yet")
	}
	return &dimensionsResult{Width: w, Height: h}, nil
}

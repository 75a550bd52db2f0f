package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pointProperties are shared by both sampling tools.
func pointProperties() map[string]interface{} {
	return map[string]interface{}{
		"x": map[string]interface{}{
			"type":        "number",
			"description": "Logical X coordinate relative to the top-left corner of the monitor under cursor_x/cursor_y, or of the primary monitor when no cursor is given",
		},
		"y": map[string]interface{}{
			"type":        "number",
			"description": "Logical Y coordinate relative to the top-left corner of the monitor under cursor_x/cursor_y, or of the primary monitor when no cursor is given",
		},
		"cursor_x": map[string]interface{}{
			"type":        "number",
			"description": "Optional desktop pointer X in physical pixels, used to pick the monitor. Give together with cursor_y; omit both to use the primary monitor",
		},
		"cursor_y": map[string]interface{}{
			"type":        "number",
			"description": "Optional desktop pointer Y in physical pixels, used to pick the monitor. Give together with cursor_x; omit both to use the primary monitor",
		},
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Optional absolute path to a screenshot to sample instead of the live screen",
		},
		"scale_factor": map[string]interface{}{
			"type":        "number",
			"description": "Physical pixels per logical pixel of the screenshot given by path. Default 1.0",
			"default":     1.0,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	sampleProps := pointProperties()
	sampleProps["format"] = map[string]interface{}{
		"type":        "string",
		"description": "Text format of the color: hex, rgb, hsl or oklch. Default hex",
		"enum":        []string{"hex", "rgb", "hsl", "oklch"},
		"default":     "hex",
	}

	magnifyProps := pointProperties()
	magnifyProps["grid_lines"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw 1-pixel separators between magnified cells. Default false",
		"default":     false,
	}
	magnifyProps["grid_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Separator color in hex (#RRGGBB or #RRGGBBAA)",
	}

	return []Tool{
		{
			Name:        "sample_color",
			Description: "Return the exact displayed color of the logical pixel at (x, y) on the monitor under the pointer, as hex, RGB, HSL and OKLCH.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sampleProps,
				"required":   []string{"x", "y"},
			},
		},
		{
			Name:        "sample_magnified",
			Description: "Capture the pixels around (x, y) and return a magnified PNG where each logical pixel is a uniform block. Also publishes the image to the preview server.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": magnifyProps,
				"required":   []string{"x", "y"},
			},
		},
		{
			Name:        "list_monitors",
			Description: "List the attached monitors with their logical origin, size, scale factor and primary flag.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "last_magnified_dimensions",
			Description: "Get the width and height of the most recent magnified image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

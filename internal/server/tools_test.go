package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"sample_color",
		"sample_magnified",
		"list_monitors",
		"last_magnified_dimensions",
	}

	if len(tools) != len(expectedTools) {
		t.Fatalf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		tool, ok := toolMap[name]
		if !ok {
			t.Errorf("missing tool: %s", name)
			continue
		}
		if tool.Description == "" {
			t.Errorf("tool %s has empty description", name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("tool %s: schema type should be object", name)
		}
	}
}

func TestToolSchemas_RequiredCoordinates(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "sample_color" && tool.Name != "sample_magnified" {
			continue
		}

		required, ok := tool.InputSchema["required"].([]string)
		if !ok {
			t.Fatalf("tool %s: required should be []string", tool.Name)
		}
		if len(required) != 2 || required[0] != "x" || required[1] != "y" {
			t.Errorf("tool %s: required got %v, want [x y]", tool.Name, required)
		}

		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, p := range []string{"x", "y", "cursor_x", "cursor_y", "path", "scale_factor"} {
			if _, ok := props[p]; !ok {
				t.Errorf("tool %s: missing property %s", tool.Name, p)
			}
		}
	}
}

func TestToolSchemas_ToolSpecificProperties(t *testing.T) {
	props := make(map[string]map[string]interface{})
	for _, tool := range GetToolDefinitions() {
		props[tool.Name] = tool.InputSchema["properties"].(map[string]interface{})
	}

	if _, ok := props["sample_color"]["format"]; !ok {
		t.Error("sample_color should accept format")
	}
	if _, ok := props["sample_color"]["grid_lines"]; ok {
		t.Error("sample_color should not accept grid_lines")
	}
	if _, ok := props["sample_magnified"]["grid_lines"]; !ok {
		t.Error("sample_magnified should accept grid_lines")
	}
	if _, ok := props["sample_magnified"]["grid_color"]; !ok {
		t.Error("sample_magnified should accept grid_color")
	}
}

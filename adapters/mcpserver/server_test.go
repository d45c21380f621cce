package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonprof/app"
	"jsonprof/internal/profiling"
)

const tempsDoc = `{"temps":[22.1,22.3,22.0,21.9,22.2,35.7,22.1]}`

func call(t *testing.T, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	s := NewServer(app.NewAnalysisService(profiling.DefaultOptions(), 1))

	var req mcp.CallToolRequest
	req.Params.Name = ToolAnalyzeJSON
	req.Params.Arguments = args

	result, err := s.handleAnalyze(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestAnalyzeJSONText(t *testing.T) {
	result := call(t, map[string]interface{}{"json": tempsDoc})
	assert.False(t, result.IsError)
	assert.Contains(t, text(t, result), "Path: temps[5]")
}

func TestAnalyzeJSONStructuredOutput(t *testing.T) {
	result := call(t, map[string]interface{}{
		"document":      map[string]interface{}{"temps": []interface{}{22.1, 22.3, 22.0, 21.9, 22.2, 35.7, 22.1}},
		"output_format": "json",
	})
	require.False(t, result.IsError)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &doc))
	anomalies := doc["anomalies"].([]interface{})
	require.Len(t, anomalies, 1)
	assert.Equal(t, "temps[5]", anomalies[0].(map[string]interface{})["path"])
}

func TestAnalyzeJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(tempsDoc), 0o644))

	result := call(t, map[string]interface{}{"file_path": path, "output_format": "yaml"})
	assert.False(t, result.IsError)
	assert.Contains(t, text(t, result), "z_score:")
	assert.Contains(t, text(t, result), "temps[5]")
}

func TestAnalyzeJSONThreshold(t *testing.T) {
	result := call(t, map[string]interface{}{"json": tempsDoc, "z_threshold": 3.0})
	assert.False(t, result.IsError)
	assert.Contains(t, text(t, result), "No anomalies detected.")
}

func TestAnalyzeJSONToolErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"no input", map[string]interface{}{}, "INVALID_INPUT"},
		{"two inputs", map[string]interface{}{"json": tempsDoc, "file_path": "x.json"}, "INVALID_INPUT"},
		{"bad json", map[string]interface{}{"json": `{"a":`}, "PARSE_FAILURE"},
		{"bad format", map[string]interface{}{"json": tempsDoc, "output_format": "xml"}, "INVALID_INPUT"},
		{"negative threshold", map[string]interface{}{"json": tempsDoc, "z_threshold": -1.0}, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, text(t, result), tt.want)
		})
	}
}

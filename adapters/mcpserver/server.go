// Package mcpserver exposes the profiler as a Model Context Protocol tool
// served over stdio.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"jsonprof/app"
	"jsonprof/domain/jsonvalue"
	"jsonprof/internal"
	"jsonprof/internal/errors"
)

const (
	ServerName    = "jsonprof"
	ServerVersion = "0.1.0"

	// ToolAnalyzeJSON is the name of the single registered tool
	ToolAnalyzeJSON = "analyze_json"
)

// Server wraps an MCP server bound to an analysis service
type Server struct {
	mcp     *server.MCPServer
	service *app.AnalysisService
	logger  *internal.Logger
}

// NewServer registers the analyze_json tool
func NewServer(service *app.AnalysisService) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithLogging(),
			server.WithRecovery(),
		),
		service: service,
		logger:  internal.DefaultLogger.With("component", "mcp"),
	}
	s.mcp.AddTool(analyzeTool(service.Options().ZThreshold), s.handleAnalyze)
	return s
}

func analyzeTool(defaultZ float64) mcp.Tool {
	return mcp.NewTool(ToolAnalyzeJSON,
		mcp.WithDescription("Profile a JSON document: per-node statistics, numeric boundaries and z-score anomalies in numeric arrays. Provide exactly one of json, document or file_path."),
		mcp.WithString("json",
			mcp.Description("The JSON document as text."),
		),
		mcp.WithObject("document",
			mcp.Description("The JSON document as a structured object."),
		),
		mcp.WithString("file_path",
			mcp.Description("Path to a local .json, .xlsx, .csv or pprof file to analyze."),
		),
		mcp.WithNumber("z_threshold",
			mcp.Description("Absolute z-score above which an array element is reported."),
			mcp.DefaultNumber(defaultZ),
		),
		mcp.WithString("output_format",
			mcp.Description("Result format."),
			mcp.DefaultString(string(app.FormatText)),
			mcp.Enum(string(app.FormatText), string(app.FormatJSON), string(app.FormatYAML)),
		),
	)
}

// ServeStdio blocks serving requests on stdin/stdout
func (s *Server) ServeStdio() error {
	s.logger.Info("serving %s over stdio", ToolAnalyzeJSON)
	return server.ServeStdio(s.mcp)
}

// handleAnalyze reports input and analysis failures as tool errors so the
// client sees the message; only protocol-level problems return err
func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	service := s.service
	if z, ok := args["z_threshold"].(float64); ok {
		var err error
		if service, err = service.WithThreshold(z); err != nil {
			return toolError(err), nil
		}
	}

	formatArg, ok := args["output_format"].(string)
	if !ok || formatArg == "" {
		formatArg = string(app.FormatText)
	}
	format, err := app.ParseFormat(formatArg)
	if err != nil {
		return toolError(err), nil
	}

	run, err := s.analyze(ctx, service, args)
	if err != nil {
		s.logger.Warn("%s failed: %v", ToolAnalyzeJSON, err)
		return toolError(err), nil
	}

	out, err := app.Render(run, format)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("%s run %s: %d anomalies", ToolAnalyzeJSON, run.ID, len(run.Analysis.Anomalies))
	return textResult(out, false), nil
}

func (s *Server) analyze(ctx context.Context, service *app.AnalysisService, args map[string]interface{}) (*app.Run, error) {
	text, hasText := args["json"].(string)
	path, hasPath := args["file_path"].(string)
	doc, hasDoc := args["document"]
	hasText = hasText && text != ""
	hasPath = hasPath && path != ""
	hasDoc = hasDoc && doc != nil

	given := 0
	for _, b := range []bool{hasText, hasPath, hasDoc} {
		if b {
			given++
		}
	}
	if given != 1 {
		return nil, errors.InvalidInput("provide exactly one of json, document or file_path")
	}

	switch {
	case hasText:
		return service.AnalyzeBytes(ctx, []byte(text))
	case hasPath:
		return service.AnalyzeFile(ctx, path)
	default:
		return service.AnalyzeDocument(ctx, "document", jsonvalue.FromInterface(doc))
	}
}

func toolError(err error) *mcp.CallToolResult {
	return textResult(fmt.Sprintf("%s: %v", errors.GetCode(err), err), true)
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: isError,
	}
}

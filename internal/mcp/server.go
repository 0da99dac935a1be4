// Package mcp exposes the workflow lookups as MCP tools so agents can query
// the index directly.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"informatica-search/internal/search"
	"informatica-search/internal/services"
)

type Server struct {
	mcpServer *server.MCPServer
	queries   *services.QueryService
	ready     func() error
}

// NewServer registers the query tools. ready is consulted before every call
// and should report missing search configuration.
func NewServer(queries *services.QueryService, ready func() error) *Server {
	if ready == nil {
		ready = func() error { return nil }
	}
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Informatica Workflow Search",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		queries: queries,
		ready:   ready,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"search_workflow",
			mcp.WithDescription("Full-text search of indexed workflows"),
			mcp.WithString("workflow_name", mcp.Required(), mcp.Description("Workflow name or search text")),
		),
		s.queryTool("workflow_name", s.queries.SearchWorkflows),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"debug_table",
			mcp.WithDescription("Search documents of type table"),
			mcp.WithString("table_name", mcp.Required(), mcp.Description("Table name or search text")),
		),
		s.queryTool("table_name", s.queries.SearchTables),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow_details",
			mcp.WithDescription("Fetch the indexed document for a workflow id"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Document id, e.g. export_xml_wf_name_mapping")),
		),
		s.queryTool("workflow_id", s.queries.WorkflowDetails),
	)
}

type queryFunc func(ctx context.Context, text string) ([]search.Document, error)

func (s *Server) queryTool(param string, query queryFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		value, ok := request.GetArguments()[param].(string)
		if !ok || value == "" {
			return mcp.NewToolResultError("Missing required parameter: " + param), nil
		}

		if err := s.ready(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		docs, err := query(ctx, value)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
		}

		jsonBytes, err := json.Marshal(docs)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	}
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer, basePath string) {
	// Use SSE server for <base>/sse and <base>/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath(basePath))

	mux.HandleFunc(basePath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc(basePath+"/sse", sseServer.ServeHTTP)
	mux.HandleFunc(basePath+"/message", sseServer.ServeHTTP)
}

package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"informatica-search/internal/search"
	"informatica-search/internal/services"
	"informatica-search/pkg/models"
)

type stubIndex struct {
	last search.Query
	err  error
}

func (s *stubIndex) Name() string { return "wf-index" }

func (s *stubIndex) Search(_ context.Context, q search.Query) ([]search.Document, error) {
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	return []search.Document{{"id": "a_xml_WF1_M1", "name": "WF1"}}, nil
}

func (s *stubIndex) UploadDocuments(context.Context, []models.WorkflowRecord) ([]search.IndexingResult, error) {
	return nil, nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func TestQueryTool_SearchWorkflow(t *testing.T) {
	index := &stubIndex{}
	s := NewServer(services.NewQueryService(index), nil)

	res, err := s.queryTool("workflow_name", s.queries.SearchWorkflows)(context.Background(), callRequest(map[string]any{"workflow_name": "WF1"}))

	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `[{"id":"a_xml_WF1_M1","name":"WF1"}]`, resultText(t, res))
	assert.Equal(t, search.Query{Text: "WF1"}, index.last)
}

func TestQueryTool_WorkflowDetailsFilter(t *testing.T) {
	index := &stubIndex{}
	s := NewServer(services.NewQueryService(index), nil)

	_, err := s.queryTool("workflow_id", s.queries.WorkflowDetails)(context.Background(), callRequest(map[string]any{"workflow_id": "a_xml_WF1_M1"}))

	require.NoError(t, err)
	assert.Equal(t, "id eq 'a_xml_WF1_M1'", index.last.Filter)
}

func TestQueryTool_Errors(t *testing.T) {
	index := &stubIndex{}
	notReady := errors.New("missing required configuration: AZURE_SEARCH_INDEX_NAME")
	s := NewServer(services.NewQueryService(index), func() error { return notReady })
	tool := s.queryTool("table_name", s.queries.SearchTables)

	res, err := tool(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Missing required parameter: table_name")

	res, err = tool(context.Background(), callRequest(map[string]any{"table_name": "ORDERS"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "AZURE_SEARCH_INDEX_NAME")

	index.err = errors.New("boom")
	s = NewServer(services.NewQueryService(index), nil)
	res, err = s.queryTool("table_name", s.queries.SearchTables)(context.Background(), callRequest(map[string]any{"table_name": "ORDERS"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "boom")
}

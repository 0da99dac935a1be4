package services

import (
	"context"

	"informatica-search/internal/search"
)

// tableType is the document type debug-table filters on.
const tableType = "table"

// QueryService answers the read-only lookups.
type QueryService struct {
	index DocumentIndex
}

// NewQueryService creates a QueryService over index.
func NewQueryService(index DocumentIndex) *QueryService {
	return &QueryService{index: index}
}

// SearchWorkflows runs a free-text query for name.
func (s *QueryService) SearchWorkflows(ctx context.Context, name string) ([]search.Document, error) {
	return s.index.Search(ctx, search.Query{Text: name})
}

// SearchTables runs a free-text query restricted to table documents.
func (s *QueryService) SearchTables(ctx context.Context, table string) ([]search.Document, error) {
	return s.index.Search(ctx, search.Query{Text: table, Filter: search.EqFilter("type", tableType)})
}

// WorkflowDetails returns the documents whose key equals id.
func (s *QueryService) WorkflowDetails(ctx context.Context, id string) ([]search.Document, error) {
	return s.index.Search(ctx, search.Query{Text: id, Filter: search.EqFilter("id", id)})
}

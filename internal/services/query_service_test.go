package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"informatica-search/internal/search"
	"informatica-search/pkg/models"
)

func TestQueryService_Filters(t *testing.T) {
	ctx := context.Background()
	index := new(MockIndex)
	hits := []search.Document{{"id": "a_xml_WF1_M1"}}
	index.On("Search", mock.Anything, search.Query{Text: "WF1"}).Return(hits, nil)
	index.On("Search", mock.Anything, search.Query{Text: "ORDERS", Filter: "type eq 'table'"}).Return([]search.Document{}, nil)
	index.On("Search", mock.Anything, search.Query{Text: "it's", Filter: "id eq 'it''s'"}).Return(hits, nil)
	svc := NewQueryService(index)

	got, err := svc.SearchWorkflows(ctx, "WF1")
	require.NoError(t, err)
	assert.Equal(t, hits, got)

	tables, err := svc.SearchTables(ctx, "ORDERS")
	require.NoError(t, err)
	assert.Empty(t, tables)

	details, err := svc.WorkflowDetails(ctx, "it's")
	require.NoError(t, err)
	assert.Equal(t, hits, details)

	index.AssertExpectations(t)
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	admin := new(MockAdmin)
	admin.On("CreateIndex", mock.Anything, models.WorkflowIndex("wf")).Return(nil)
	admin.On("GetIndex", mock.Anything, "wf").Return(nil, errors.New("index not found"))
	svc := NewAdminService(admin, "wf")

	require.NoError(t, svc.CreateIndex(ctx))
	_, err := svc.DescribeIndex(ctx)
	assert.EqualError(t, err, "index not found")
	assert.Equal(t, "wf", svc.IndexName())
	assert.Equal(t, "https://example.search.windows.net", svc.Endpoint())
}

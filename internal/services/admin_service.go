package services

import (
	"context"

	"informatica-search/pkg/models"
)

// AdminService creates and inspects the workflow index.
type AdminService struct {
	admin     IndexAdmin
	indexName string
}

// NewAdminService creates an AdminService for indexName.
func NewAdminService(admin IndexAdmin, indexName string) *AdminService {
	return &AdminService{admin: admin, indexName: indexName}
}

// IndexName returns the managed index name.
func (s *AdminService) IndexName() string { return s.indexName }

// Endpoint returns the search service URL.
func (s *AdminService) Endpoint() string { return s.admin.Endpoint() }

// CreateIndex creates the index with the schema WorkflowRecord populates.
func (s *AdminService) CreateIndex(ctx context.Context) error {
	return s.admin.CreateIndex(ctx, models.WorkflowIndex(s.indexName))
}

// DescribeIndex returns the live index definition.
func (s *AdminService) DescribeIndex(ctx context.Context) (*models.IndexDefinition, error) {
	return s.admin.GetIndex(ctx, s.indexName)
}

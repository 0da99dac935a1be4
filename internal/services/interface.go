package services

import (
	"context"

	"informatica-search/internal/extractor"
	"informatica-search/internal/search"
	"informatica-search/pkg/models"
)

// DocumentIndex is the document side of one search index.
type DocumentIndex interface {
	// Name returns the index name.
	Name() string
	// Search runs a full-text query and returns every hit.
	Search(ctx context.Context, q search.Query) ([]search.Document, error)
	// UploadDocuments submits one batch and returns per-document outcomes.
	UploadDocuments(ctx context.Context, docs []models.WorkflowRecord) ([]search.IndexingResult, error)
}

// IndexAdmin manages index definitions.
type IndexAdmin interface {
	Endpoint() string
	CreateIndex(ctx context.Context, def models.IndexDefinition) error
	GetIndex(ctx context.Context, name string) (*models.IndexDefinition, error)
}

// WorkflowExtractor turns one XML document into records.
type WorkflowExtractor interface {
	Extract(content []byte, document string) extractor.Result
}

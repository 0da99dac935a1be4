package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"informatica-search/internal/search"
	"informatica-search/internal/storage"
	"informatica-search/pkg/models"
)

// MockBlobStore satisfies storage.BlobStore.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Container() string { return "xml-metadata" }

func (m *MockBlobStore) List(ctx context.Context) ([]storage.Blob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Blob), args.Error(1)
}

func (m *MockBlobStore) Download(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockIndex satisfies DocumentIndex.
type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) Name() string { return "wf-index" }

func (m *MockIndex) Search(ctx context.Context, q search.Query) ([]search.Document, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Document), args.Error(1)
}

func (m *MockIndex) UploadDocuments(ctx context.Context, docs []models.WorkflowRecord) ([]search.IndexingResult, error) {
	args := m.Called(ctx, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.IndexingResult), args.Error(1)
}

// MockAdmin satisfies IndexAdmin.
type MockAdmin struct {
	mock.Mock
}

func (m *MockAdmin) Endpoint() string { return "https://example.search.windows.net" }

func (m *MockAdmin) CreateIndex(ctx context.Context, def models.IndexDefinition) error {
	return m.Called(ctx, def).Error(0)
}

func (m *MockAdmin) GetIndex(ctx context.Context, name string) (*models.IndexDefinition, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IndexDefinition), args.Error(1)
}

// succeedAll confirms every document in the batch it is given.
func succeedAll(docs []models.WorkflowRecord) []search.IndexingResult {
	out := make([]search.IndexingResult, len(docs))
	for i, d := range docs {
		out[i] = search.IndexingResult{Key: d.ID, Succeeded: true, StatusCode: 201}
	}
	return out
}

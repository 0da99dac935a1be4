package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"informatica-search/internal/extractor"
	"informatica-search/internal/logging"
	"informatica-search/internal/search"
	"informatica-search/internal/storage"
	"informatica-search/pkg/models"
)

// fakeIndex records every batch and fails the batch numbers in failOn.
type fakeIndex struct {
	batches [][]models.WorkflowRecord
	failOn  map[int]bool
	reject  map[string]bool
}

func (f *fakeIndex) Name() string { return "wf-index" }

func (f *fakeIndex) Search(context.Context, search.Query) ([]search.Document, error) {
	return nil, nil
}

func (f *fakeIndex) UploadDocuments(_ context.Context, docs []models.WorkflowRecord) ([]search.IndexingResult, error) {
	f.batches = append(f.batches, append([]models.WorkflowRecord(nil), docs...))
	if f.failOn[len(f.batches)] {
		return nil, errors.New("connection reset")
	}
	results := succeedAll(docs)
	for i, d := range docs {
		if f.reject[d.ID] {
			results[i] = search.IndexingResult{Key: d.ID, Succeeded: false, ErrorMessage: "invalid", StatusCode: 400}
		}
	}
	return results, nil
}

func records(n int) []models.WorkflowRecord {
	out := make([]models.WorkflowRecord, n)
	for i := range out {
		out[i] = models.WorkflowRecord{ID: fmt.Sprintf("doc-%d", i), Name: "wf", Type: models.TypeWorkflow}
	}
	return out
}

func workflowXML(names ...string) []byte {
	body := "<FOLDER>"
	for _, n := range names {
		body += fmt.Sprintf(`<WORKFLOW NAME="%s" MAPPINGNAME="m_%s" SESSIONNAME="s_%s"><SOURCE NAME="SRC"/></WORKFLOW>`, n, n, n)
	}
	return []byte(body + "</FOLDER>")
}

func newService(blobs storage.BlobStore, index DocumentIndex) *IndexingService {
	return NewIndexingService(blobs, index, extractor.New(logging.Discard()), 10, logging.Discard())
}

func TestBatches_Partition(t *testing.T) {
	batches := Batches(records(23), 10)

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 10)
	assert.Len(t, batches[2], 3)
	assert.Equal(t, "doc-20", batches[2][0].ID)

	assert.Empty(t, Batches(nil, 10))
	assert.Len(t, Batches(records(10), 10), 1)
	assert.Len(t, Batches(records(11), 0), 2)
}

func TestUploadBatches_SkipsFailedBatch(t *testing.T) {
	index := &fakeIndex{failOn: map[int]bool{2: true}, reject: map[string]bool{"doc-0": true}}
	svc := newService(&MockBlobStore{}, index)

	summary := svc.uploadBatches(context.Background(), records(23))

	assert.Equal(t, 3, summary.Batches)
	assert.Equal(t, 1, summary.FailedBatches)
	assert.Equal(t, 12, summary.Succeeded)
	assert.Len(t, index.batches, 3)
}

func TestProcessXML(t *testing.T) {
	ctx := context.Background()
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{
		{Name: "a.xml"}, {Name: "notes.txt"}, {Name: "b.XML"}, {Name: "broken.xml"}, {Name: "gone.xml"},
	}, nil)
	blobs.On("Download", mock.Anything, "a.xml").Return(workflowXML("wf1", "wf2"), nil)
	blobs.On("Download", mock.Anything, "b.XML").Return(workflowXML("wf3"), nil)
	blobs.On("Download", mock.Anything, "broken.xml").Return([]byte("<FOLDER><WORKFLOW"), nil)
	blobs.On("Download", mock.Anything, "gone.xml").Return(nil, errors.New("blob not found"))
	index := &fakeIndex{}

	summary, err := newService(blobs, index).ProcessXML(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesProcessed)
	assert.Equal(t, 3, summary.Extracted)
	assert.Equal(t, 3, summary.Uploaded)
	assert.Equal(t, "wf-index", summary.IndexName)
	require.Len(t, summary.FilesFailed, 2)
	assert.Equal(t, FileFailure{Name: "broken.xml", Reason: "parse", Error: summary.FilesFailed[0].Error}, summary.FilesFailed[0])
	assert.Equal(t, "download", summary.FilesFailed[1].Reason)

	require.Len(t, index.batches, 1)
	assert.Equal(t, []string{"a_xml_wf1_m_wf1", "a_xml_wf2_m_wf2", "b_XML_wf3_m_wf3"},
		[]string{index.batches[0][0].ID, index.batches[0][1].ID, index.batches[0][2].ID})
	blobs.AssertNotCalled(t, "Download", mock.Anything, "notes.txt")
}

func TestProcessXML_NoXMLFiles(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{{Name: "readme.md"}}, nil)

	_, err := newService(blobs, &fakeIndex{}).ProcessXML(context.Background())

	assert.ErrorIs(t, err, ErrNoXMLFiles)
}

func TestProcessXML_NoWorkflows(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{{Name: "a.xml"}}, nil)
	blobs.On("Download", mock.Anything, "a.xml").Return([]byte("<FOLDER/>"), nil)
	index := &fakeIndex{}

	_, err := newService(blobs, index).ProcessXML(context.Background())

	assert.ErrorIs(t, err, ErrNoWorkflowsExtracted)
	assert.Empty(t, index.batches)
}

func TestProcessXML_ListError(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return(nil, errors.New("auth failed"))

	_, err := newService(blobs, &fakeIndex{}).ProcessXML(context.Background())

	assert.EqualError(t, err, "auth failed")
}

func TestProcessXML_Deterministic(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{{Name: "a.xml"}, {Name: "b.xml"}}, nil)
	blobs.On("Download", mock.Anything, "a.xml").Return(workflowXML("x", "y"), nil)
	blobs.On("Download", mock.Anything, "b.xml").Return(workflowXML("z"), nil)

	first, second := &fakeIndex{}, &fakeIndex{}
	_, err := newService(blobs, first).ProcessXML(context.Background())
	require.NoError(t, err)
	_, err = newService(blobs, second).ProcessXML(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.batches, second.batches)
}

func TestDebugUpload(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{{Name: "z.txt"}, {Name: "first.xml"}, {Name: "second.xml"}}, nil)
	blobs.On("Download", mock.Anything, "first.xml").Return(workflowXML("wf1", "wf2"), nil)
	index := &fakeIndex{}

	res, err := newService(blobs, index).DebugUpload(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, "first_xml_wf1_m_wf1", res.Document.ID)
	require.Len(t, index.batches, 1)
	assert.Len(t, index.batches[0], 1)
}

func TestDebugUpload_ReportsFailures(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{{Name: "first.xml"}}, nil)
	blobs.On("Download", mock.Anything, "first.xml").Return(workflowXML("wf1"), nil)

	rejected, err := newService(blobs, &fakeIndex{reject: map[string]bool{"first_xml_wf1_m_wf1": true}}).DebugUpload(context.Background())
	require.NoError(t, err)
	assert.False(t, rejected.Succeeded)
	assert.Equal(t, "invalid", rejected.Error)

	transport, err := newService(blobs, &fakeIndex{failOn: map[int]bool{1: true}}).DebugUpload(context.Background())
	require.NoError(t, err)
	assert.False(t, transport.Succeeded)
	assert.Equal(t, "connection reset", transport.Error)
}

func TestDebugUpload_NoWorkflows(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{{Name: "first.xml"}}, nil)
	blobs.On("Download", mock.Anything, "first.xml").Return([]byte("not xml"), nil)

	_, err := newService(blobs, &fakeIndex{}).DebugUpload(context.Background())

	assert.ErrorIs(t, err, ErrNoWorkflowsExtracted)
}

func TestInventory(t *testing.T) {
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.Blob{{Name: "a.xml", Size: 10}, {Name: "b.csv"}}, nil)

	inv, err := newService(blobs, &fakeIndex{}).Inventory(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "xml-metadata", inv.Container)
	assert.Equal(t, 2, inv.Total)
	assert.Equal(t, []storage.Blob{{Name: "a.xml", Size: 10}}, inv.XMLFiles)
}

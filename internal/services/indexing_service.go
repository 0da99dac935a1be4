package services

import (
	"context"

	"informatica-search/internal/extractor"
	"informatica-search/internal/logging"
	"informatica-search/internal/storage"
	"informatica-search/pkg/models"
)

// IndexingService moves workflow exports from blob storage into the search
// index: list, download, extract, normalize, upload. It runs each request to
// completion sequentially and keeps no state between calls.
type IndexingService struct {
	blobs     storage.BlobStore
	index     DocumentIndex
	extractor WorkflowExtractor
	batchSize int
	logger    *logging.Logger
	metrics   *indexingMetrics
}

// NewIndexingService creates an IndexingService. A batchSize of zero uses
// DefaultBatchSize.
func NewIndexingService(blobs storage.BlobStore, index DocumentIndex, x WorkflowExtractor, batchSize int, logger *logging.Logger) *IndexingService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &IndexingService{
		blobs:     blobs,
		index:     index,
		extractor: x,
		batchSize: batchSize,
		logger:    logger,
		metrics:   newIndexingMetrics(),
	}
}

// Inventory is the content of the container.
type Inventory struct {
	Container string
	Total     int
	XMLFiles  []storage.Blob
}

// Inventory lists the container and picks out the XML blobs.
func (s *IndexingService) Inventory(ctx context.Context) (*Inventory, error) {
	blobs, err := s.blobs.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Inventory{
		Container: s.blobs.Container(),
		Total:     len(blobs),
		XMLFiles:  storage.FilterXML(blobs),
	}, nil
}

// FileFailure names a document that contributed no records and why.
type FileFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// ProcessSummary reports one ProcessXML run. Compare FilesProcessed with
// the number of XML files, and Uploaded with Extracted, to detect partial
// failure.
type ProcessSummary struct {
	FilesProcessed int
	FilesFailed    []FileFailure
	Extracted      int
	Uploaded       int
	FailedBatches  int
	IndexName      string
}

// reasonDownload marks a blob that could not be read.
const reasonDownload = "download"

// ProcessXML indexes every XML blob in the container. Files that cannot be
// downloaded or parsed are logged, reported in FilesFailed and skipped.
// It returns ErrNoXMLFiles when there is nothing to read and
// ErrNoWorkflowsExtracted when nothing was found to upload.
func (s *IndexingService) ProcessXML(ctx context.Context) (*ProcessSummary, error) {
	inv, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	if len(inv.XMLFiles) == 0 {
		return nil, ErrNoXMLFiles
	}

	summary := &ProcessSummary{IndexName: s.index.Name(), FilesFailed: []FileFailure{}}
	var all []models.WorkflowRecord

	for _, blob := range inv.XMLFiles {
		res, err := s.extractBlob(ctx, blob.Name)
		if err != nil {
			summary.FilesFailed = append(summary.FilesFailed, FileFailure{Name: blob.Name, Reason: reasonDownload, Error: err.Error()})
			s.metrics.fileFailed(ctx, reasonDownload)
			s.logger.Error("Error processing blob", "blob", blob.Name, "error", err)
			continue
		}
		if !res.OK() {
			summary.FilesFailed = append(summary.FilesFailed, FileFailure{Name: blob.Name, Reason: string(res.Failure.Reason), Error: res.Failure.Err.Error()})
			s.metrics.fileFailed(ctx, string(res.Failure.Reason))
			continue
		}

		summary.FilesProcessed++
		s.metrics.fileProcessed(ctx, len(res.Records))
		all = append(all, res.Records...)
		s.logger.Info("Processed blob", "blob", blob.Name, "workflows", len(res.Records))
	}

	summary.Extracted = len(all)
	if len(all) == 0 {
		return nil, ErrNoWorkflowsExtracted
	}

	docs := models.NormalizeAll(all)
	s.warnDuplicateIDs(docs)

	up := s.uploadBatches(ctx, docs)
	summary.Uploaded = up.Succeeded
	summary.FailedBatches = up.FailedBatches
	s.metrics.uploaded(ctx, up.Succeeded)

	s.logger.Info("XML processing completed",
		"files_processed", summary.FilesProcessed,
		"files_failed", len(summary.FilesFailed),
		"extracted", summary.Extracted,
		"uploaded", summary.Uploaded,
		"index", summary.IndexName,
	)
	return summary, nil
}

func (s *IndexingService) extractBlob(ctx context.Context, name string) (extractor.Result, error) {
	data, err := s.blobs.Download(ctx, name)
	if err != nil {
		return extractor.Result{}, err
	}
	return s.extractor.Extract(data, name), nil
}

// warnDuplicateIDs logs ids that occur more than once; the index keeps
// whichever upload lands last.
func (s *IndexingService) warnDuplicateIDs(docs []models.WorkflowRecord) {
	seen := make(map[string]int, len(docs))
	for _, d := range docs {
		seen[d.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			s.logger.Warn("Duplicate document id", "id", id, "occurrences", n)
		}
	}
}

// DebugUploadResult reports the single-document upload probe.
type DebugUploadResult struct {
	Document  models.WorkflowRecord
	Succeeded bool
	Error     string
}

// DebugUpload extracts the first workflow from the first XML blob,
// normalizes it and uploads it alone. Upload failures, whether rejected per
// document or at the transport level, are reported on the result rather
// than returned.
func (s *IndexingService) DebugUpload(ctx context.Context) (*DebugUploadResult, error) {
	inv, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	if len(inv.XMLFiles) == 0 {
		return nil, ErrNoXMLFiles
	}

	res, err := s.extractBlob(ctx, inv.XMLFiles[0].Name)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, ErrNoWorkflowsExtracted
	}

	doc := res.Records[0].Normalize()
	out := &DebugUploadResult{Document: doc}

	results, err := s.index.UploadDocuments(ctx, []models.WorkflowRecord{doc})
	switch {
	case err != nil:
		out.Error = err.Error()
	case len(results) == 0:
		out.Error = "search service returned no result for the document"
	case !results[0].Succeeded:
		out.Error = results[0].ErrorMessage
	default:
		out.Succeeded = true
	}
	return out, nil
}

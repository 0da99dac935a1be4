package services

import (
	"context"

	"informatica-search/pkg/models"
)

// DefaultBatchSize is the number of documents sent per upload request.
const DefaultBatchSize = 10

// Batches splits records into contiguous slices of at most size elements.
// The slices share the backing array of records.
func Batches(records []models.WorkflowRecord, size int) [][]models.WorkflowRecord {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]models.WorkflowRecord
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		out = append(out, records[start:end])
	}
	return out
}

// UploadSummary totals one multi-batch upload.
type UploadSummary struct {
	Batches       int
	FailedBatches int
	Succeeded     int
}

// uploadBatches submits records batch by batch. A batch that errors is
// logged and skipped without retry; only documents the service confirms
// count toward Succeeded.
func (s *IndexingService) uploadBatches(ctx context.Context, records []models.WorkflowRecord) UploadSummary {
	var summary UploadSummary
	for i, batch := range Batches(records, s.batchSize) {
		summary.Batches++
		results, err := s.index.UploadDocuments(ctx, batch)
		if err != nil {
			summary.FailedBatches++
			s.metrics.batchFailed(ctx)
			s.logger.Error("Error uploading batch", "batch", i+1, "documents", len(batch), "error", err)
			continue
		}
		for _, r := range results {
			if r.Succeeded {
				summary.Succeeded++
				continue
			}
			s.logger.Warn("Document rejected by index", "key", r.Key, "status", r.StatusCode, "error", r.ErrorMessage)
		}
	}
	return summary
}

package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "informatica-search/internal/services"

// indexingMetrics records pipeline counters against the global meter
// provider. Without an SDK installed every call is a no-op.
type indexingMetrics struct {
	filesProcessed     metric.Int64Counter
	filesFailed        metric.Int64Counter
	workflowsExtracted metric.Int64Counter
	workflowsUploaded  metric.Int64Counter
	batchesFailed      metric.Int64Counter
}

func newIndexingMetrics() *indexingMetrics {
	meter := otel.Meter(meterName)
	m := &indexingMetrics{}
	// Instrument names are constant and valid.
	m.filesProcessed, _ = meter.Int64Counter("indexer.xml_files.processed",
		metric.WithDescription("XML blobs parsed successfully"))
	m.filesFailed, _ = meter.Int64Counter("indexer.xml_files.failed",
		metric.WithDescription("XML blobs that could not be downloaded or parsed"))
	m.workflowsExtracted, _ = meter.Int64Counter("indexer.workflows.extracted",
		metric.WithDescription("Workflow records extracted"))
	m.workflowsUploaded, _ = meter.Int64Counter("indexer.workflows.uploaded",
		metric.WithDescription("Workflow records confirmed by the search index"))
	m.batchesFailed, _ = meter.Int64Counter("indexer.batches.failed",
		metric.WithDescription("Upload batches rejected at the transport level"))
	return m
}

func (m *indexingMetrics) fileProcessed(ctx context.Context, records int) {
	m.filesProcessed.Add(ctx, 1)
	m.workflowsExtracted.Add(ctx, int64(records))
}

func (m *indexingMetrics) fileFailed(ctx context.Context, reason string) {
	m.filesFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *indexingMetrics) uploaded(ctx context.Context, n int) {
	m.workflowsUploaded.Add(ctx, int64(n))
}

func (m *indexingMetrics) batchFailed(ctx context.Context) {
	m.batchesFailed.Add(ctx, 1)
}

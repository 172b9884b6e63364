package prometheus

import (
	"strings"
	"time"

	"github.com/caselens/tiger/pkg/errors"
)

// Label values recorded by the pipeline.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusProcessed = "processed"
	StatusCached    = "cached"
)

// Default bucket layouts. Case processing is dominated by OCR fallback on
// scanned PDFs, so the duration buckets stretch well past the usual
// request-latency ranges.
var (
	DefaultStageDurationBuckets    = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultDocumentDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
	DefaultCaseDurationBuckets     = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600}
	DefaultQualityScoreBuckets     = []float64{10, 25, 50, 60, 70, 80, 90, 95}
)

// PipelineMetrics holds every metric the case pipeline records. The pipeline
// itself depends only on the methods, declared as a small interface on the
// consumer side, so a nil metrics dependency simply disables recording.
type PipelineMetrics struct {
	casesTotal       CounterVec
	casesInFlight    GaugeVec
	caseDuration     HistogramVec
	documentsTotal   CounterVec
	documentDuration HistogramVec
	stageDuration    HistogramVec
	stageErrors      CounterVec
	cacheHits        CounterVec
	cacheMisses      CounterVec
	qualityScore     HistogramVec
	warningsTotal    CounterVec
}

// NewPipelineMetrics registers the pipeline metric set on collector.
func NewPipelineMetrics(collector MetricsCollector) *PipelineMetrics {
	return &PipelineMetrics{
		casesTotal: collector.RegisterCounter(
			"cases_total",
			"Case folders processed, by final status.",
			"status"),
		casesInFlight: collector.RegisterGauge(
			"cases_in_flight",
			"Case folders currently being processed."),
		caseDuration: collector.RegisterHistogram(
			"case_duration_seconds",
			"End-to-end processing time per case folder.",
			DefaultCaseDurationBuckets),
		documentsTotal: collector.RegisterCounter(
			"documents_total",
			"Source documents handled, by file type and outcome.",
			"type", "status"),
		documentDuration: collector.RegisterHistogram(
			"document_duration_seconds",
			"Text extraction time per document. Cache hits record near zero.",
			DefaultDocumentDurationBuckets,
			"type"),
		stageDuration: collector.RegisterHistogram(
			"stage_duration_seconds",
			"Time spent in each pipeline stage per case.",
			DefaultStageDurationBuckets,
			"stage"),
		stageErrors: collector.RegisterCounter(
			"stage_errors_total",
			"Pipeline stage failures, by stage and error code.",
			"stage", "code"),
		cacheHits: collector.RegisterCounter(
			"extraction_cache_hits_total",
			"Documents served from the extraction cache."),
		cacheMisses: collector.RegisterCounter(
			"extraction_cache_misses_total",
			"Documents extracted because no cache entry matched."),
		qualityScore: collector.RegisterHistogram(
			"extraction_quality_score",
			"Extraction quality score (0-100) per document, by file type.",
			DefaultQualityScoreBuckets,
			"type"),
		warningsTotal: collector.RegisterCounter(
			"warnings_total",
			"Non-fatal warnings attached to case records, by origin.",
			"source"),
	}
}

// RecordCaseStart marks a case folder as in flight.
func (m *PipelineMetrics) RecordCaseStart() {
	m.casesInFlight.WithLabelValues().Inc()
}

// RecordCase finalizes the in-flight case started by RecordCaseStart.
func (m *PipelineMetrics) RecordCase(status string, elapsed time.Duration) {
	m.casesInFlight.WithLabelValues().Dec()
	m.casesTotal.WithLabelValues(status).Inc()
	m.caseDuration.WithLabelValues().Observe(elapsed.Seconds())
}

// RecordDocument counts one source document and its handling time.
func (m *PipelineMetrics) RecordDocument(docType, status string, elapsed time.Duration) {
	docType = normalizeDocType(docType)
	m.documentsTotal.WithLabelValues(docType, status).Inc()
	m.documentDuration.WithLabelValues(docType).Observe(elapsed.Seconds())
}

// RecordStage observes one stage execution. A non-nil err additionally
// increments the failure counter labeled with the application error code.
func (m *PipelineMetrics) RecordStage(stage string, elapsed time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage, string(errors.GetCode(err))).Inc()
	}
}

// RecordCacheAccess counts one extraction cache lookup.
func (m *PipelineMetrics) RecordCacheAccess(hit bool) {
	if hit {
		m.cacheHits.WithLabelValues().Inc()
		return
	}
	m.cacheMisses.WithLabelValues().Inc()
}

// RecordQuality observes the extraction quality score of one document.
func (m *PipelineMetrics) RecordQuality(docType string, score float64) {
	m.qualityScore.WithLabelValues(normalizeDocType(docType)).Observe(score)
}

// RecordWarnings adds count warnings from the given origin, such as
// "consolidation" or "validation".
func (m *PipelineMetrics) RecordWarnings(source string, count int) {
	if count <= 0 {
		return
	}
	m.warningsTotal.WithLabelValues(source).Add(float64(count))
}

// normalizeDocType keeps the type label to a small set of values whichever
// spelling callers pass: ".PDF", "pdf", and "document.pdf" all map to "pdf".
func normalizeDocType(docType string) string {
	docType = strings.ToLower(docType)
	if i := strings.LastIndex(docType, "."); i >= 0 {
		docType = docType[i+1:]
	}
	if docType == "" {
		return "unknown"
	}
	return docType
}

// Package pipeline drives a whole case folder through the processing flow:
// scan, extract every document, consolidate, validate, hydrate, and write
// the artifact tree. Backend adapters for caching, locking, archiving,
// indexing, and metrics are optional constructor dependencies; a nil adapter
// disables its feature without changing the flow.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caselens/tiger/internal/application/consolidation"
	"github.com/caselens/tiger/internal/application/hydration"
	"github.com/caselens/tiger/internal/application/processing"
	"github.com/caselens/tiger/internal/application/validation"
	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/events"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/internal/infrastructure/output"
	"github.com/caselens/tiger/internal/intelligence/decoder"
	"github.com/caselens/tiger/pkg/errors"
)

// Status labels recorded for cases and documents.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusProcessed = "processed"
	StatusCached    = "cached"
)

// Stage labels recorded on stage durations and stage errors.
const (
	stageExtract     = "extract"
	stageConsolidate = "consolidate"
	stageValidate    = "validate"
	stageHydrate     = "hydrate"
	stageWrite       = "write"
	stageArchive     = "archive"
	stageIndex       = "index"
)

// ExtractionCache serves extraction results keyed by content digest.
// redis.ExtractionCache satisfies it.
type ExtractionCache interface {
	Get(ctx context.Context, digest string) (*document.ExtractionResult, error)
	Set(ctx context.Context, digest string, result *document.ExtractionResult) error
}

// CaseLock is the single-writer guard over one case.
type CaseLock interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// LockFunc mints the lock for a case identifier. Wrapping
// redis.LockFactory.ForCase in a closure satisfies it.
type LockFunc func(caseID string) CaseLock

// Archiver mirrors a finished case directory to object storage.
// minio.CaseArchiver satisfies it.
type Archiver interface {
	ArchiveCase(ctx context.Context, caseDir string) (int, error)
}

// Indexer makes a finished case record searchable.
// opensearch.CaseIndexer satisfies it.
type Indexer interface {
	IndexCase(ctx context.Context, record *legalcase.ConsolidatedCase) error
}

// Metrics records pipeline activity. prometheus.PipelineMetrics satisfies
// it; the no-op default stands in when metrics are off.
type Metrics interface {
	RecordCaseStart()
	RecordCase(status string, elapsed time.Duration)
	RecordDocument(docType, status string, elapsed time.Duration)
	RecordStage(stage string, elapsed time.Duration, err error)
	RecordCacheAccess(hit bool)
	RecordQuality(docType string, score float64)
	RecordWarnings(source string, count int)
}

// ProcessorFactory builds the document processor for one case, bound to the
// case's event broadcaster so document events carry the right case id.
// processing.NewProcessor closed over its recognizers satisfies it.
type ProcessorFactory func(bc *events.Broadcaster) (processing.Processor, error)

// CaseResult summarizes one finished case run.
type CaseResult struct {
	CaseID       string
	CaseName     string
	CaseDir      string
	Record       *legalcase.ConsolidatedCase
	Validation   validation.Summary
	Hydrated     *hydration.Document
	HydratedPath string
	Results      []document.ExtractionResult
	CacheHits    int
	Archived     int
	Indexed      bool
	Elapsed      time.Duration
}

// Runner owns the case flow. Construct once and run any number of case
// folders; each run is independent.
type Runner struct {
	newProcessor ProcessorFactory
	consolidator consolidation.Consolidator
	suite        *validation.Suite
	hydrator     hydration.Hydrator
	output       output.Manager
	logger       logging.Logger

	sink        events.Sink
	cache       ExtractionCache
	lock        LockFunc
	archiver    Archiver
	indexer     Indexer
	metrics     Metrics
	maxFileSize int64
	now         func() time.Time
}

// Option configures optional runner collaborators.
type Option func(*Runner)

// WithEventSink publishes case and document progress events to sink.
func WithEventSink(sink events.Sink) Option {
	return func(r *Runner) { r.sink = sink }
}

// WithCache consults and fills the extraction cache around every document.
func WithCache(cache ExtractionCache) Option {
	return func(r *Runner) { r.cache = cache }
}

// WithLock guards each case with the minted lock for its identifier.
func WithLock(lock LockFunc) Option {
	return func(r *Runner) { r.lock = lock }
}

// WithArchiver mirrors the written case directory after a successful run.
func WithArchiver(a Archiver) Option {
	return func(r *Runner) { r.archiver = a }
}

// WithIndexer indexes the consolidated record after a successful run.
func WithIndexer(ix Indexer) Option {
	return func(r *Runner) { r.indexer = ix }
}

// WithMetrics records counters and durations for every stage.
func WithMetrics(m Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithMaxFileSize lowers the per-file size ceiling below the decoder's
// hard limit. Non-positive limits are ignored.
func WithMaxFileSize(limit int64) Option {
	return func(r *Runner) {
		if limit > 0 {
			r.maxFileSize = limit
		}
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner wires a runner over the required collaborators.
func NewRunner(newProcessor ProcessorFactory, consolidator consolidation.Consolidator, suite *validation.Suite, hydrator hydration.Hydrator, out output.Manager, logger logging.Logger, opts ...Option) (*Runner, error) {
	if newProcessor == nil {
		return nil, errors.InvalidParam("processor factory is required")
	}
	if consolidator == nil {
		return nil, errors.InvalidParam("consolidator is required")
	}
	if suite == nil {
		return nil, errors.InvalidParam("validation suite is required")
	}
	if hydrator == nil {
		return nil, errors.InvalidParam("hydrator is required")
	}
	if out == nil {
		return nil, errors.InvalidParam("output manager is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	r := &Runner{
		newProcessor: newProcessor,
		consolidator: consolidator,
		suite:        suite,
		hydrator:     hydrator,
		output:       out,
		logger:       logger.Named("pipeline"),
		maxFileSize:  decoder.MaxFileSize,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = nopMetrics{}
	}
	return r, nil
}

// Run processes one case folder end to end. Per-document failures land on
// the record as warnings; only folder access, lock acquisition, cancellation,
// and output I/O fail the run.
func (r *Runner) Run(ctx context.Context, folder string) (result *CaseResult, err error) {
	start := r.now()
	caseID := filepath.Base(filepath.Clean(folder))

	r.metrics.RecordCaseStart()
	defer func() {
		status := StatusCompleted
		if err != nil {
			status = StatusFailed
		}
		r.metrics.RecordCase(status, r.now().Sub(start))
	}()

	files, err := ScanCaseFolder(folder, r.logger)
	if err != nil {
		return nil, err
	}

	if r.lock != nil {
		lk := r.lock(caseID)
		if lockErr := lk.Lock(ctx); lockErr != nil {
			return nil, errors.Wrap(lockErr, errors.ErrCodeLockError,
				fmt.Sprintf("acquiring lock for case %s", caseID))
		}
		defer func() {
			if unlockErr := lk.Unlock(context.WithoutCancel(ctx)); unlockErr != nil {
				r.logger.Warn("case lock release failed",
					logging.String("case_id", caseID),
					logging.Err(unlockErr))
			}
		}()
	}

	bc := events.NewBroadcaster(caseID, r.sink,
		events.WithLogger(r.logger), events.WithNow(r.now))
	bc.CaseStart(fmt.Sprintf("processing %d documents", len(files)))

	proc, err := r.newProcessor(bc)
	if err != nil {
		return nil, err
	}

	extractStart := r.now()
	results := make([]document.ExtractionResult, 0, len(files))
	cacheHits := 0
	for _, path := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.metrics.RecordStage(stageExtract, r.now().Sub(extractStart), ctxErr)
			return nil, errors.Wrap(ctxErr, errors.ErrCodeCanceled,
				fmt.Sprintf("case %s canceled during extraction", caseID))
		}
		res, hit := r.extractOne(ctx, proc, bc, path)
		if hit {
			cacheHits++
		}
		results = append(results, res)
	}
	r.metrics.RecordStage(stageExtract, r.now().Sub(extractStart), nil)

	// The runner owns the case_start and case_complete events, so the
	// consolidator gets no sink: its own case events would land mid-stream,
	// after the document events above.
	stageStart := r.now()
	record := r.consolidator.Consolidate(ctx, folder, results, nil)
	r.metrics.RecordStage(stageConsolidate, r.now().Sub(stageStart), nil)
	r.metrics.RecordWarnings("consolidation", len(record.Warnings))

	stageStart = r.now()
	summary := r.suite.Validate(record)
	r.metrics.RecordStage(stageValidate, r.now().Sub(stageStart), nil)
	if issues := summary.Issues(); len(issues) > 0 {
		for _, issue := range issues {
			record.AddWarning(issue)
		}
		r.metrics.RecordWarnings("validation", len(issues))
	}

	stageStart = r.now()
	doc, schemaWarnings := r.hydrator.Hydrate(record)
	r.metrics.RecordStage(stageHydrate, r.now().Sub(stageStart), nil)
	for _, w := range schemaWarnings {
		record.AddWarning(w)
	}
	r.metrics.RecordWarnings("hydration", len(schemaWarnings))

	caseName := output.CaseName(record.Plaintiff.Name, record.CaseTimeline.FilingDate, r.now())
	stageStart = r.now()
	caseDir, hydratedPath, err := r.writeOutputs(caseName, record, doc, results)
	r.metrics.RecordStage(stageWrite, r.now().Sub(stageStart), err)
	if err != nil {
		return nil, err
	}

	archived := 0
	if r.archiver != nil {
		stageStart = r.now()
		n, archiveErr := r.archiver.ArchiveCase(ctx, caseDir)
		r.metrics.RecordStage(stageArchive, r.now().Sub(stageStart), archiveErr)
		if archiveErr != nil {
			r.logger.Warn("case archive mirror failed",
				logging.String("case", caseName),
				logging.Err(archiveErr))
		} else {
			archived = n
		}
	}

	indexed := false
	if r.indexer != nil {
		stageStart = r.now()
		indexErr := r.indexer.IndexCase(ctx, record)
		r.metrics.RecordStage(stageIndex, r.now().Sub(stageStart), indexErr)
		if indexErr != nil {
			r.logger.Warn("case index update failed",
				logging.String("case", caseName),
				logging.Err(indexErr))
		} else {
			indexed = true
		}
	}

	elapsed := r.now().Sub(start)
	bc.CaseComplete(fmt.Sprintf("case %s written with confidence %.0f and %d warnings",
		caseName, record.ExtractionConfidence, len(record.Warnings)))
	r.logger.Info("case processed",
		logging.String("case_id", caseID),
		logging.String("case", caseName),
		logging.Int("documents", len(results)),
		logging.Int("cache_hits", cacheHits),
		logging.Bool("valid", summary.IsValid),
		logging.Float64("confidence", record.ExtractionConfidence),
		logging.Duration("elapsed", elapsed))

	return &CaseResult{
		CaseID:       caseID,
		CaseName:     caseName,
		CaseDir:      caseDir,
		Record:       record,
		Validation:   summary,
		Hydrated:     doc,
		HydratedPath: hydratedPath,
		Results:      results,
		CacheHits:    cacheHits,
		Archived:     archived,
		Indexed:      indexed,
		Elapsed:      elapsed,
	}, nil
}

// extractOne produces the extraction result for one file, consulting the
// cache when one is wired. The bool reports a cache hit.
func (r *Runner) extractOne(ctx context.Context, proc processing.Processor, bc *events.Broadcaster, path string) (document.ExtractionResult, bool) {
	fileName := filepath.Base(path)
	started := r.now()

	if r.maxFileSize > 0 {
		if info, statErr := os.Stat(path); statErr == nil && info.Size() > r.maxFileSize {
			tooLarge := errors.FileTooLarge(path)
			bc.DocumentStart(fileName)
			bc.DocumentError(fileName, tooLarge)
			r.logger.Warn("document skipped, file too large",
				logging.String("file", fileName),
				logging.Int64("size", info.Size()))
			r.metrics.RecordDocument(fileName, StatusFailed, r.now().Sub(started))
			return document.NewFailedResult(path, tooLarge), false
		}
	}

	var digest string
	if r.cache != nil {
		d, digestErr := fileDigest(path)
		if digestErr != nil {
			r.logger.Warn("content digest failed, cache skipped",
				logging.String("file", fileName),
				logging.Err(digestErr))
		} else {
			digest = d
			cached, getErr := r.cache.Get(ctx, digest)
			switch {
			case getErr != nil:
				r.logger.Warn("extraction cache read failed",
					logging.String("file", fileName),
					logging.Err(getErr))
			case cached != nil:
				r.metrics.RecordCacheAccess(true)
				r.metrics.RecordDocument(fileName, StatusCached, r.now().Sub(started))
				bc.DocumentStart(fileName)
				bc.DocumentComplete(fileName, "served from extraction cache")
				res := *cached
				res.FilePath = path
				res.FileName = fileName
				return res, true
			default:
				r.metrics.RecordCacheAccess(false)
			}
		}
	}

	res := proc.Process(ctx, path)
	elapsed := r.now().Sub(started)
	if res.Success {
		r.metrics.RecordDocument(fileName, StatusProcessed, elapsed)
		r.metrics.RecordQuality(fileName, res.QualityMetrics.Score)
		if digest != "" {
			if setErr := r.cache.Set(ctx, digest, &res); setErr != nil {
				r.logger.Warn("extraction cache write failed",
					logging.String("file", fileName),
					logging.Err(setErr))
			}
		}
	} else {
		r.metrics.RecordDocument(fileName, StatusFailed, elapsed)
	}
	return res, false
}

// writeOutputs lays down the full artifact tree for the case and returns the
// case directory and the hydrated document path.
func (r *Runner) writeOutputs(caseName string, record *legalcase.ConsolidatedCase, doc *hydration.Document, results []document.ExtractionResult) (string, string, error) {
	caseDir, err := r.output.PrepareCase(caseName)
	if err != nil {
		return "", "", err
	}
	for _, res := range results {
		if !res.Success {
			continue
		}
		if _, err := r.output.WriteResult(caseName, res); err != nil {
			return "", "", err
		}
	}
	if _, err := r.output.WriteCaseInfo(caseName, record); err != nil {
		return "", "", err
	}
	if _, err := r.output.WriteComplaint(caseName, doc); err != nil {
		return "", "", err
	}
	if _, err := r.output.WriteCaseSummary(caseName, record); err != nil {
		return "", "", err
	}
	hydratedPath, err := r.hydrator.WriteFile(doc, caseDir, caseName)
	if err != nil {
		return "", "", err
	}
	return caseDir, hydratedPath, nil
}

// nopMetrics keeps every call site branch-free when metrics are off.
type nopMetrics struct{}

func (nopMetrics) RecordCaseStart()                             {}
func (nopMetrics) RecordCase(string, time.Duration)             {}
func (nopMetrics) RecordDocument(string, string, time.Duration) {}
func (nopMetrics) RecordStage(string, time.Duration, error)     {}
func (nopMetrics) RecordCacheAccess(bool)                       {}
func (nopMetrics) RecordQuality(string, float64)                {}
func (nopMetrics) RecordWarnings(string, int)                   {}

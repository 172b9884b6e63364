// Package processing turns one case file into an ExtractionResult: decoded
// text, recognized dates, quality metrics, and a document classification.
package processing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/events"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/internal/intelligence/date_ner"
	"github.com/caselens/tiger/internal/intelligence/decoder"
	"github.com/caselens/tiger/internal/intelligence/legal_ner"
	"github.com/caselens/tiger/pkg/errors"
)

// Processor processes one case file end to end. Process always returns a
// result; decode failures arrive as failed results, never as aborts.
type Processor interface {
	Process(ctx context.Context, path string) document.ExtractionResult
}

type processor struct {
	registry    *decoder.Registry
	dates       *date_ner.Recognizer
	legal       *legal_ner.Recognizer
	logger      logging.Logger
	broadcaster *events.Broadcaster
}

// Option configures optional processor collaborators.
type Option func(*processor)

// WithBroadcaster emits document progress events for each processed file.
func WithBroadcaster(b *events.Broadcaster) Option {
	return func(p *processor) { p.broadcaster = b }
}

// NewProcessor wires a processor over the decoder registry and recognizers.
func NewProcessor(registry *decoder.Registry, dates *date_ner.Recognizer, legal *legal_ner.Recognizer, logger logging.Logger, opts ...Option) (Processor, error) {
	if registry == nil {
		return nil, errors.InvalidParam("decoder registry is required")
	}
	if dates == nil {
		return nil, errors.InvalidParam("date recognizer is required")
	}
	if legal == nil {
		return nil, errors.InvalidParam("legal recognizer is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	p := &processor{
		registry: registry,
		dates:    dates,
		legal:    legal,
		logger:   logger.Named("processing"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process routes the file to its decoder, runs the date recognizer over the
// decoded text, and scores extraction quality.
func (p *processor) Process(ctx context.Context, path string) document.ExtractionResult {
	fileName := filepath.Base(path)
	p.broadcaster.DocumentStart(fileName)
	start := time.Now()

	dec, err := p.registry.ForPath(path)
	if err != nil {
		return p.fail(path, fileName, start, err)
	}

	text, meta, err := dec.Decode(ctx, path)
	if err != nil {
		return p.fail(path, fileName, start, err)
	}

	result := document.ExtractionResult{
		FilePath:      path,
		FileName:      fileName,
		ExtractedText: text,
		Success:       true,
		Metadata:      meta,
		EngineName:    dec.Name(),
	}
	result.DocumentType = document.Classify(fileName, text)
	result.ExtractedDates = p.dates.ExtractDates(text, result.DocumentType)
	result.QualityMetrics = p.quality(path, text)
	result.ProcessingTimeMS = time.Since(start).Milliseconds()

	p.logger.Debug("document processed",
		logging.String("file", fileName),
		logging.String("engine", result.EngineName),
		logging.String("type", result.DocumentType.String()),
		logging.Float64("quality", result.QualityMetrics.Score),
		logging.Int("dates", len(result.ExtractedDates)))
	p.broadcaster.DocumentComplete(fileName, fmt.Sprintf("extracted %d characters", len(text)))
	return result
}

func (p *processor) fail(path, fileName string, start time.Time, err error) document.ExtractionResult {
	p.logger.Warn("document processing failed",
		logging.String("file", fileName),
		logging.Err(err))
	p.broadcaster.DocumentError(fileName, err)

	result := document.NewFailedResult(path, err)
	result.ProcessingTimeMS = time.Since(start).Milliseconds()
	return result
}

// quality scores the extraction. CompressionRatio is extracted characters
// per source byte; a thin text layer over a large file reads as a scan.
func (p *processor) quality(path, text string) document.QualityMetrics {
	m := document.QualityMetrics{
		Score:           p.legal.StructureScore(text),
		TextLength:      len(text),
		LegalIndicators: p.legal.StructureIndicators(text),
	}
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		m.CompressionRatio = float64(len(text)) / float64(info.Size())
	}
	return m
}

package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/caselens/tiger/internal/application/consolidation"
	"github.com/caselens/tiger/internal/application/hydration"
	"github.com/caselens/tiger/internal/application/pipeline"
	"github.com/caselens/tiger/internal/application/processing"
	"github.com/caselens/tiger/internal/application/validation"
	"github.com/caselens/tiger/internal/config"
	"github.com/caselens/tiger/internal/events"
	"github.com/caselens/tiger/internal/infrastructure/database/redis"
	"github.com/caselens/tiger/internal/infrastructure/messaging/kafka"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/prometheus"
	"github.com/caselens/tiger/internal/infrastructure/output"
	"github.com/caselens/tiger/internal/infrastructure/search/opensearch"
	"github.com/caselens/tiger/internal/infrastructure/storage/minio"
	"github.com/caselens/tiger/internal/intelligence/date_ner"
	"github.com/caselens/tiger/internal/intelligence/decoder"
	"github.com/caselens/tiger/internal/intelligence/legal_ner"
)

// buildRegistry assembles the decoder set for the configured processing
// options. The PDF decoder gets an OCR fallback only when a binary is
// configured.
func buildRegistry(pc config.ProcessingConfig) *decoder.Registry {
	var pdfOpts []decoder.PDFOption
	if pc.OCRBinary != "" {
		pdfOpts = append(pdfOpts,
			decoder.WithOCR(decoder.NewCommandOCR(pc.OCRBinary, pc.OCRArgs, pc.OCRTimeout)))
	}
	return decoder.NewRegistry(
		decoder.NewTextDecoder(),
		decoder.NewPDFDecoder(pdfOpts...),
		decoder.NewDOCXDecoder(),
	)
}

// firmSettings maps the firm configuration onto consolidation settings.
func firmSettings(fc config.FirmConfig) consolidation.Settings {
	return consolidation.Settings{
		FirmName:        fc.Name,
		FirmAddress:     fc.Address,
		FirmPhone:       fc.Phone,
		FirmEmail:       fc.Email,
		DefaultCourt:    fc.DefaultCourt,
		DefaultDistrict: fc.DefaultDistrict,
	}
}

// buildRunner assembles the case runner together with every backend the
// configuration enables. The returned handler serves Prometheus scrapes when
// metrics are enabled, nil otherwise. The returned shutdown releases the
// opened backends in reverse construction order and must run after the last
// case.
func buildRunner(ctx context.Context, cfg *config.Config, logger logging.Logger) (*pipeline.Runner, http.Handler, func(), error) {
	var closers []func()
	shutdown := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*pipeline.Runner, http.Handler, func(), error) {
		shutdown()
		return nil, nil, nil, err
	}

	registry := buildRegistry(cfg.Processing)
	dates := date_ner.NewRecognizer()
	legal := legal_ner.NewRecognizer()
	factory := func(bc *events.Broadcaster) (processing.Processor, error) {
		return processing.NewProcessor(registry, dates, legal, logger,
			processing.WithBroadcaster(bc))
	}

	consolidator := consolidation.NewConsolidator(firmSettings(cfg.Firm), logger)
	suite := validation.NewDefaultSuite(logger)

	hydrator, err := hydration.NewHydrator(logger)
	if err != nil {
		return fail(err)
	}

	managerOpts := []output.Option{output.WithLogger(logger)}
	if cfg.Output.Policy != "" {
		managerOpts = append(managerOpts, output.WithPolicy(output.Policy(cfg.Output.Policy)))
	}
	manager, err := output.NewManager(cfg.Output.Root, managerOpts...)
	if err != nil {
		return fail(err)
	}

	opts := []pipeline.Option{
		pipeline.WithMaxFileSize(cfg.Processing.MaxFileSize()),
	}

	var sink events.Sink = events.NewLogSink(logger)
	if cfg.Events.Kafka.Enabled {
		kafkaSink, err := kafka.NewSink(cfg.Events.Kafka.Config, logger)
		if err != nil {
			return fail(err)
		}
		async := events.NewAsyncSink(kafkaSink, cfg.Events.BufferSize, logger)
		closers = append(closers, func() {
			if err := async.Close(); err != nil {
				logger.Warn("event sink close failed", logging.Err(err))
			}
			if err := kafkaSink.Close(); err != nil {
				logger.Warn("kafka sink close failed", logging.Err(err))
			}
		})
		sink = async
	}
	opts = append(opts, pipeline.WithEventSink(sink))

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis.Config, logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close failed", logging.Err(err))
			}
		})
		locks := redis.NewLockFactory(client, logger)
		opts = append(opts,
			pipeline.WithCache(redis.NewExtractionCache(client, logger)),
			pipeline.WithLock(func(caseID string) pipeline.CaseLock {
				return locks.ForCase(caseID)
			}))
	}

	if cfg.Archive.Enabled {
		store, err := minio.NewClient(&cfg.Archive.Config, logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				logger.Warn("archive close failed", logging.Err(err))
			}
		})
		opts = append(opts, pipeline.WithArchiver(minio.NewCaseArchiver(store, logger)))
	}

	if cfg.Search.Enabled {
		search, err := opensearch.NewClient(&cfg.Search.Config, logger)
		if err != nil {
			return fail(err)
		}
		indexer := opensearch.NewCaseIndexer(search, logger)
		if err := indexer.EnsureIndex(ctx); err != nil {
			return fail(err)
		}
		opts = append(opts, pipeline.WithIndexer(indexer))
	}

	var scrape http.Handler
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(cfg.Metrics.CollectorConfig, logger)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, pipeline.WithMetrics(prometheus.NewPipelineMetrics(collector)))
		scrape = collector.Handler()
	}

	runner, err := pipeline.NewRunner(factory, consolidator, suite, hydrator, manager, logger, opts...)
	if err != nil {
		return fail(err)
	}

	return runner, scrape, shutdown, nil
}

// serveMetrics exposes the scrape handler on listen for the duration of a
// run. A nil handler or a failed bind degrades to a no-op so metrics never
// block processing. The returned stop closes the listener.
func serveMetrics(handler http.Handler, listen string, logger logging.Logger) func() {
	if handler == nil {
		return func() {}
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		logger.Warn("metrics endpoint bind failed",
			logging.String("addr", listen), logging.Err(err))
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux}

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics endpoint stopped", logging.Err(err))
		}
	}()
	logger.Info("metrics endpoint listening",
		logging.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics endpoint shutdown failed", logging.Err(err))
		}
	}
}

package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/ivansreport/internal/model"
)

// DefaultConcurrency is the number of files converted at the same time.
const DefaultConcurrency = 4

// BatchProcessor handles concurrent conversion of multiple files.
// It uses errgroup to manage goroutines and respect concurrency limits.
// Conversions share no mutable state; each one gets a fresh pipeline.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent conversions.
	concurrency int

	// maxFileSize is passed to LoadLimit.
	maxFileSize int64

	// title is the report title given to each conversion.
	title string

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed conversions.
	// Access is synchronized via mutex.
	results []*model.Conversion
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent conversions.
// Default is DefaultConcurrency if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithMaxFileSize sets the largest input file accepted, in bytes.
func WithMaxFileSize(n int64) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.maxFileSize = n
		}
	}
}

// WithTitle sets the report title of every conversion.
func WithTitle(title string) BatchOption {
	return func(b *BatchProcessor) {
		b.title = title
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each file to create a fresh
// pipeline instance.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		maxFileSize:     DefaultMaxFileSize,
		results:         make([]*model.Conversion, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch converts multiple files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// The returned slice is in the order of paths. Failed conversions are
// included with their error recorded; entries for files that were never
// started because ctx was cancelled are nil, and the context error is
// returned.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.Conversion, error) {
	bp.logger.Info("starting batch conversion",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.mu.Lock()
	bp.results = make([]*model.Conversion, len(paths))
	bp.mu.Unlock()

	err := bp.ProcessBatchWithCallback(ctx, paths, func(conv *model.Conversion, index int) {
		bp.mu.Lock()
		bp.results[index] = conv
		bp.mu.Unlock()
	})

	bp.logger.Info("batch conversion complete",
		"total_files", len(paths),
		"elapsed", time.Since(startTime),
	)

	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.results, err
}

// ProcessBatchWithCallback converts multiple files and calls callback for
// each completed conversion. This is useful for streaming results.
//
// The callback receives the conversion and the index of the file in paths.
// It is called from the goroutine that ran the conversion, so it must be
// safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(conv *model.Conversion, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("converting file",
				"file", path,
				"index", i+1,
				"total", len(paths),
			)

			conv := bp.convertFile(ctx, path)
			if conv.Err != nil {
				bp.logger.Warn("conversion failed",
					"file", path,
					"kind", conv.ErrorKind().String(),
					"error", conv.Err,
				)
			}

			callback(conv, i)
			return nil
		})
	}

	return g.Wait()
}

// convertFile loads and converts one file. Errors are recorded in the
// returned conversion.
func (bp *BatchProcessor) convertFile(ctx context.Context, path string) *model.Conversion {
	raw, err := LoadLimit(ctx, path, bp.maxFileSize)
	if err != nil {
		conv := model.NewConversion(model.NewRawDocument(filepath.Base(path), nil), bp.title)
		conv.Err = err
		return conv
	}

	conv := model.NewConversion(raw, bp.title)
	_ = bp.pipelineFactory().Execute(conv) //nolint:errcheck // Error is stored in conv
	return conv
}

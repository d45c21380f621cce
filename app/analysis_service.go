package app

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"jsonprof/adapters/excel"
	"jsonprof/adapters/jsonsource"
	"jsonprof/domain/jsonvalue"
	"jsonprof/internal"
	"jsonprof/internal/config"
	"jsonprof/internal/errors"
	"jsonprof/internal/profiling"
	"jsonprof/ports"
)

// RunID identifies one analysis
type RunID string

// NewRunID returns a time-ordered UUID, falling back to a random one
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

// Run is the outcome of analyzing one document
type Run struct {
	ID       RunID
	Source   string
	Started  time.Time
	Duration time.Duration
	Analysis *profiling.Analysis
}

// FileResult is one entry of a batch. Exactly one of Run and Err is set.
type FileResult struct {
	Path string
	Run  *Run
	Err  error
}

// BatchResult holds per-file outcomes in input order
type BatchResult struct {
	Results   []FileResult
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// AnalysisService wires document loading to the profiler
type AnalysisService struct {
	profiler    *profiling.JSONProfiler
	concurrency int
	logger      *internal.Logger
	parser      *jsonsource.Parser
	loader      ports.DocumentLoader
}

// NewAnalysisService creates a service; concurrency bounds AnalyzeFiles
func NewAnalysisService(opts profiling.Options, concurrency int) *AnalysisService {
	return newAnalysisService(opts, concurrency, excel.DefaultConfig())
}

// NewAnalysisServiceFromConfig creates a service from loaded configuration
func NewAnalysisServiceFromConfig(cfg *config.Config) *AnalysisService {
	return newAnalysisService(profiling.Options{
		ZThreshold:   cfg.Analyzer.ZThreshold,
		MaxDepth:     cfg.Analyzer.MaxDepth,
		TruncateDeep: cfg.Analyzer.TruncateDeep,
	}, cfg.Batch.Concurrency, excel.Config{
		Sheet: cfg.Spreadsheet.Sheet,
		Coercion: excel.CoercionConfig{
			LenientNumbers: cfg.Spreadsheet.LenientNumbers,
			BooleanWords:   cfg.Spreadsheet.BooleanWords,
		},
	})
}

func newAnalysisService(opts profiling.Options, concurrency int, sheet excel.Config) *AnalysisService {
	if concurrency < 1 {
		concurrency = 1
	}
	profiler := profiling.NewJSONProfiler(opts)
	// The parser stops at the same depth the profiler would reject
	parser := jsonsource.NewParser(jsonsource.Options{
		MaxDepth:     profiler.Options().MaxDepth,
		TruncateDeep: profiler.Options().TruncateDeep,
		Spreadsheet:  sheet,
	})
	return &AnalysisService{
		profiler:    profiler,
		concurrency: concurrency,
		logger:      internal.DefaultLogger.With("component", "analysis"),
		parser:      parser,
		loader:      parser,
	}
}

// WithThreshold returns a copy of the service using another Z-score threshold
func (s *AnalysisService) WithThreshold(z float64) (*AnalysisService, error) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return nil, errors.InvalidInput("z threshold must be a finite number")
	}
	if z < 0 {
		return nil, errors.InvalidInput("z threshold must not be negative")
	}
	opts := s.profiler.Options()
	opts.ZThreshold = z
	clone := *s
	clone.profiler = profiling.NewJSONProfiler(opts)
	return &clone, nil
}

// WithLoader returns a copy of the service reading files through loader
func (s *AnalysisService) WithLoader(loader ports.DocumentLoader) *AnalysisService {
	clone := *s
	clone.loader = loader
	return &clone
}

// Options returns the profiler configuration in effect
func (s *AnalysisService) Options() profiling.Options {
	return s.profiler.Options()
}

// AnalyzeDocument profiles an already parsed document
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, source string, doc *jsonvalue.Value) (*Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run := &Run{ID: NewRunID(), Source: source, Started: time.Now()}
	analysis, err := s.profiler.Analyze(doc)
	if err != nil {
		s.logger.Warn("analysis of %s failed: %v", source, err)
		return nil, err
	}
	run.Duration = time.Since(run.Started)
	run.Analysis = analysis

	s.logger.Info("analyzed %s in %s (run %s, %d anomalies)", source, run.Duration, run.ID, len(analysis.Anomalies))
	return run, nil
}

// AnalyzeBytes parses and profiles a JSON document
func (s *AnalysisService) AnalyzeBytes(ctx context.Context, data []byte) (*Run, error) {
	doc, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeDocument(ctx, "input", doc)
}

// AnalyzeFile loads a JSON, spreadsheet or pprof file and profiles it
func (s *AnalysisService) AnalyzeFile(ctx context.Context, path string) (*Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeDocument(ctx, path, doc)
}

// AnalyzeFiles profiles files concurrently. A failing file is recorded in
// its FileResult and does not stop the batch. Cancelling ctx stops
// scheduling; unscheduled files carry the context error and so does the
// returned error.
func (s *AnalysisService) AnalyzeFiles(ctx context.Context, paths []string) (*BatchResult, error) {
	started := time.Now()
	results := make([]FileResult, len(paths))
	for i, path := range paths {
		results[i].Path = path
	}

	sem := semaphore.NewWeighted(int64(s.concurrency))
	g, gctx := errgroup.WithContext(ctx)

	scheduled := 0
	for i := range paths {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		scheduled++

		i := i
		g.Go(func() error {
			defer sem.Release(1)
			run, err := s.AnalyzeFile(gctx, results[i].Path)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Run = run
			return nil
		})
	}
	// Workers never fail the group; per-file errors live in results
	_ = g.Wait()

	for i := scheduled; i < len(results); i++ {
		results[i].Err = ctx.Err()
	}

	batch := &BatchResult{Results: results, Duration: time.Since(started)}
	for _, r := range results {
		if r.Err != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}
	s.logger.Info("batch of %d files finished in %s (%d failed)", len(paths), batch.Duration, batch.Failed)

	if err := ctx.Err(); err != nil {
		return batch, err
	}
	return batch, nil
}

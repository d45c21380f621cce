package profiling

import (
	"jsonprof/domain/jsonvalue"
	"jsonprof/domain/profile"
)

// DefaultZThreshold is the Z-score above which an array element is reported
const DefaultZThreshold = 2.0

// DefaultMaxDepth bounds recursion when Options.MaxDepth is unset
const DefaultMaxDepth = 256

// RootPath seeds boundary paths in reports
const RootPath = "root"

// Options configures a JSONProfiler
type Options struct {
	// ZThreshold is compared with strict greater-than; zero flags any deviation
	ZThreshold float64
	// MaxDepth is the deepest nesting level analyzed; the root is level 0
	MaxDepth int
	// TruncateDeep replaces nodes past MaxDepth with truncated stubs
	// instead of failing with a depth error
	TruncateDeep bool
}

// DefaultOptions returns a threshold of 2.0 and the default depth bound
func DefaultOptions() Options {
	return Options{ZThreshold: DefaultZThreshold, MaxDepth: DefaultMaxDepth}
}

// JSONProfiler walks parsed JSON documents and builds statistics trees.
// It holds configuration only, so a single instance may be shared
// between goroutines.
type JSONProfiler struct {
	opts Options
}

// NewJSONProfiler creates a profiler with the given options
func NewJSONProfiler(opts Options) *JSONProfiler {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &JSONProfiler{opts: opts}
}

// Options returns the effective configuration
func (p *JSONProfiler) Options() Options {
	return p.opts
}

// Analysis is everything derived from one document
type Analysis struct {
	Tree       *profile.StatsNode
	Anomalies  []profile.Anomaly
	Boundaries profile.Boundaries
	Report     string
}

// Analyze classifies the document, then derives anomalies, boundaries and
// the text report from the finished tree
func (p *JSONProfiler) Analyze(doc *jsonvalue.Value) (*Analysis, error) {
	tree, err := p.Classify(doc, "")
	if err != nil {
		return nil, err
	}

	anomalies := CollectAnomalies(tree)
	boundaries := CollectBoundaries(tree, RootPath)

	return &Analysis{
		Tree:       tree,
		Anomalies:  anomalies,
		Boundaries: boundaries,
		Report:     RenderReport(tree, anomalies, boundaries),
	}, nil
}

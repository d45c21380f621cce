package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	jv "jsonprof/domain/jsonvalue"
)

// SeriesGeneratorConfig configures the synthetic sensor document generator
type SeriesGeneratorConfig struct {
	SeriesCount    int     `json:"series_count"`
	Length         int     `json:"length"`
	Baseline       float64 `json:"baseline"`
	Noise          float64 `json:"noise"`           // readings vary uniformly within ±Noise
	SpikeMagnitude float64 `json:"spike_magnitude"` // added to the planted reading
	SpikeRate      float64 `json:"spike_rate"`      // share of series that get a spike
	Seed           int64   `json:"seed"`
}

// DefaultSeriesConfig returns settings whose spikes are always detected at
// the default threshold
func DefaultSeriesConfig() SeriesGeneratorConfig {
	return SeriesGeneratorConfig{
		SeriesCount:    8,
		Length:         20,
		Baseline:       100,
		Noise:          1,
		SpikeMagnitude: 50,
		SpikeRate:      0.5,
		Seed:           42,
	}
}

// GeneratedDocument is a synthetic document plus the anomaly paths planted in it
type GeneratedDocument struct {
	Document *jv.Value
	Planted  []string
}

// SeriesGenerator builds reproducible documents of numeric series
type SeriesGenerator struct {
	config SeriesGeneratorConfig
	rng    *rand.Rand
}

// NewSeriesGenerator creates a generator seeded from config
func NewSeriesGenerator(config SeriesGeneratorConfig) *SeriesGenerator {
	return &SeriesGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns {"series": {"sensor_000": [...], ...}, "meta": {...}}.
// At most one reading per series is a spike.
func (g *SeriesGenerator) Generate() (*GeneratedDocument, error) {
	if g.config.SeriesCount < 1 || g.config.Length < 3 {
		return nil, fmt.Errorf("need at least one series of three readings, got %d series of %d",
			g.config.SeriesCount, g.config.Length)
	}

	var planted []string
	series := make([]jv.Member, 0, g.config.SeriesCount)
	for i := 0; i < g.config.SeriesCount; i++ {
		name := fmt.Sprintf("sensor_%03d", i)

		spikeAt := -1
		if g.rng.Float64() < g.config.SpikeRate {
			spikeAt = g.rng.Intn(g.config.Length)
			planted = append(planted, fmt.Sprintf("series.%s[%d]", name, spikeAt))
		}

		readings := make([]*jv.Value, g.config.Length)
		for j := range readings {
			v := g.config.Baseline + (g.rng.Float64()*2-1)*g.config.Noise
			if j == spikeAt {
				v += g.config.SpikeMagnitude
			}
			readings[j] = jv.Number(math.Round(v*100) / 100)
		}
		series = append(series, jv.Field(name, jv.Array(readings...)))
	}

	doc := jv.Object(
		jv.Field("series", jv.Object(series...)),
		jv.Field("meta", jv.Object(
			jv.Field("seed", jv.Int(g.config.Seed)),
			jv.Field("generated_by", jv.String("series_generator")),
		)),
	)
	return &GeneratedDocument{Document: doc, Planted: planted}, nil
}

// WriteToFile generates a document and writes it as indented JSON
func (g *SeriesGenerator) WriteToFile(path string) (*GeneratedDocument, error) {
	generated, err := g.Generate()
	if err != nil {
		return nil, err
	}
	data, err := jv.MarshalIndent(generated.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generated document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return generated, nil
}

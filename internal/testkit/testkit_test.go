package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonprof/adapters/jsonsource"
	"jsonprof/internal/profiling"
)

func anomalyPaths(t *testing.T, analysis *profiling.Analysis) []string {
	t.Helper()
	var paths []string
	for _, a := range analysis.Anomalies {
		paths = append(paths, a.Path)
	}
	return paths
}

func TestSampleDocumentAnomalies(t *testing.T) {
	analysis, err := profiling.NewJSONProfiler(profiling.DefaultOptions()).Analyze(SampleDocument())
	require.NoError(t, err)

	assert.Equal(t, SampleAnomalyPaths, anomalyPaths(t, analysis))
	assert.Contains(t, analysis.Report, "Root object with 4 keys: metrics, user_info, sensor_readings, system_status")

	var boundaryPaths []string
	for _, b := range analysis.Boundaries {
		boundaryPaths = append(boundaryPaths, b.Path)
	}
	assert.Equal(t, []string{
		"root.metrics.temperatures",
		"root.metrics.humidity",
		"root.metrics.pressure",
		"root.system_status.cpu_usage",
		"root.system_status.memory_usage",
	}, boundaryPaths)

	readings, ok := analysis.Tree.Property("sensor_readings")
	require.True(t, ok)
	assert.Nil(t, readings.Numeric)
	ts, ok := readings.SampleElements[0].Property("timestamp")
	require.True(t, ok)
	assert.True(t, ts.PossibleDate)
}

func TestSeriesGeneratorPlantsDetectableSpikes(t *testing.T) {
	spiked := DefaultSeriesConfig()
	spiked.SpikeRate = 1

	for _, config := range []SeriesGeneratorConfig{DefaultSeriesConfig(), spiked} {
		generated, err := NewSeriesGenerator(config).Generate()
		require.NoError(t, err)

		analysis, err := profiling.NewJSONProfiler(profiling.DefaultOptions()).Analyze(generated.Document)
		require.NoError(t, err)
		assert.Equal(t, generated.Planted, anomalyPaths(t, analysis))
	}
}

func TestSeriesGeneratorIsReproducible(t *testing.T) {
	first, err := NewSeriesGenerator(DefaultSeriesConfig()).Generate()
	require.NoError(t, err)
	second, err := NewSeriesGenerator(DefaultSeriesConfig()).Generate()
	require.NoError(t, err)

	a, err := first.Document.MarshalJSON()
	require.NoError(t, err)
	b, err := second.Document.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first.Planted, second.Planted)
}

func TestSeriesGeneratorWriteToFile(t *testing.T) {
	config := DefaultSeriesConfig()
	config.SeriesCount = 3
	config.SpikeRate = 1
	path := filepath.Join(t.TempDir(), "series.json")

	generated, err := NewSeriesGenerator(config).WriteToFile(path)
	require.NoError(t, err)
	assert.Len(t, generated.Planted, 3)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	doc, err := jsonsource.LoadFile(path)
	require.NoError(t, err)
	series, ok := doc.Get("series")
	require.True(t, ok)
	assert.Equal(t, 3, series.Len())
}

func TestSeriesGeneratorRejectsShortSeries(t *testing.T) {
	config := DefaultSeriesConfig()
	config.Length = 2
	_, err := NewSeriesGenerator(config).Generate()
	assert.Error(t, err)
}

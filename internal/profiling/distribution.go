package profiling

import (
	"github.com/montanaflynn/stats"

	"jsonprof/domain/profile"
)

// Summarize computes min, max, mean and median of a numeric array, plus the
// population standard deviation when there is more than one value
func Summarize(data []float64) (profile.NumericSummary, error) {
	summary := profile.NumericSummary{}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	summary.Min = min
	summary.Max = max
	summary.Mean = mean
	summary.Median = median

	if len(data) > 1 {
		stdDev, err := stats.StandardDeviationPopulation(data)
		if err != nil {
			return summary, err
		}
		summary.StdDev = &stdDev
	}

	return summary, nil
}

package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"jsonprof/domain/profile"
)

// MinAnomalySample is the smallest array scanned for outliers
const MinAnomalySample = 3

// DetectAnomalies flags every value whose Z-score, measured against the
// population mean and standard deviation of values, is strictly greater
// than zThreshold. Results are in index order.
func DetectAnomalies(values []float64, path string, zThreshold float64) []profile.Anomaly {
	if len(values) < MinAnomalySample {
		return nil
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	std, err := stats.StandardDeviationPopulation(values)
	if err != nil || std == 0 {
		return nil
	}

	var anomalies []profile.Anomaly
	for i, value := range values {
		z := math.Abs((value - mean) / std)
		if z > zThreshold {
			anomalies = append(anomalies, profile.Anomaly{
				Index:  i,
				Value:  value,
				ZScore: z,
				Path:   indexPath(path, i),
				PValue: twoSidedPValue(z),
			})
		}
	}
	return anomalies
}

// twoSidedPValue is the standard-normal probability of a deviation at
// least as large as z in either direction
func twoSidedPValue(z float64) float64 {
	return 2 * distuv.UnitNormal.Survival(z)
}

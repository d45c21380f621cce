package profiling

import (
	"fmt"
	"strings"

	"jsonprof/domain/profile"
)

// RenderReport flattens an analysis into the human-readable report
func RenderReport(tree *profile.StatsNode, anomalies []profile.Anomaly, boundaries profile.Boundaries) string {
	if tree == nil {
		return "No data has been analyzed yet."
	}

	lines := []string{"=== JSON Analysis Report ===\n"}

	if tree.Type == profile.TypeObject {
		lines = append(lines, fmt.Sprintf("Root object with %d keys: %s\n", tree.KeyCount, strings.Join(tree.Keys, ", ")))
	}

	if len(boundaries) > 0 {
		lines = append(lines, "=== Value Boundaries ===")
		for _, b := range boundaries {
			lines = append(lines,
				"\n"+b.Path+":",
				"  min: "+profile.FormatFloat(b.Min),
				"  max: "+profile.FormatFloat(b.Max),
				"  mean: "+profile.FormatFloat(b.Mean),
				"  median: "+profile.FormatFloat(b.Median),
			)
			if b.StdDev != nil {
				lines = append(lines, "  std_dev: "+profile.FormatFloat(*b.StdDev))
			}
		}
	}

	if len(anomalies) > 0 {
		lines = append(lines, "\n=== Detected Anomalies ===")
		for _, a := range anomalies {
			lines = append(lines,
				"\nPath: "+a.Path,
				"Value: "+profile.FormatFloat(a.Value),
				fmt.Sprintf("Z-score: %.2f", a.ZScore),
			)
		}
	} else {
		lines = append(lines, "\nNo anomalies detected.")
	}

	return strings.Join(lines, "\n")
}

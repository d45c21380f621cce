package profiling

import "jsonprof/domain/profile"

// CollectAnomalies gathers anomalies from the whole tree: a node's own
// anomalies first, then its properties in key order, then its sample
// elements. Elements past the sample limit are never visited, so their
// anomalies do not appear here.
func CollectAnomalies(tree *profile.StatsNode) []profile.Anomaly {
	if tree == nil {
		return nil
	}

	var anomalies []profile.Anomaly
	anomalies = append(anomalies, tree.Anomalies...)
	for _, prop := range tree.Properties {
		anomalies = append(anomalies, CollectAnomalies(prop.Node)...)
	}
	for _, sample := range tree.SampleElements {
		anomalies = append(anomalies, CollectAnomalies(sample)...)
	}
	return anomalies
}

// CollectBoundaries records the numeric summary of every all-numeric array
// in traversal order. Object members extend the path with ".key", sample
// elements with "[i]".
func CollectBoundaries(tree *profile.StatsNode, path string) profile.Boundaries {
	var boundaries profile.Boundaries
	collectBoundaries(tree, path, &boundaries)
	return boundaries
}

func collectBoundaries(node *profile.StatsNode, path string, out *profile.Boundaries) {
	if node == nil {
		return
	}

	switch node.Type {
	case profile.TypeArray:
		if s := node.Numeric; s != nil {
			*out = append(*out, profile.Boundary{
				Path:   path,
				Min:    s.Min,
				Max:    s.Max,
				Mean:   s.Mean,
				Median: s.Median,
				StdDev: s.StdDev,
			})
		}
		for i, sample := range node.SampleElements {
			collectBoundaries(sample, indexPath(path, i), out)
		}
	case profile.TypeObject:
		for _, prop := range node.Properties {
			collectBoundaries(prop.Node, path+"."+prop.Key, out)
		}
	}
}

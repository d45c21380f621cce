// Package pprof turns Go runtime profiles into JSON documents so that sample
// values can be profiled for outliers like any other numeric array.
package pprof

import (
	"os"
	"sort"

	"github.com/google/pprof/profile"

	"jsonprof/domain/jsonvalue"
	"jsonprof/internal"
	"jsonprof/internal/errors"
)

// DefaultTopN is how many functions are listed under top_functions
const DefaultTopN = 10

type functionStat struct {
	Name string
	Flat int64
}

// Load parses a pprof file (gzipped or not) and converts it with FromProfile
func Load(path string) (*jsonvalue.Value, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.InvalidInput("profile file not found: " + path)
		}
		return nil, errors.Wrapf(err, "failed to open profile file %s", path)
	}
	defer file.Close()

	prof, err := profile.Parse(file)
	if err != nil {
		return nil, errors.ParseFailure(path, err)
	}
	internal.DefaultLogger.Debug("parsed profile %s (%d samples, %d sample types)", path, len(prof.Sample), len(prof.SampleType))

	return FromProfile(prof, DefaultTopN), nil
}

// FromProfile builds
//
//	{"sample_types": [...], "duration_nanos": n,
//	 "values": {"<type>/<unit>": [...]}, "top_functions": [{"name", "flat"}]}
//
// where values holds every sample's value per sample type in sample order
// and top_functions ranks leaf frames by flat value of the default sample type.
func FromProfile(p *profile.Profile, topN int) *jsonvalue.Value {
	names := make([]*jsonvalue.Value, len(p.SampleType))
	columns := make([][]*jsonvalue.Value, len(p.SampleType))
	for i, st := range p.SampleType {
		names[i] = jsonvalue.String(sampleTypeName(st))
		columns[i] = make([]*jsonvalue.Value, 0, len(p.Sample))
	}

	for _, s := range p.Sample {
		for i := range p.SampleType {
			if i < len(s.Value) {
				columns[i] = append(columns[i], jsonvalue.Int(s.Value[i]))
			}
		}
	}

	values := make([]jsonvalue.Member, len(p.SampleType))
	for i := range p.SampleType {
		values[i] = jsonvalue.Field(sampleTypeName(p.SampleType[i]), jsonvalue.Array(columns[i]...))
	}

	top := make([]*jsonvalue.Value, 0)
	if idx := defaultValueIndex(p); idx >= 0 {
		for _, stat := range flatByFunction(p, idx, topN) {
			top = append(top, jsonvalue.Object(
				jsonvalue.Field("name", jsonvalue.String(stat.Name)),
				jsonvalue.Field("flat", jsonvalue.Int(stat.Flat)),
			))
		}
	}

	return jsonvalue.Object(
		jsonvalue.Field("sample_types", jsonvalue.Array(names...)),
		jsonvalue.Field("duration_nanos", jsonvalue.Int(p.DurationNanos)),
		jsonvalue.Field("values", jsonvalue.Object(values...)),
		jsonvalue.Field("top_functions", jsonvalue.Array(top...)),
	)
}

func sampleTypeName(st *profile.ValueType) string {
	return st.Type + "/" + st.Unit
}

// defaultValueIndex honours DefaultSampleType and otherwise picks the last
// sample type, the one pprof shows by default
func defaultValueIndex(p *profile.Profile) int {
	if p.DefaultSampleType != "" {
		for i, st := range p.SampleType {
			if st.Type == p.DefaultSampleType {
				return i
			}
		}
	}
	return len(p.SampleType) - 1
}

// flatByFunction attributes each sample's value to the first named function
// of its leaf location
func flatByFunction(p *profile.Profile, valueIndex, topN int) []functionStat {
	flat := make(map[string]int64)
	for _, s := range p.Sample {
		if len(s.Location) == 0 || len(s.Value) <= valueIndex {
			continue
		}
		for _, line := range s.Location[0].Line {
			if line.Function != nil {
				flat[line.Function.Name] += s.Value[valueIndex]
				break
			}
		}
	}

	stats := make([]functionStat, 0, len(flat))
	for name, v := range flat {
		stats = append(stats, functionStat{Name: name, Flat: v})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Flat != stats[j].Flat {
			return stats[i].Flat > stats[j].Flat
		}
		return stats[i].Name < stats[j].Name
	})

	if topN > 0 && len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}

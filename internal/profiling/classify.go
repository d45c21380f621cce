package profiling

import (
	"strconv"
	"unicode/utf8"

	"jsonprof/domain/jsonvalue"
	"jsonprof/domain/profile"
	"jsonprof/internal/errors"
)

// Classify builds the statistics subtree for v. path locates v in the
// document and is empty at the root.
func (p *JSONProfiler) Classify(v *jsonvalue.Value, path string) (*profile.StatsNode, error) {
	return p.classify(v, path, 0)
}

func (p *JSONProfiler) classify(v *jsonvalue.Value, path string, depth int) (*profile.StatsNode, error) {
	if depth > p.opts.MaxDepth {
		if p.opts.TruncateDeep {
			return truncatedNode(v), nil
		}
		return nil, errors.DepthExceeded(path, p.opts.MaxDepth)
	}

	// Booleans are matched before numbers
	switch v.Kind() {
	case jsonvalue.KindNull:
		return &profile.StatsNode{Type: profile.TypeNull}, nil

	case jsonvalue.KindBool:
		b, _ := v.Bool()
		return &profile.StatsNode{Type: profile.TypeBoolean, Value: b}, nil

	case jsonvalue.KindNumber:
		return &profile.StatsNode{Type: profile.TypeNumber, Value: numberValue(v)}, nil

	case jsonvalue.KindString:
		s, _ := v.Str()
		return &profile.StatsNode{
			Type:         profile.TypeString,
			Length:       utf8.RuneCountInString(s),
			PossibleDate: IsPossibleDate(s),
		}, nil

	case jsonvalue.KindArray:
		return p.classifyArray(v, path, depth)

	case jsonvalue.KindObject:
		return p.classifyObject(v, path, depth)

	default:
		name := v.TypeName()
		if name == "" {
			name = string(profile.TypeUnknown)
		}
		return &profile.StatsNode{Type: profile.NodeType(name)}, nil
	}
}

func (p *JSONProfiler) classifyObject(v *jsonvalue.Value, path string, depth int) (*profile.StatsNode, error) {
	members := v.Members()
	node := &profile.StatsNode{
		Type:       profile.TypeObject,
		Keys:       make([]string, 0, len(members)),
		KeyCount:   len(members),
		Properties: make([]profile.Property, 0, len(members)),
	}

	for _, m := range members {
		child, err := p.classify(m.Value, keyPath(path, m.Key), depth+1)
		if err != nil {
			return nil, err
		}
		node.Keys = append(node.Keys, m.Key)
		node.Properties = append(node.Properties, profile.Property{Key: m.Key, Node: child})
	}
	return node, nil
}

func (p *JSONProfiler) classifyArray(v *jsonvalue.Value, path string, depth int) (*profile.StatsNode, error) {
	items := v.Items()
	node := &profile.StatsNode{Type: profile.TypeArray, Length: len(items)}

	if values, ok := numericValues(items); ok {
		summary, err := Summarize(values)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to summarize %s", displayPath(path))
		}
		node.Numeric = &summary
		node.Anomalies = DetectAnomalies(values, path, p.opts.ZThreshold)
	}

	limit := len(items)
	if limit > profile.SampleLimit {
		limit = profile.SampleLimit
	}
	node.SampleElements = make([]*profile.StatsNode, 0, limit)
	for i := 0; i < limit; i++ {
		child, err := p.classify(items[i], indexPath(path, i), depth+1)
		if err != nil {
			return nil, err
		}
		node.SampleElements = append(node.SampleElements, child)
	}
	return node, nil
}

// numericValues returns the array as floats when it is non-empty and every
// element is a number. Booleans do not count as numbers.
func numericValues(items []*jsonvalue.Value) ([]float64, bool) {
	if len(items) == 0 {
		return nil, false
	}
	values := make([]float64, len(items))
	for i, item := range items {
		f, ok := item.Float()
		if !ok {
			return nil, false
		}
		values[i] = f
	}
	return values, true
}

// numberValue keeps integers integral so they serialize without a fraction
func numberValue(v *jsonvalue.Value) interface{} {
	f, _ := v.Float()
	if v.IsInteger() {
		if i, err := strconv.ParseInt(v.Literal(), 10, 64); err == nil {
			return i
		}
	}
	return f
}

func truncatedNode(v *jsonvalue.Value) *profile.StatsNode {
	node := &profile.StatsNode{Truncated: true}
	switch v.Kind() {
	case jsonvalue.KindArray:
		node.Type = profile.TypeArray
		node.Length = v.Len()
	case jsonvalue.KindObject:
		node.Type = profile.TypeObject
		node.KeyCount = v.Len()
		for _, m := range v.Members() {
			node.Keys = append(node.Keys, m.Key)
		}
	case jsonvalue.KindNull:
		node.Type = profile.TypeNull
	case jsonvalue.KindBool:
		node.Type = profile.TypeBoolean
		node.Value, _ = v.Bool()
	case jsonvalue.KindNumber:
		node.Type = profile.TypeNumber
		node.Value = numberValue(v)
	case jsonvalue.KindString:
		s, _ := v.Str()
		node.Type = profile.TypeString
		node.Length = utf8.RuneCountInString(s)
	default:
		node.Type = profile.TypeUnknown
	}
	return node
}

func keyPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func displayPath(path string) string {
	if path == "" {
		return RootPath
	}
	return path
}

package profile

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

type field struct {
	key   string
	value interface{}
}

// fields lists the attributes of n in their fixed output order
func (n *StatsNode) fields() []field {
	fs := []field{{"type", n.Type}}

	switch n.Type {
	case TypeObject:
		keys := n.Keys
		if keys == nil {
			keys = []string{}
		}
		fs = append(fs,
			field{"keys", keys},
			field{"key_count", n.KeyCount},
			field{"properties", propertyList(n.Properties)},
		)
	case TypeArray:
		fs = append(fs, field{"length", n.Length})
		if s := n.Numeric; s != nil {
			fs = append(fs,
				field{"min", finite(s.Min)},
				field{"max", finite(s.Max)},
				field{"mean", finite(s.Mean)},
				field{"median", finite(s.Median)},
			)
			if s.StdDev != nil {
				fs = append(fs, field{"std_dev", finite(*s.StdDev)})
			}
			anomalies := n.Anomalies
			if anomalies == nil {
				anomalies = []Anomaly{}
			}
			fs = append(fs, field{"anomalies", anomalies})
		}
		samples := n.SampleElements
		if samples == nil {
			samples = []*StatsNode{}
		}
		fs = append(fs, field{"sample_elements", samples})
	case TypeNumber, TypeBoolean:
		value := n.Value
		if f, ok := value.(float64); ok {
			value = floatValue(f)
		}
		fs = append(fs, field{"value", value})
	case TypeString:
		fs = append(fs,
			field{"length", n.Length},
			field{"possible_date", n.PossibleDate},
		)
	}

	if n.Truncated {
		fs = append(fs, field{"truncated", true})
	}
	return fs
}

// MarshalJSON writes the node with keys in a stable order
func (n *StatsNode) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return marshalFields(n.fields())
}

// MarshalYAML builds a mapping node with keys in a stable order
func (n *StatsNode) MarshalYAML() (interface{}, error) {
	if n == nil {
		return nil, nil
	}
	return yamlFields(n.fields())
}

type propertyList []Property

func (p propertyList) fields() []field {
	fs := make([]field, len(p))
	for i, prop := range p {
		fs[i] = field{prop.Key, prop.Node}
	}
	return fs
}

func (p propertyList) MarshalJSON() ([]byte, error) {
	return marshalFields(p.fields())
}

func (p propertyList) MarshalYAML() (interface{}, error) {
	return yamlFields(p.fields())
}

func (a Anomaly) fields() []field {
	return []field{
		{"index", a.Index},
		{"value", finite(a.Value)},
		{"z_score", finite(a.ZScore)},
		{"path", a.Path},
		{"p_value", finite(a.PValue)},
	}
}

func (a Anomaly) MarshalJSON() ([]byte, error) {
	return marshalFields(a.fields())
}

func (a Anomaly) MarshalYAML() (interface{}, error) {
	return yamlFields(a.fields())
}

func (b Boundary) fields() []field {
	fs := []field{
		{"min", finite(b.Min)},
		{"max", finite(b.Max)},
		{"mean", finite(b.Mean)},
		{"median", finite(b.Median)},
	}
	if b.StdDev != nil {
		fs = append(fs, field{"std_dev", finite(*b.StdDev)})
	}
	return fs
}

// MarshalJSON writes the summary without its path, which keys it in
// Boundaries
func (b Boundary) MarshalJSON() ([]byte, error) {
	return marshalFields(b.fields())
}

func (b Boundary) MarshalYAML() (interface{}, error) {
	return yamlFields(b.fields())
}

func (b Boundaries) fields() []field {
	fs := make([]field, len(b))
	for i, boundary := range b {
		fs[i] = field{boundary.Path, boundary}
	}
	return fs
}

// MarshalJSON writes boundaries as an object keyed by path, in traversal order
func (b Boundaries) MarshalJSON() ([]byte, error) {
	return marshalFields(b.fields())
}

func (b Boundaries) MarshalYAML() (interface{}, error) {
	return yamlFields(b.fields())
}

func marshalFields(fs []field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := encodeJSON(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func yamlFields(fs []field) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fs {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key}
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if f.value != nil {
			if err := value.Encode(f.value); err != nil {
				return nil, err
			}
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

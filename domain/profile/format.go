package profile

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FormatFloat renders floats the way report readers expect them: shortest
// round-trip digits, always with a fractional part or an exponent
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// finite drops NaN and infinities, which JSON cannot carry, so they encode
// as null
func finite(f float64) interface{} {
	if !isFinite(f) {
		return nil
	}
	return f
}

// floatValue is a float read from a non-integer literal. It keeps its
// fractional part on output, so 1.0 stays 1.0.
type floatValue float64

func (f floatValue) MarshalJSON() ([]byte, error) {
	if !isFinite(float64(f)) {
		return []byte("null"), nil
	}
	return []byte(FormatFloat(float64(f))), nil
}

func (f floatValue) MarshalYAML() (interface{}, error) {
	if !isFinite(float64(f)) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: FormatFloat(float64(f))}, nil
}

// encodeJSON marshals v without HTML escaping and without the encoder's
// trailing newline
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

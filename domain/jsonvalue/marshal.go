package jsonvalue

import (
	"bytes"
	"math"

	json "github.com/goccy/go-json"
)

// MarshalJSON writes v as compact JSON with object members in order.
// Number literals are written as they were parsed. Foreign values and
// numbers outside the float64 range (NaN, infinities) become null.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is MarshalJSON with two-space indentation
func MarshalIndent(v *Value) ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindBool:
		if v.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		switch {
		case math.IsNaN(v.number) || math.IsInf(v.number, 0):
			buf.WriteString("null")
		case v.literal != "":
			buf.WriteString(v.literal)
		default:
			return encodeScalar(buf, v.number)
		}
	case KindString:
		return encodeScalar(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

// encodeScalar appends one string or number without HTML escaping
func encodeScalar(buf *bytes.Buffer, v interface{}) error {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(out.Bytes(), []byte("\n")))
	return nil
}

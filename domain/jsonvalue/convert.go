package jsonvalue

import (
	"fmt"
	"math"
	"sort"
)

// FromInterface converts decoded Go values (as produced by encoding/json or
// an RPC argument map) into a Value. Map keys are sorted because Go maps
// carry no order. Types outside the JSON model become foreign values.
func FromInterface(in interface{}) *Value {
	switch v := in.(type) {
	case nil:
		return Null()
	case *Value:
		if v == nil {
			return Null()
		}
		return v
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case float32:
		return Number(float64(v))
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return Int(int64(v))
		}
		return Number(v)
	case string:
		return String(v)
	case []interface{}:
		items := make([]*Value, len(v))
		for i, item := range v {
			items[i] = FromInterface(item)
		}
		return Array(items...)
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Field(k, FromInterface(v[k]))
		}
		return Object(members...)
	default:
		return Foreign(fmt.Sprintf("%T", in))
	}
}

package jsonvalue

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.IsNull())
	assert.Nil(t, v.Items())
	assert.Equal(t, 0, v.Len())

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestAccessorsRejectOtherKinds(t *testing.T) {
	s := String("12")
	_, ok := s.Float()
	assert.False(t, ok)
	_, ok = s.Bool()
	assert.False(t, ok)
	assert.Equal(t, "", s.Literal())

	n := Int(7)
	_, ok = n.Str()
	assert.False(t, ok)
	assert.True(t, n.IsInteger())
	assert.Equal(t, "7", n.Literal())

	f := Number(2.5)
	assert.False(t, f.IsInteger())
	assert.Equal(t, "2.5", f.Literal())
}

func TestFromInterface(t *testing.T) {
	v := FromInterface(map[string]interface{}{
		"b":    []interface{}{1.0, 2.5, "x", nil, true},
		"a":    int64(3),
		"when": time.Time{},
	})

	require.Equal(t, KindObject, v.Kind())
	keys := make([]string, 0)
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"a", "b", "when"}, keys)

	b, _ := v.Get("b")
	assert.True(t, b.Items()[0].IsInteger())
	assert.False(t, b.Items()[1].IsInteger())
	assert.Equal(t, KindNull, b.Items()[3].Kind())

	when, _ := v.Get("when")
	assert.Equal(t, KindForeign, when.Kind())
	assert.Equal(t, "time.Time", when.TypeName())
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	v := Object(
		Field("z", NumberLiteral(1.50, "1.50")),
		Field("a", Array(Bool(true), Null(), String("<q>"), Number(0.25))),
		Field("f", Foreign("chan int")),
	)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1.50,"a":[true,null,"<q>",0.25],"f":null}`, string(out))

	indented, err := MarshalIndent(Object(Field("k", Array(Int(1)))))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"k\": [\n    1\n  ]\n}", string(indented))
}

func TestMarshalJSONNonFiniteAsNull(t *testing.T) {
	out, err := Array(Number(math.Inf(1)), NumberLiteral(math.Inf(1), "1e400"), Number(math.NaN()), Number(2)).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `[null,null,null,2]`, string(out))
}

func TestMarshalJSONLeavesHTMLUnescaped(t *testing.T) {
	out, err := Object(Field("<a&b>", String("x < y && y > z"))).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"<a&b>":"x < y && y > z"}`, string(out))
}

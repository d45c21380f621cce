package jsonsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonprof/adapters/excel"
	"jsonprof/domain/jsonvalue"
	"jsonprof/internal/errors"
)

func memberKeys(v *jsonvalue.Value) []string {
	keys := make([]string, 0, v.Len())
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	return keys
}

func TestParseKeepsDocumentOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": {"y": true, "b": null}, "mid": [1, "two", 3.5]}`))
	require.NoError(t, err)

	assert.Equal(t, jsonvalue.KindObject, v.Kind())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, memberKeys(v))

	alpha, _ := v.Get("alpha")
	assert.Equal(t, []string{"y", "b"}, memberKeys(alpha))

	mid, _ := v.Get("mid")
	require.Equal(t, 3, mid.Len())
	assert.Equal(t, jsonvalue.KindNumber, mid.Items()[0].Kind())
	assert.Equal(t, jsonvalue.KindString, mid.Items()[1].Kind())
	assert.Equal(t, "3.5", mid.Items()[2].Literal())
}

func TestParseDuplicateKeys(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, memberKeys(v))
	a, _ := v.Get("a")
	f, _ := a.Float()
	assert.Equal(t, 3.0, f)
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		in   string
		kind jsonvalue.Kind
	}{
		{`null`, jsonvalue.KindNull},
		{` true `, jsonvalue.KindBool},
		{`false`, jsonvalue.KindBool},
		{`-12`, jsonvalue.KindNumber},
		{`1e3`, jsonvalue.KindNumber},
		{`"2025-04-28"`, jsonvalue.KindString},
		{`[]`, jsonvalue.KindArray},
		{`{}`, jsonvalue.KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestParseNumbers(t *testing.T) {
	v, err := Parse([]byte(`[42, 1e3, 2.50, 12345678901234567890]`))
	require.NoError(t, err)
	items := v.Items()

	assert.True(t, items[0].IsInteger())
	assert.Equal(t, "42", items[0].Literal())
	assert.False(t, items[1].IsInteger())
	f, _ := items[1].Float()
	assert.Equal(t, 1000.0, f)
	assert.Equal(t, "2.50", items[2].Literal())
	big, _ := items[3].Float()
	assert.InDelta(t, 1.2345678901234567e19, big, 1e4)
}

func TestParseEscapedStrings(t *testing.T) {
	v, err := Parse([]byte(`{"k\"ey": "café\n"}`))
	require.NoError(t, err)

	s, ok := v.Get(`k"ey`)
	require.True(t, ok)
	str, _ := s.Str()
	assert.Equal(t, "café\n", str)
}

func TestParseRejectsInvalidInput(t *testing.T) {
	for _, in := range []string{``, `   `, `{`, `{"a":}`, `[1,]`, `nope`, `{"a":1} trailing`} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse([]byte(in))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrParseFailure)
		})
	}
}

func nested(depth int) []byte {
	return []byte(strings.Repeat("[", depth) + strings.Repeat("]", depth))
}

func TestParserMaxDepth(t *testing.T) {
	parser := NewParser(Options{MaxDepth: 1})

	tests := []struct {
		name string
		in   string
		path string
	}{
		{"scalar below limit", `{"a":{"b":1}}`, "at a.b"},
		{"array element", `[[1],[2]]`, "at [0][0]"},
		{"container found by scan", `{"a":{"b":{"c":1}}}`, "at byte offset 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrDepthExceeded)
			assert.Contains(t, err.Error(), tt.path)
		})
	}

	v, err := parser.Parse([]byte(`{"a":"[[[[\"{{{","b":[]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, memberKeys(v))
}

func TestParserRejectsDeepNestingQuickly(t *testing.T) {
	started := time.Now()
	_, err := NewParser(Options{MaxDepth: 256}).Parse(nested(200000))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDepthExceeded)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestParserTruncatesDeepNesting(t *testing.T) {
	started := time.Now()
	v, err := NewParser(Options{MaxDepth: 8, TruncateDeep: true}).Parse(nested(20000))
	require.NoError(t, err)
	assert.Less(t, time.Since(started), 2*time.Second)

	for i := 0; i < 9; i++ {
		require.Equal(t, 1, v.Len())
		v = v.Items()[0]
	}
	// Past the limit only the element count survives
	require.Equal(t, 1, v.Len())
	assert.True(t, v.Items()[0].IsNull())

	v, err = NewParser(Options{MaxDepth: 1, TruncateDeep: true}).Parse([]byte(`{"a":{"x":{"deep":1,"deep":2,"z":[1]},"y":2}}`))
	require.NoError(t, err)
	a, _ := v.Get("a")
	x, _ := a.Get("x")
	assert.Equal(t, jsonvalue.KindObject, x.Kind())
	assert.Equal(t, []string{"deep", "z"}, memberKeys(x))
}

func TestDetectKind(t *testing.T) {
	tests := map[string]SourceKind{
		"data.json":       SourceJSON,
		"data.txt":        SourceJSON,
		"noext":           SourceJSON,
		"book.XLSX":       SourceSpreadsheet,
		"rows.csv":        SourceSpreadsheet,
		"cpu.pprof":       SourceProfile,
		"cpu.prof":        SourceProfile,
		"heap.pb.gz":      SourceProfile,
		"archive.json.gz": SourceJSON,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectKind(path), path)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"temps":[1,2,3]}`), 0o644))
	doc, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"temps"}, memberKeys(doc))

	csvPath := filepath.Join(dir, "rows.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x,y\n1,2\n3,4\n"), 0o644))
	doc, err = LoadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.KindArray, doc.Kind())
	assert.Equal(t, 2, doc.Len())

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{"broken":`), 0o644))
	_, err = LoadFile(badPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParseFailure)
	assert.Contains(t, err.Error(), badPath)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestParserSpreadsheetOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte("amount,active\n\"$1,200\",yes\n(42),off\n"), 0o644))

	strict, err := LoadFile(path)
	require.NoError(t, err)
	amount, _ := strict.Items()[0].Get("amount")
	assert.Equal(t, jsonvalue.KindString, amount.Kind())

	cfg := excel.DefaultConfig()
	cfg.Coercion = excel.CoercionConfig{LenientNumbers: true, BooleanWords: true}
	lenient, err := NewParser(Options{Spreadsheet: cfg}).LoadFile(path)
	require.NoError(t, err)

	amount, _ = lenient.Items()[0].Get("amount")
	n, ok := amount.Float()
	require.True(t, ok)
	assert.Equal(t, 1200.0, n)

	amount, _ = lenient.Items()[1].Get("amount")
	n, _ = amount.Float()
	assert.Equal(t, -42.0, n)

	active, _ := lenient.Items()[1].Get("active")
	b, ok := active.Bool()
	require.True(t, ok)
	assert.False(t, b)
}

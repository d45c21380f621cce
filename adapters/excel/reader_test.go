package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jsonprof/domain/jsonvalue"
	"jsonprof/internal/errors"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		require.NoError(t, f.SetSheetName(DefaultSheet, sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, DefaultSheet, [][]interface{}{
		{" sensor ", "reading", "ok"},
		{"a", 12.5, true},
		{"b", 13, false},
		{"c", "", "n/a"},
	})

	doc, err := NewDataReader(path).Read()
	require.NoError(t, err)
	require.Equal(t, jsonvalue.KindArray, doc.Kind())
	require.Equal(t, 3, doc.Len())

	first := doc.Items()[0]
	keys := make([]string, 0)
	for _, m := range first.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"sensor", "reading", "ok"}, keys)

	reading, _ := first.Get("reading")
	f, ok := reading.Float()
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	okCell, _ := first.Get("ok")
	b, isBool := okCell.Bool()
	assert.True(t, isBool)
	assert.True(t, b)

	third := doc.Items()[2]
	empty, _ := third.Get("reading")
	assert.True(t, empty.IsNull())
	text, _ := third.Get("ok")
	s, _ := text.Str()
	assert.Equal(t, "n/a", s)
}

func TestReadWorkbookFallsBackToFirstSheet(t *testing.T) {
	path := writeWorkbook(t, "Readings", [][]interface{}{
		{"value"},
		{1},
		{2},
	})

	doc, err := NewDataReader(path).Read()
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Len())
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "id,,id,note\n1,x,2,hello\n3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reader := NewDataReader(path)
	data, err := reader.ReadData()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "B", "id_2", "note"}, data.Headers)
	assert.Equal(t, [][]string{{"1", "x", "2", "hello"}, {"3"}}, data.Rows)

	doc, err := reader.Read()
	require.NoError(t, err)
	short := doc.Items()[1]
	assert.Equal(t, 4, short.Len())
	note, _ := short.Get("note")
	assert.True(t, note.IsNull())
}

func TestReadErrors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).Read()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = NewDataReader(empty).Read()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	corrupt := filepath.Join(t.TempDir(), "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o644))
	_, err = NewDataReader(corrupt).Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParseFailure)

	_, err = NewDataReader("report.ods").Read()
	assert.Equal(t, errors.CodeUnsupportedSource, errors.GetCode(err))
}

func TestCellCoercer(t *testing.T) {
	strict := NewCellCoercer(DefaultCoercionConfig())
	lenient := NewCellCoercer(CoercionConfig{LenientNumbers: true, BooleanWords: true})

	tests := []struct {
		name    string
		coercer *CellCoercer
		in      string
		kind    jsonvalue.Kind
	}{
		{"integer", strict, "42", jsonvalue.KindNumber},
		{"exponent", strict, "-1.5e3", jsonvalue.KindNumber},
		{"blank", strict, "   ", jsonvalue.KindNull},
		{"bool any case", strict, "TRUE", jsonvalue.KindBool},
		{"hex stays text", strict, "0x1p-2", jsonvalue.KindString},
		{"infinity stays text", strict, "Inf", jsonvalue.KindString},
		{"currency strict", strict, "$1,200", jsonvalue.KindString},
		{"yes strict", strict, "yes", jsonvalue.KindString},
		{"currency lenient", lenient, "$1,200", jsonvalue.KindNumber},
		{"accounting negative", lenient, "(35.5)", jsonvalue.KindNumber},
		{"yes lenient", lenient, "yes", jsonvalue.KindBool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.coercer.Coerce(tt.in).Kind())
		})
	}

	v := lenient.Coerce("(35.5)")
	f, _ := v.Float()
	assert.Equal(t, -35.5, f)
}

func TestColumnIndexToLetter(t *testing.T) {
	assert.Equal(t, "A", columnIndexToLetter(0))
	assert.Equal(t, "Z", columnIndexToLetter(25))
	assert.Equal(t, "AA", columnIndexToLetter(26))
	assert.Equal(t, "AB", columnIndexToLetter(27))
}

package jsonsource

import (
	"os"
	"path/filepath"
	"strings"

	"jsonprof/adapters/excel"
	"jsonprof/adapters/pprof"
	"jsonprof/domain/jsonvalue"
	"jsonprof/internal/errors"
)

// SourceKind names the decoder LoadFile picks for a path
type SourceKind string

const (
	SourceJSON        SourceKind = "json"
	SourceSpreadsheet SourceKind = "spreadsheet"
	SourceProfile     SourceKind = "pprof"
)

// DetectKind maps a file extension to a decoder. Unknown extensions are
// treated as JSON.
func DetectKind(path string) SourceKind {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".pb.gz") {
		return SourceProfile
	}

	switch filepath.Ext(lower) {
	case ".xlsx", ".xlsm", ".csv":
		return SourceSpreadsheet
	case ".pprof", ".prof":
		return SourceProfile
	default:
		return SourceJSON
	}
}

// LoadFile reads path with the default options
func LoadFile(path string) (*jsonvalue.Value, error) {
	return defaultParser.LoadFile(path)
}

// LoadFile reads path and converts it into a document for analysis
func (p *Parser) LoadFile(path string) (*jsonvalue.Value, error) {
	switch DetectKind(path) {
	case SourceSpreadsheet:
		doc, err := excel.NewDataReaderWithConfig(path, p.opts.Spreadsheet).Read()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load spreadsheet %s", path)
		}
		return doc, nil

	case SourceProfile:
		doc, err := pprof.Load(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load profile %s", path)
		}
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.InvalidInput(err.Error()), "file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return p.parse(path, data)
}

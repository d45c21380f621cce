package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"jsonprof/domain/jsonvalue"
	"jsonprof/internal"
	"jsonprof/internal/errors"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx", "csv" or empty when unsupported
	config   Config
	coercer  *CellCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader with the default configuration
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultConfig())
}

// NewDataReaderWithConfig creates a reader that handles both Excel and CSV files
func NewDataReaderWithConfig(filePath string, config Config) *DataReader {
	var fileType string
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	case ".csv":
		fileType = "csv"
	}
	if config.Sheet == "" {
		config.Sheet = DefaultSheet
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		coercer:  NewCellCoercer(config.Coercion),
		logger:   internal.DefaultLogger.With("component", "excel", "file", filePath),
	}
}

// Read converts the sheet into a JSON document: an array with one object per
// data row, keyed by header in column order
func (r *DataReader) Read() (*jsonvalue.Value, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	rows := make([]*jsonvalue.Value, len(data.Rows))
	for i, row := range data.Rows {
		members := make([]jsonvalue.Member, len(data.Headers))
		for j, header := range data.Headers {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			members[j] = jsonvalue.Field(header, r.coercer.Coerce(cell))
		}
		rows[i] = jsonvalue.Object(members...)
	}
	return jsonvalue.Array(rows...), nil
}

// ReadData reads the raw header and cell strings
func (r *DataReader) ReadData() (*SheetData, error) {
	if r.fileType == "" {
		return nil, errors.UnsupportedSource("not a spreadsheet: " + r.filePath)
	}
	r.logger.Debug("reading %s file", r.fileType)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InvalidInput(strings.ToUpper(r.fileType) + " file not found: " + r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

func (r *DataReader) readExcelData() (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.ParseFailure(r.filePath, err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		// Fall back to the first sheet when the configured one is absent
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("workbook has no sheets")
		}
		r.logger.Debug("sheet %q not found, using %q", sheet, sheets[0])
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseFailure(r.filePath, err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseFailure(r.filePath, err)
	}
	r.logger.Debug("CSV file read (%d rows)", len(rows))

	return r.processRows(rows)
}

// processRows trims headers and cells. Empty headers are named after their
// column letter and repeated headers get a numeric suffix.
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput(strings.ToUpper(r.fileType) + " file must have a header row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = columnIndexToLetter(i)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = name + "_" + strconv.Itoa(n)
		}
		headers[i] = name
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, 0, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				cells = append(cells, strings.TrimSpace(cell))
			}
		}
		dataRows = append(dataRows, cells)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &SheetData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// columnIndexToLetter converts 0-based column index to Excel column letter (A, B, ..., Z, AA, AB, ...)
func columnIndexToLetter(colIdx int) string {
	result := ""
	colIdx++
	for colIdx > 0 {
		colIdx--
		result = string(rune('A'+(colIdx%26))) + result
		colIdx /= 26
	}
	return result
}

package excel

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"jsonprof/domain/jsonvalue"
)

// CoercionConfig defines how cell text is typed
type CoercionConfig struct {
	// LenientNumbers accepts currency symbols, percent signs, thousands
	// separators and accounting negatives such as (123)
	LenientNumbers bool `json:"lenient_numbers" yaml:"lenient_numbers"`
	// BooleanWords accepts yes/no and on/off besides true/false
	BooleanWords bool `json:"boolean_words" yaml:"boolean_words"`
}

// DefaultCoercionConfig only types cells that are already valid JSON scalars
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{}
}

// CellCoercer converts spreadsheet cell text into JSON scalars
type CellCoercer struct {
	config CoercionConfig
}

// NewCellCoercer creates a coercer with the given config
func NewCellCoercer(config CoercionConfig) *CellCoercer {
	return &CellCoercer{config: config}
}

var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Coerce types one cell: empty cells are null, numeric text becomes a
// number, true/false become booleans and everything else stays a string
func (c *CellCoercer) Coerce(cell string) *jsonvalue.Value {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return jsonvalue.Null()
	}

	if v, ok := c.tryParseNumeric(cell); ok {
		return v
	}
	if v, ok := c.tryParseBoolean(cell); ok {
		return v
	}
	return jsonvalue.String(cell)
}

func (c *CellCoercer) tryParseNumeric(cell string) (*jsonvalue.Value, bool) {
	clean := cell
	if c.config.LenientNumbers {
		clean = normalizeNumber(cell)
	}
	if !numberPattern.MatchString(clean) {
		return nil, false
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return nil, false
	}
	return jsonvalue.NumberLiteral(val, clean), true
}

// normalizeNumber strips decoration: (123) -> -123, $1,234 -> 1234, 12% -> 12
func normalizeNumber(s string) string {
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "%"} {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if negative {
		s = "-" + s
	}
	return s
}

func (c *CellCoercer) tryParseBoolean(cell string) (*jsonvalue.Value, bool) {
	switch strings.ToLower(cell) {
	case "true":
		return jsonvalue.Bool(true), true
	case "false":
		return jsonvalue.Bool(false), true
	}

	if c.config.BooleanWords {
		switch strings.ToLower(cell) {
		case "yes", "y", "on":
			return jsonvalue.Bool(true), true
		case "no", "n", "off":
			return jsonvalue.Bool(false), true
		}
	}
	return nil, false
}

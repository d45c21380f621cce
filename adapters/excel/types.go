package excel

// DefaultSheet is read unless Config names another sheet
const DefaultSheet = "Sheet1"

// SheetData holds trimmed cell text. Each row has at most len(Headers)
// cells; missing trailing cells are absent.
type SheetData struct {
	Headers []string
	Rows    [][]string
}

// Config controls which sheet is read and how cells are typed
type Config struct {
	Sheet    string         `json:"sheet" yaml:"sheet"`
	Coercion CoercionConfig `json:"coercion" yaml:"coercion"`
}

// DefaultConfig reads Sheet1 with strict number parsing
func DefaultConfig() Config {
	return Config{
		Sheet:    DefaultSheet,
		Coercion: DefaultCoercionConfig(),
	}
}

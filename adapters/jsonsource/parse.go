package jsonsource

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"jsonprof/adapters/excel"
	"jsonprof/domain/jsonvalue"
	"jsonprof/internal/config"
	"jsonprof/internal/errors"
)

// Options bounds and configures document loading
type Options struct {
	// MaxDepth is the deepest nesting level converted; the root is level 0
	MaxDepth int
	// TruncateDeep keeps containers past MaxDepth as shallow placeholders
	// (element count and keys only) instead of failing
	TruncateDeep bool
	// Spreadsheet configures .xlsx and .csv loading
	Spreadsheet excel.Config
}

// DefaultOptions uses the configured default depth and spreadsheet settings
func DefaultOptions() Options {
	return Options{MaxDepth: config.DefaultMaxDepth, Spreadsheet: excel.DefaultConfig()}
}

// Parser converts JSON text and files into documents. It is safe for
// concurrent use.
type Parser struct {
	opts Options
}

// NewParser creates a parser; a non-positive MaxDepth means the default
func NewParser(opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = config.DefaultMaxDepth
	}
	return &Parser{opts: opts}
}

var defaultParser = NewParser(DefaultOptions())

// Parse decodes a JSON document with the default options, keeping object
// members in document order. When a key repeats, the last value wins but
// keeps the first key's position.
func Parse(data []byte) (*jsonvalue.Value, error) {
	return defaultParser.Parse(data)
}

// Parse decodes a JSON document named "input"
func (p *Parser) Parse(data []byte) (*jsonvalue.Value, error) {
	return p.parse("input", data)
}

func (p *Parser) parse(source string, data []byte) (*jsonvalue.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ParseFailure(source, errors.InvalidInput("document is empty"))
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.ParseFailure(source, errors.InvalidInput("document is not valid JSON"))
	}
	// Converting costs one pass over the remaining input per nesting level,
	// so hopeless documents are rejected by a single linear scan first
	if !p.opts.TruncateDeep {
		if offset := nestingOverflow(data, p.opts.MaxDepth+1); offset >= 0 {
			return nil, errors.DepthExceeded("byte offset "+strconv.Itoa(offset), p.opts.MaxDepth)
		}
	}
	return p.convert(gjson.ParseBytes(data), "", 0)
}

// nestingOverflow returns the offset of the first bracket opening more than
// limit nested containers, or -1. data must be valid JSON.
func nestingOverflow(data []byte, limit int) int {
	depth := 0
	inString, escaped := false, false
	for i, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
			if depth > limit {
				return i
			}
		case ']', '}':
			depth--
		}
	}
	return -1
}

func (p *Parser) convert(r gjson.Result, path string, depth int) (*jsonvalue.Value, error) {
	if depth > p.opts.MaxDepth {
		if !p.opts.TruncateDeep {
			return nil, errors.DepthExceeded(path, p.opts.MaxDepth)
		}
		if r.IsArray() || r.IsObject() {
			return shallow(r), nil
		}
	}

	switch r.Type {
	case gjson.Null:
		return jsonvalue.Null(), nil
	case gjson.True:
		return jsonvalue.Bool(true), nil
	case gjson.False:
		return jsonvalue.Bool(false), nil
	case gjson.Number:
		return jsonvalue.NumberLiteral(r.Num, r.Raw), nil
	case gjson.String:
		return jsonvalue.String(r.Str), nil
	}

	var err error
	if r.IsArray() {
		items := make([]*jsonvalue.Value, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			var item *jsonvalue.Value
			item, err = p.convert(value, fmt.Sprintf("%s[%d]", path, len(items)), depth+1)
			items = append(items, item)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return jsonvalue.Array(items...), nil
	}

	members := make([]jsonvalue.Member, 0)
	seen := make(map[string]int)
	r.ForEach(func(key, value gjson.Result) bool {
		childPath := key.Str
		if path != "" {
			childPath = path + "." + key.Str
		}
		var child *jsonvalue.Value
		if child, err = p.convert(value, childPath, depth+1); err != nil {
			return false
		}
		if i, ok := seen[key.Str]; ok {
			members[i].Value = child
			return true
		}
		seen[key.Str] = len(members)
		members = append(members, jsonvalue.Field(key.Str, child))
		return true
	})
	if err != nil {
		return nil, err
	}
	return jsonvalue.Object(members...), nil
}

// shallow keeps a container's element count or keys with null placeholders
func shallow(r gjson.Result) *jsonvalue.Value {
	if r.IsArray() {
		items := make([]*jsonvalue.Value, 0)
		r.ForEach(func(_, _ gjson.Result) bool {
			items = append(items, jsonvalue.Null())
			return true
		})
		return jsonvalue.Array(items...)
	}

	members := make([]jsonvalue.Member, 0)
	seen := make(map[string]bool)
	r.ForEach(func(key, _ gjson.Result) bool {
		if !seen[key.Str] {
			seen[key.Str] = true
			members = append(members, jsonvalue.Field(key.Str, jsonvalue.Null()))
		}
		return true
	})
	return jsonvalue.Object(members...)
}

package profiling

import (
	"regexp"
	"time"
)

// dateLayouts mirror %Y-%m-%d, %d/%m/%Y and %m/%d/%Y. Unpadded fields
// accept one or two digits.
var dateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"1/2/2006",
}

// dateTimeLayouts mirror %Y-%m-%dT%H:%M:%S and %Y-%m-%d %H:%M:%S
var dateTimeLayouts = []string{
	"2006-1-2T15:4:5",
	"2006-1-2 15:4:5",
}

// time.Parse accepts fractional seconds after a seconds field even when the
// layout has none, so date-times must also end at the seconds digits
var dateTimeShape = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}[T ]\d{1,2}:\d{1,2}:\d{1,2}$`)

// IsPossibleDate reports whether the whole string parses under one of the
// supported date layouts
func IsPossibleDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	if !dateTimeShape.MatchString(s) {
		return false
	}
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	leadingNumber = regexp.MustCompile(`^-?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// truthy lists the case-insensitive strings accepted as true.
var truthy = map[string]bool{"yes": true, "true": true, "1": true, "y": true}

// ParseNumber coerces an arbitrary value to a finite float64. Strings are
// stripped of everything except digits, dots and minus signs (so "£1,250.50"
// parses as 1250.5) and the longest numeric prefix is used. Anything that
// cannot be parsed, or parses to NaN or ±Inf, yields 0.
func ParseNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		f = parseNumericString(string(t))
	case string:
		f = parseNumericString(t)
	case bool:
		return 0
	default:
		f = parseNumericString(fmt.Sprint(t))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumericString(s string) float64 {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	prefix := leadingNumber.FindString(cleaned)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseBool coerces an arbitrary value to a bool. Native booleans pass
// through, strings are true when they are one of yes/true/1/y (any case),
// and numbers are true when non-zero.
func ParseBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return truthy[strings.ToLower(strings.TrimSpace(t))]
	case nil:
		return false
	case json.Number:
		return truthy[strings.ToLower(strings.TrimSpace(string(t)))] || ParseNumber(t) != 0
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ParseNumber(t) != 0
	default:
		return false
	}
}

// parseText returns the trimmed string and true when v is a string.
func parseText(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// isEmpty reports whether a raw value counts as absent.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

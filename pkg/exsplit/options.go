// Package exsplit splits, filters and projects xlsx tables.
package exsplit

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/exsplit-go/pkg/exsplit/models"
)

// FilterMode selects how FilterByColumn picks rows.
type FilterMode string

const (
	// FilterExact keeps the rows whose cell equals the match value.
	FilterExact FilterMode = "exact"
	// FilterDistinct produces one table per distinct non-blank value.
	FilterDistinct FilterMode = "distinct"
	// FilterBlank keeps the rows whose cell is blank.
	FilterBlank FilterMode = "blank"
)

// DistinctSentinel is the match value that legacy form callers send to ask
// for one output per distinct value.
const DistinctSentinel = "0"

// ParseFilterMode parses a mode name. An empty name is not a mode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToLower(strings.TrimSpace(s))); m {
	case FilterExact, FilterDistinct, FilterBlank:
		return m, nil
	}
	return "", NewInvalidParameterError("mode", s, "must be exact, distinct, or blank")
}

// ModeForValue infers a mode from a legacy match value: the sentinel selects
// FilterDistinct and anything else FilterExact. FilterBlank is never inferred.
func ModeForValue(value string) FilterMode {
	if value == DistinctSentinel {
		return FilterDistinct
	}
	return FilterExact
}

// ValueType says how a match value given as a string is typed.
type ValueType string

const (
	// ValueText compares as text; it never matches numeric cells.
	ValueText ValueType = "text"
	// ValueNumber compares as a number; the string must parse.
	ValueNumber ValueType = "number"
	// ValueAuto compares as a number when the string parses, text otherwise.
	ValueAuto ValueType = "auto"
)

// ParseMatchValue types a match value. An empty type means ValueText.
func ParseMatchValue(s string, typ ValueType) (models.Value, error) {
	switch typ {
	case "", ValueText:
		return models.Text(s), nil
	case ValueNumber:
		f, ok := parseNumber(s)
		if !ok {
			return models.Value{}, NewInvalidParameterError("value", s, "not a number")
		}
		return models.Number(f), nil
	case ValueAuto:
		if f, ok := parseNumber(s); ok {
			return models.Number(f), nil
		}
		return models.Text(s), nil
	}
	return models.Value{}, NewInvalidParameterError("value_type", string(typ), "must be text, number, or auto")
}

// parseNumber accepts finite decimal numbers only.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Options configures how inputs are loaded.
type Options struct {
	// Sheet names the worksheet to read. Empty selects the first sheet.
	Sheet string
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{}
}

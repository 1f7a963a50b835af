// Package models defines the in-memory table representation used by exsplit.
package models

import "strconv"

// Kind identifies how a cell value is encoded.
type Kind uint8

const (
	// KindBlank is an empty cell (the null value).
	KindBlank Kind = iota
	// KindText is a string cell.
	KindText
	// KindNumber is a numeric cell.
	KindNumber
	// KindBool is a boolean cell.
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "blank"
	}
}

// Value is a single typed cell value.
// The zero Value is blank.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// Blank returns the blank value.
func Blank() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value.
func Number(f float64) Value {
	if f == 0 {
		f = 0 // -0 and 0 share one grouping key
	}
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsBlank reports whether v is the blank value.
func (v Value) IsBlank() bool { return v.kind == KindBlank }

// Equal reports whether v and o have the same kind and payload.
// Text never equals a number, even when the text spells the number.
// Blank equals blank.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String renders the value for labels and messages.
// Numbers use the shortest representation ("10", "2.5").
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Interface returns the value as nil, string, float64 or bool,
// suitable for spreadsheet writers.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// key identifies a value for grouping; values with equal keys are Equal.
type key struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// Key returns a comparable key for v, usable as a map key.
func (v Value) Key() interface{} {
	return key{kind: v.kind, text: v.text, num: v.num, b: v.b}
}

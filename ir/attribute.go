package ir

import (
	"math"
	"unicode/utf8"
)

// AttrKind tags which alternative an AttributeValue holds.
type AttrKind int

// The eight alternatives an AttributeValue may hold.
const (
	AttrBool AttrKind = iota
	AttrInt
	AttrDouble
	AttrString
	AttrBoolArray
	AttrIntArray
	AttrDoubleArray
	AttrStringArray
)

// String names the attribute kind, e.g. for diagnostic messages.
func (k AttrKind) String() string {
	switch k {
	case AttrBool:
		return "bool"
	case AttrInt:
		return "int"
	case AttrDouble:
		return "double"
	case AttrString:
		return "string"
	case AttrBoolArray:
		return "bool_array"
	case AttrIntArray:
		return "int_array"
	case AttrDoubleArray:
		return "double_array"
	case AttrStringArray:
		return "string_array"
	default:
		return "unknown"
	}
}

// AttributeValue is a typed, JSON-serializable parameter attached to an
// operation. It is a closed eight-variant sum type: exactly one of the
// fields matching Kind is meaningful.
type AttributeValue struct {
	Kind        AttrKind
	BoolVal     bool
	IntVal      int64
	DoubleVal   float64
	StringVal   string
	BoolArray   []bool
	IntArray    []int64
	DoubleArray []float64
	StringArray []string
}

// Bool builds a bool-valued attribute.
func Bool(v bool) AttributeValue { return AttributeValue{Kind: AttrBool, BoolVal: v} }

// Int builds an int64-valued attribute.
func Int(v int64) AttributeValue { return AttributeValue{Kind: AttrInt, IntVal: v} }

// Double builds a float64-valued attribute.
func Double(v float64) AttributeValue { return AttributeValue{Kind: AttrDouble, DoubleVal: v} }

// String builds a string-valued attribute.
func String(v string) AttributeValue { return AttributeValue{Kind: AttrString, StringVal: v} }

// BoolArrayAttr builds a []bool-valued attribute.
func BoolArrayAttr(v []bool) AttributeValue { return AttributeValue{Kind: AttrBoolArray, BoolArray: v} }

// IntArrayAttr builds a []int64-valued attribute.
func IntArrayAttr(v []int64) AttributeValue { return AttributeValue{Kind: AttrIntArray, IntArray: v} }

// DoubleArrayAttr builds a []float64-valued attribute.
func DoubleArrayAttr(v []float64) AttributeValue {
	return AttributeValue{Kind: AttrDoubleArray, DoubleArray: v}
}

// StringArrayAttr builds a []string-valued attribute.
func StringArrayAttr(v []string) AttributeValue {
	return AttributeValue{Kind: AttrStringArray, StringArray: v}
}

// IsJSONSerializable reports whether v can be round-tripped through the
// JSON attribute encoding of the importer: floating-point values (scalar or
// array) must be finite, and strings (scalar or array) must be valid UTF-8.
// Loaders and validators must call this at the input boundary.
func IsJSONSerializable(v AttributeValue) bool {
	switch v.Kind {
	case AttrDouble:
		return isFinite(v.DoubleVal)
	case AttrDoubleArray:
		for _, d := range v.DoubleArray {
			if !isFinite(d) {
				return false
			}
		}
		return true
	case AttrString:
		return isValidUTF8(v.StringVal)
	case AttrStringArray:
		for _, s := range v.StringArray {
			if !isValidUTF8(s) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

package telemetry

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrCoercion indicates a reply field passed the numeric-character test but
// failed to parse as a float. Callers treat this as a malformed reply rather
// than storing a corrupt value.
var ErrCoercion = errors.New("COERCION_FAILURE")

// Kind identifies which member of the Value union is set.
type Kind int

const (
	KindFloat Kind = iota
	KindBool
	KindString
)

// Value is the tagged union stored for every telemetry tag. Exactly one of
// Float, Bool or Str is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Float float64
	Bool  bool
	Str   string
}

// FloatValue wraps a float64.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// Interface returns the contained value as an untyped interface, for JSON
// serialization of snapshots.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Update stages one (tag, value) pair decoded from a simulator reply.
type Update struct {
	Tag   string
	Value Value
}

// Coerce converts a raw reply-field string into a typed Value.
//
// A string whose characters are all digits, '.' or '-' (with at least one
// digit) is interpreted as a float. The character test is deliberately looser
// than the float grammar: inputs like "1.2.3" or "--1" pass it and must still
// be attempted as floats, and the parse failure is then reported as
// ErrCoercion instead of being silently passed through as a string.
// "true" and "false" become booleans; anything else stays a string.
func Coerce(raw string) (Value, error) {
	if looksNumeric(raw) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid float", ErrCoercion, raw)
		}
		return FloatValue(f), nil
	}
	switch raw {
	case "true":
		return BoolValue(true), nil
	case "false":
		return BoolValue(false), nil
	}
	return StringValue(raw), nil
}

// looksNumeric reports whether every character is a digit, '.' or '-' and at
// least one digit is present. Decimal point only; no locale handling.
func looksNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}

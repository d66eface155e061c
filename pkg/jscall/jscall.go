// Package jscall renders the argument lists of generated JavaScript calls.
//
// Every operation that emits a tracking call declares a [Shape]: the text
// around the arguments and, per argument position, how the value is encoded and
// what happens when it is absent. One routine, [Shape.Render], turns a shape
// and an ordered list of values into the final call text, so the quoting and
// arity rules of each operation live in data rather than in code.
//
// A nil argument is absent. Absent arguments with the [Omit] policy are dropped
// when nothing present follows them (tail omission) and rendered as the shape's
// Placeholder otherwise (positional null). Arguments with the [Blank] policy are
// never dropped; an absent value renders as an empty value of its encoding.
package jscall

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Encoding selects how a single argument is written.
type Encoding int

const (
	// Literal writes strings single-quoted and numbers and booleans bare.
	Literal Encoding = iota
	// Quoted coerces every value to a single-quoted string ("stringified" calls).
	Quoted
	// DoubleQuoted writes strings in double quotes and other values bare.
	DoubleQuoted
	// JSON writes the JSON encoding of the value.
	JSON
	// Raw writes the value's text without quoting. Used for expressions and
	// configuration values that are already valid JavaScript.
	Raw
)

// Absent is the policy applied to a nil argument.
type Absent int

const (
	// Omit drops a trailing absent argument and replaces an interior one with
	// the shape's Placeholder.
	Omit Absent = iota
	// Blank renders an absent argument as an empty value and never drops it.
	Blank
)

// Param declares one argument position.
type Param struct {
	Name     string
	Encoding Encoding
	Absent   Absent
}

// Shape describes a call: Prefix, then the encoded arguments joined by Sep,
// then Suffix.
type Shape struct {
	Prefix      string
	Suffix      string
	Sep         string
	Placeholder string // Written for interior absent Omit arguments. Defaults to "null".
	Params      []Param
}

// Render encodes args according to the shape. Args beyond the declared params
// are ignored; missing args are absent.
func (s Shape) Render(args ...any) string {
	parts := s.Args(args...)

	var b strings.Builder
	b.WriteString(s.Prefix)
	b.WriteString(strings.Join(parts, s.Sep))
	b.WriteString(s.Suffix)

	return b.String()
}

// Args returns the encoded arguments without the surrounding text.
func (s Shape) Args(args ...any) []string {
	n := len(s.Params)

	// Find the last position that must be written: a present value or a Blank param.
	last := -1
	for i := 0; i < n; i++ {
		if i < len(args) && args[i] != nil || s.Params[i].Absent == Blank {
			last = i
		}
	}

	parts := make([]string, 0, last+1)
	for i := 0; i <= last; i++ {
		p := s.Params[i]

		var v any
		if i < len(args) {
			v = args[i]
		}

		if v == nil {
			parts = append(parts, s.absent(p))
			continue
		}

		parts = append(parts, Encode(p.Encoding, v))
	}

	return parts
}

func (s Shape) absent(p Param) string {
	if p.Absent == Blank {
		return Encode(p.Encoding, "")
	}

	if s.Placeholder == "" {
		return "null"
	}

	return s.Placeholder
}

// Encode writes a single value with the given encoding.
func Encode(e Encoding, v any) string {
	switch e {
	case Quoted:
		return SingleQuote(Text(v))
	case DoubleQuoted:
		if s, ok := v.(string); ok {
			return DoubleQuote(s)
		}
		return Text(v)
	case JSON:
		data, err := json.Marshal(v)
		if err != nil {
			return "null"
		}
		return string(data)
	case Raw:
		return Text(v)
	default:
		if s, ok := v.(string); ok {
			return SingleQuote(s)
		}
		return Text(v)
	}
}

// Text returns the unquoted textual form of a value. Floats always carry a
// decimal point so 100.0 renders as "100.0" rather than "100".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", t)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// SingleQuote wraps s in single quotes, escaping backslashes and single quotes.
func SingleQuote(s string) string {
	return "'" + escape(s, '\'') + "'"
}

// DoubleQuote wraps s in double quotes, escaping backslashes and double quotes.
func DoubleQuote(s string) string {
	return `"` + escape(s, '"') + `"`
}

func escape(s string, quote byte) string {
	if !strings.ContainsAny(s, string(quote)+`\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == quote || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}

	return b.String()
}

// Opt turns an optional pointer into an argument: nil stays absent, anything
// else is dereferenced.
func Opt[T any](p *T) any {
	if p == nil {
		return nil
	}

	return *p
}

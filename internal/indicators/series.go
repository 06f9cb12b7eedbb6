// Package indicators computes technical indicator series from daily price data.
//
// Every function returns a Series aligned 1:1 with its input by index. Entries
// inside an indicator's warm-up window are undefined rather than zero, so a
// consumer can never mistake "no value yet" for an actual reading.
package indicators

import "encoding/json"

// Value is an optional float64. The zero value is undefined.
type Value struct {
	v  float64
	ok bool
}

// Defined wraps a concrete indicator reading.
func Defined(v float64) Value {
	return Value{v: v, ok: true}
}

// Undefined is the warm-up placeholder.
var Undefined = Value{}

// Float64 returns the reading and whether it is defined.
func (v Value) Float64() (float64, bool) {
	return v.v, v.ok
}

// Defined reports whether the value holds a reading.
func (v Value) Defined() bool {
	return v.ok
}

// Or returns the reading, or fallback when undefined.
func (v Value) Or(fallback float64) float64 {
	if v.ok {
		return v.v
	}
	return fallback
}

// MarshalJSON encodes undefined values as null, matching the artifact format.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON decodes null as undefined.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}

// Series is an indicator series aligned by index with the price series that
// produced it.
type Series []Value

// FromFloats wraps raw values as a fully defined series.
func FromFloats(values []float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Defined(v)
	}
	return s
}

// At returns the value at index i, or Undefined when i is out of range.
func (s Series) At(i int) Value {
	if i < 0 || i >= len(s) {
		return Undefined
	}
	return s[i]
}

// DefinedAt reports whether index i holds a reading.
func (s Series) DefinedAt(i int) bool {
	return s.At(i).Defined()
}

// FirstDefined returns the index of the first defined entry, or -1.
func (s Series) FirstDefined() int {
	for i, v := range s {
		if v.Defined() {
			return i
		}
	}
	return -1
}

// Package synth carries witness values through the synthesis phase: raw
// values, lazily embedded cells and the synthesizer that writes them into
// the table. Nothing in this package defines constraints; it only computes
// and places the values that gates constrain.
package synth

import (
	"errors"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrUnknownValue reports a concrete read of a value that exists only as a
// shape placeholder. Defer the read to the synthesis pass.
var ErrUnknownValue = errors.New("synth: value unknown outside the synthesis pass")

// Value is a field element that may be unknown during shape-only passes.
// Immutable once created.
type Value struct {
	v     fr.Element
	known bool
}

// Known wraps a concrete field element.
func Known(v fr.Element) Value {
	return Value{v: v, known: true}
}

// KnownUint64 wraps a small constant.
func KnownUint64(x uint64) Value {
	var v fr.Element
	v.SetUint64(x)
	return Known(v)
}

// Unknown returns the shape-only placeholder.
func Unknown() Value {
	return Value{}
}

// IsKnown reports whether a concrete value is present.
func (v Value) IsKnown() bool { return v.known }

// Unwrap returns the concrete value, or ErrUnknownValue for placeholders.
func (v Value) Unwrap() (fr.Element, error) {
	if !v.known {
		return fr.Element{}, ErrUnknownValue
	}
	return v.v, nil
}

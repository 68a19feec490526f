// Package instance manages the circuit's public values: one flat,
// verifier-visible vector with hierarchical ownership. The whole circuit
// has a single Wrapper; each chip narrows it to the contiguous sub-range
// it owns and cannot reach outside that range, so sibling chips can never
// collide on a slot.
package instance

import (
	"errors"
	"fmt"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/plonk"
)

// ErrInstanceExhausted reports a narrow request larger than the remaining
// unreserved slots.
var ErrInstanceExhausted = errors.New("instance: public value slots exhausted")

// Wrapper is the circuit-wide public value registry, sized once during
// configuration. Slot indices are handed out in Narrow call order, so a
// fixed chip-construction order reproduces the same public-input layout.
type Wrapper struct {
	total int
	next  int
}

// NewWrapper registers the public vector size with the constraint system
// and returns the registry. Called exactly once per circuit.
func NewWrapper(cs *plonk.ConstraintSystem, total int) *Wrapper {
	cs.SetInstanceSize(total)
	return &Wrapper{total: total}
}

// Narrow reserves the next count slots as a chip-private view.
func (w *Wrapper) Narrow(count int) (*Narrowed, error) {
	if count < 0 {
		panic(fmt.Sprintf("instance: narrow by %d", count))
	}
	if w.next+count > w.total {
		return nil, fmt.Errorf("%w: %d requested, %d remaining of %d",
			ErrInstanceExhausted, count, w.total-w.next, w.total)
	}
	n := &Narrowed{start: w.next, count: count}
	w.next += count
	return n, nil
}

// Reserved returns the number of slots consumed so far.
func (w *Wrapper) Reserved() int { return w.next }

// Total returns the registry size.
func (w *Wrapper) Total() int { return w.total }

// Narrowed exposes get/set/constrain over one reserved sub-range of the
// public vector. Indices are relative to the range; reaching outside it is
// a programming defect and panics.
type Narrowed struct {
	start, count int
}

// Range returns the absolute start slot and the length of the view.
func (n *Narrowed) Range() (start, count int) { return n.start, n.count }

func (n *Narrowed) slot(i int) int {
	if i < 0 || i >= n.count {
		panic(fmt.Sprintf("instance: index %d outside narrowed range of %d slots", i, n.count))
	}
	return n.start + i
}

// Set writes a public value into the i-th owned slot.
func (n *Narrowed) Set(asg *plonk.Assignment, i int, v fr.Element) error {
	return asg.SetInstance(n.slot(i), v)
}

// Get reads the i-th owned slot.
func (n *Narrowed) Get(asg *plonk.Assignment, i int) fr.Element {
	return asg.Instance()[n.slot(i)]
}

// Constrain pins an embedded cell to the i-th owned slot and publishes its
// value there.
func (n *Narrowed) Constrain(asg *plonk.Assignment, i int, cell plonk.AssignedCell) error {
	if err := asg.ConstrainInstance(cell, n.slot(i)); err != nil {
		return fmt.Errorf("constraining instance slot %d: %w", n.slot(i), err)
	}
	return nil
}

package synth

import (
	"github.com/zkpool/shielder/plonk"
)

// Cell is the deferred-embedding value cell: either a raw value not yet
// part of the witness, or a value already embedded at a coordinate.
// Promotion from the former to the latter happens on first embedding, is
// one-directional, and is observed by every copy of the Cell, so a logical
// value is embedded at most once no matter how many consumers hold it.
// Consumers that only compute with the value never force an embedding.
type Cell struct {
	state *cellState
}

type cellState struct {
	value    Value
	assigned *plonk.AssignedCell
}

// FromValue wraps a raw value. No effect on the constraint system.
func FromValue(v Value) Cell {
	return Cell{state: &cellState{value: v}}
}

// FromAssigned wraps a cell that is already embedded.
func FromAssigned(ac plonk.AssignedCell) Cell {
	return Cell{state: &cellState{value: Known(ac.Value), assigned: &ac}}
}

// Value returns the carried value without touching the witness table.
func (c Cell) Value() Value {
	return c.state.value
}

// Assigned returns the embedded form, if promotion has happened.
func (c Cell) Assigned() (plonk.AssignedCell, bool) {
	if c.state.assigned == nil {
		return plonk.AssignedCell{}, false
	}
	return *c.state.assigned, true
}

// Embed places the value into the witness table, once. The first call
// writes a cell in a dedicated region; every later call returns that same
// assigned cell without another write.
func (c Cell) Embed(s *Synthesizer, name string) (plonk.AssignedCell, error) {
	if c.state.assigned != nil {
		return *c.state.assigned, nil
	}
	ac, err := s.AssignValue(name, c.state.value)
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	c.state.assigned = &ac
	return ac, nil
}

// EmbedAt binds the cell into a gate's region at the coordinate the gate
// committed to during configuration. An unpromoted cell is embedded right
// there; an already-assigned cell is re-embedded and copy-constrained
// against its canonical cell, so the value is never derived twice.
func (c Cell) EmbedAt(r *plonk.Region, column plonk.Column, offset int) (plonk.AssignedCell, error) {
	if c.state.assigned != nil {
		return r.CopyAdvice(*c.state.assigned, column, offset)
	}
	v, err := c.state.value.Unwrap()
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	ac, err := r.AssignAdvice(column, offset, v)
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	c.state.assigned = &ac
	return ac, nil
}

// Cells wraps a slice of raw values.
func Cells(vs ...Value) []Cell {
	cells := make([]Cell, len(vs))
	for i, v := range vs {
		cells[i] = FromValue(v)
	}
	return cells
}

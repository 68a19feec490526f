package plonk

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// AssignedCell is a witness value embedded at a specific cell, eligible
// for copy-constraints.
type AssignedCell struct {
	Coord Coord
	Value fr.Element
}

// Copy asserts two cells hold equal values.
type Copy struct {
	A, B Coord
}

// InstanceCopy pins a cell to a slot of the public input vector.
type InstanceCopy struct {
	Cell Coord
	Slot int
}

type columnData struct {
	values  []fr.Element
	written *bitset.BitSet
}

func (c *columnData) set(row int, v fr.Element) bool {
	if c.written.Test(uint(row)) {
		return false
	}
	for len(c.values) <= row {
		c.values = append(c.values, fr.Element{})
	}
	c.values[row] = v
	c.written.Set(uint(row))
	return true
}

func (c *columnData) get(row int) fr.Element {
	if row >= len(c.values) {
		return fr.Element{}
	}
	return c.values[row]
}

type regionInfo struct {
	Name  string
	Start int
	Rows  int
}

// Assignment is the witness table of one synthesis pass. Regions are laid
// out strictly sequentially, so a region's cells have final coordinates
// the moment it is allocated and later regions may copy-constrain against
// them. A cell is writable exactly once per pass.
type Assignment struct {
	layout *Layout

	height int
	advice []columnData
	fixed  []columnData

	instance    []fr.Element
	instanceSet *bitset.BitSet

	copies         []Copy
	instanceCopies []InstanceCopy
	regions        []regionInfo

	writes int
}

// NewAssignment returns an empty witness table for the given layout.
func NewAssignment(l *Layout) *Assignment {
	a := &Assignment{
		layout:      l,
		advice:      make([]columnData, l.NumAdvice),
		fixed:       make([]columnData, l.NumFixed),
		instance:    make([]fr.Element, l.InstanceSize),
		instanceSet: bitset.New(uint(l.InstanceSize)),
	}
	for i := range a.advice {
		a.advice[i].written = bitset.New(64)
	}
	for i := range a.fixed {
		a.fixed[i].written = bitset.New(64)
	}
	return a
}

// Layout returns the frozen layout this table is assigned against.
func (a *Assignment) Layout() *Layout { return a.layout }

// NewRegion allocates the next rows of the table as a fresh region.
func (a *Assignment) NewRegion(name string, rows int) *Region {
	if rows <= 0 {
		panic(fmt.Sprintf("plonk: region %q with %d rows", name, rows))
	}
	a.regions = append(a.regions, regionInfo{Name: name, Start: a.height, Rows: rows})
	a.height += rows
	return &Region{a: a, id: len(a.regions) - 1}
}

// Height returns the number of rows allocated so far.
func (a *Assignment) Height() int { return a.height }

// NumWrites returns the total number of cell writes in this pass.
func (a *Assignment) NumWrites() int { return a.writes }

// Written reports whether the cell at the coordinate has been written.
func (a *Assignment) Written(c Coord) bool {
	row := a.absRow(c)
	switch c.Column.Kind {
	case Advice:
		return a.advice[c.Column.Index].written.Test(uint(row))
	default:
		return a.fixed[c.Column.Index].written.Test(uint(row))
	}
}

// Copies returns the recorded copy-constraints.
func (a *Assignment) Copies() []Copy { return a.copies }

// InstanceCopies returns the recorded public-input constraints.
func (a *Assignment) InstanceCopies() []InstanceCopy { return a.instanceCopies }

// Instance returns the public input vector, ordered by slot index.
func (a *Assignment) Instance() []fr.Element { return a.instance }

// RegionName returns the diagnostic name of a region.
func (a *Assignment) RegionName(id int) string { return a.regions[id].Name }

// AbsRow translates a region-relative coordinate to an absolute table row.
func (a *Assignment) AbsRow(c Coord) int { return a.absRow(c) }

func (a *Assignment) absRow(c Coord) int {
	r := a.regions[c.Region]
	if c.Offset < 0 || c.Offset >= r.Rows {
		panic(fmt.Sprintf("plonk: offset %d outside region %q (%d rows)", c.Offset, r.Name, r.Rows))
	}
	return r.Start + c.Offset
}

// SetInstance writes a public value into its slot. Rewriting a slot with a
// different value is rejected: the public vector must match the committed
// cells bit-for-bit.
func (a *Assignment) SetInstance(slot int, v fr.Element) error {
	if slot < 0 || slot >= len(a.instance) {
		panic(fmt.Sprintf("plonk: instance slot %d out of range [0, %d)", slot, len(a.instance)))
	}
	if a.instanceSet.Test(uint(slot)) && !a.instance[slot].Equal(&v) {
		return fmt.Errorf("instance slot %d assigned twice with different values", slot)
	}
	a.instance[slot] = v
	a.instanceSet.Set(uint(slot))
	return nil
}

// ConstrainInstance pins a cell to a public slot. The slot's value is
// whatever the prover loaded with SetInstance; the checker compares the
// two, so a public vector that disagrees with the committed cells fails
// verification rather than synthesis.
func (a *Assignment) ConstrainInstance(cell AssignedCell, slot int) error {
	if slot < 0 || slot >= len(a.instance) {
		panic(fmt.Sprintf("plonk: instance slot %d out of range [0, %d)", slot, len(a.instance)))
	}
	if !a.layout.EqualityEnabled(cell.Coord.Column) {
		return fmt.Errorf("instance constraint on %v: column not equality-enabled", cell.Coord)
	}
	a.instanceCopies = append(a.instanceCopies, InstanceCopy{Cell: cell.Coord, Slot: slot})
	return nil
}

// CellValue returns the value stored at a coordinate, regardless of the
// column family.
func (a *Assignment) CellValue(c Coord) fr.Element {
	row := a.absRow(c)
	switch c.Column.Kind {
	case Advice:
		return a.advice[c.Column.Index].get(row)
	default:
		return a.fixed[c.Column.Index].get(row)
	}
}

// QueryAdvice implements expr.Table. Rows wrap around the table height.
func (a *Assignment) QueryAdvice(column, row int) fr.Element {
	return a.advice[column].get(a.wrap(row))
}

// QueryFixed implements expr.Table. Rows wrap around the table height.
func (a *Assignment) QueryFixed(column, row int) fr.Element {
	return a.fixed[column].get(a.wrap(row))
}

func (a *Assignment) wrap(row int) int {
	if a.height == 0 {
		return 0
	}
	return ((row % a.height) + a.height) % a.height
}

func (a *Assignment) setCell(c Coord, v fr.Element) error {
	row := a.absRow(c)
	var ok bool
	switch c.Column.Kind {
	case Advice:
		ok = a.advice[c.Column.Index].set(row, v)
	case Fixed:
		ok = a.fixed[c.Column.Index].set(row, v)
	}
	if !ok {
		return fmt.Errorf("%w: %v (region %q)", ErrCellOverwritten, c, a.regions[c.Region].Name)
	}
	a.writes++
	return nil
}

// Region is a write handle to one allocated region.
type Region struct {
	a  *Assignment
	id int
}

// ID returns the region's identifier within its assignment.
func (r *Region) ID() int { return r.id }

// AssignAdvice writes a witness value at (column, offset).
func (r *Region) AssignAdvice(column Column, offset int, v fr.Element) (AssignedCell, error) {
	if column.Kind != Advice {
		panic(fmt.Sprintf("plonk: AssignAdvice on %v", column))
	}
	coord := Coord{Region: r.id, Column: column, Offset: offset}
	if err := r.a.setCell(coord, v); err != nil {
		return AssignedCell{}, err
	}
	return AssignedCell{Coord: coord, Value: v}, nil
}

// AssignFixed writes a fixed value at (column, offset).
func (r *Region) AssignFixed(column Column, offset int, v fr.Element) (AssignedCell, error) {
	if column.Kind != Fixed {
		panic(fmt.Sprintf("plonk: AssignFixed on %v", column))
	}
	coord := Coord{Region: r.id, Column: column, Offset: offset}
	if err := r.a.setCell(coord, v); err != nil {
		return AssignedCell{}, err
	}
	return AssignedCell{Coord: coord, Value: v}, nil
}

// CopyAdvice re-embeds an already assigned cell at (column, offset) and
// copy-constrains the two cells, halo2's copy_advice.
func (r *Region) CopyAdvice(from AssignedCell, column Column, offset int) (AssignedCell, error) {
	if !r.a.layout.EqualityEnabled(from.Coord.Column) || !r.a.layout.EqualityEnabled(column) {
		return AssignedCell{}, fmt.Errorf("copy between %v and %v: equality not enabled", from.Coord.Column, column)
	}
	cell, err := r.AssignAdvice(column, offset, from.Value)
	if err != nil {
		return AssignedCell{}, err
	}
	r.a.copies = append(r.a.copies, Copy{A: from.Coord, B: cell.Coord})
	return cell, nil
}

// ConstrainEqual records a copy-constraint between two assigned cells.
func (r *Region) ConstrainEqual(a, b AssignedCell) error {
	if !r.a.layout.EqualityEnabled(a.Coord.Column) || !r.a.layout.EqualityEnabled(b.Coord.Column) {
		return fmt.Errorf("copy between %v and %v: equality not enabled", a.Coord.Column, b.Coord.Column)
	}
	r.a.copies = append(r.a.copies, Copy{A: a.Coord, B: b.Coord})
	return nil
}

// EnableSelector activates a selector at the given row offset by storing
// its group encoding in the shared fixed column. Two selectors of one
// group colliding on a row surface as a double write here, the dynamic
// counterpart of the static compression check.
func (r *Region) EnableSelector(sel Selector, offset int) error {
	slot := r.a.layout.Selectors[sel.Index]
	var v fr.Element
	v.SetUint64(slot.Value)
	coord := Coord{Region: r.id, Column: slot.Column, Offset: offset}
	if err := r.a.setCell(coord, v); err != nil {
		return fmt.Errorf("enabling selector s%d: %w", sel.Index, err)
	}
	return nil
}

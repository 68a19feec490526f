// Package plonk is the interface boundary to the PLONK-style proving
// backend: column and selector allocation, gate registration, region-based
// witness assignment and the frozen circuit layout. The concrete table
// implementation here is prover-development grade (the moral equivalent of
// halo2's MockProver); the commitment scheme behind it is out of scope.
package plonk

import "fmt"

// ColumnKind distinguishes the two committed column families. Public
// instance values live in a single flat vector, not in a column.
type ColumnKind uint8

const (
	Advice ColumnKind = iota
	Fixed
)

func (k ColumnKind) String() string {
	switch k {
	case Advice:
		return "advice"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("ColumnKind(%d)", uint8(k))
	}
}

// Column identifies one committed column of the table.
type Column struct {
	Kind  ColumnKind
	Index int
}

func (c Column) String() string {
	return fmt.Sprintf("%s[%d]", c.Kind, c.Index)
}

// Selector is a handle to a virtual selector. Selectors have no column of
// their own until layout finalization maps them (possibly several to one)
// onto fixed columns.
type Selector struct {
	Index int
}

// Coord addresses one witness cell: a row offset within a region of a
// column. Two assigned cells with equal Coord are the same physical cell.
type Coord struct {
	Region int
	Column Column
	Offset int
}

func (c Coord) String() string {
	return fmt.Sprintf("region %d, %s, offset %d", c.Region, c.Column, c.Offset)
}

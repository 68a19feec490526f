package plonk

import "fmt"

// ColumnPool hands out shared columns during the configuration phase.
// Chips request capacity rather than owning columns outright, so sibling
// chips reuse the same physical columns. The pool is bounded; blowing the
// bound is a chip-composition defect, not something to retry.
type ColumnPool struct {
	kind  ColumnKind
	limit int
	cols  []Column
}

// NewAdvicePool returns a pool of advice columns, each equality-enabled on
// allocation, capped at limit columns.
func NewAdvicePool(limit int) *ColumnPool {
	return &ColumnPool{kind: Advice, limit: limit}
}

// NewFixedPool returns a pool of fixed columns capped at limit columns.
func NewFixedPool(limit int) *ColumnPool {
	return &ColumnPool{kind: Fixed, limit: limit}
}

// EnsureCapacity grows the pool to at least n columns, registering new ones
// in cs. Fails with ErrResourceExhausted when n exceeds the pool bound.
func (p *ColumnPool) EnsureCapacity(cs *ConstraintSystem, n int) error {
	if n > p.limit {
		return fmt.Errorf("%w: %s pool asked for %d columns, limit %d",
			ErrResourceExhausted, p.kind, n, p.limit)
	}
	for len(p.cols) < n {
		var c Column
		switch p.kind {
		case Advice:
			c = cs.AdviceColumn()
			cs.EnableEquality(c)
		case Fixed:
			c = cs.FixedColumn()
		}
		p.cols = append(p.cols, c)
	}
	return nil
}

// Column returns the pooled column at index i.
func (p *ColumnPool) Column(i int) Column {
	return p.cols[i]
}

// Columns returns the first n pooled columns.
func (p *ColumnPool) Columns(n int) []Column {
	return p.cols[:n]
}

// Len returns the current number of pooled columns.
func (p *ColumnPool) Len() int { return len(p.cols) }

// Conclude freezes the pool for the synthesis phase. The configuration
// pool must not be used afterwards.
func (p *ColumnPool) Conclude() *SynthPool {
	cols := make([]Column, len(p.cols))
	copy(cols, p.cols)
	return &SynthPool{cols: cols}
}

// SynthPool is the read-only synthesis-phase view of a column pool. GetAny
// rotates through the columns so that throwaway single-cell regions spread
// across the table instead of piling onto one column.
type SynthPool struct {
	cols []Column
	next int
}

// GetAny returns some pooled column; consecutive calls rotate.
func (p *SynthPool) GetAny() Column {
	c := p.cols[p.next]
	p.next = (p.next + 1) % len(p.cols)
	return c
}

// Column returns the pooled column at index i.
func (p *SynthPool) Column(i int) Column {
	return p.cols[i]
}

// Len returns the number of pooled columns.
func (p *SynthPool) Len() int { return len(p.cols) }

package plonk

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/zkpool/shielder/expr"
)

// Selector compression packs several selectors into one fixed column. A
// group of k selectors shares a column holding 0 (none active) or the
// 1-based position of the active selector; every selector query is then
// rewritten into a polynomial that vanishes unless its own position is
// stored. The pass is purely static: it reasons from the region shapes
// gates registered at configuration time, and it runs after all chips are
// configured, never interleaved with them.

// conflictGraph returns, per selector, the set of selectors that some
// region shape can activate on the same row.
func conflictGraph(cs *ConstraintSystem) []*bitset.BitSet {
	n := cs.NumSelectors()
	conflicts := make([]*bitset.BitSet, n)
	for i := range conflicts {
		conflicts[i] = bitset.New(uint(n))
	}
	for _, shape := range cs.shapes {
		rows := make(map[int][]Selector)
		for sel, offsets := range shape.Activations {
			for _, off := range offsets {
				rows[off] = append(rows[off], sel)
			}
		}
		for _, sels := range rows {
			for _, a := range sels {
				for _, b := range sels {
					if a.Index != b.Index {
						conflicts[a.Index].Set(uint(b.Index))
					}
				}
			}
		}
	}
	return conflicts
}

// groupSelectors partitions all selectors into conflict-free groups,
// first-fit in selector index order so the grouping is deterministic.
func groupSelectors(cs *ConstraintSystem) [][]int {
	conflicts := conflictGraph(cs)
	var groups [][]int
next:
	for s := 0; s < cs.NumSelectors(); s++ {
		for gi, group := range groups {
			ok := true
			for _, member := range group {
				if conflicts[s].Test(uint(member)) {
					ok = false
					break
				}
			}
			if ok {
				groups[gi] = append(groups[gi], s)
				continue next
			}
		}
		groups = append(groups, []int{s})
	}
	return groups
}

// validateGroups re-checks a grouping against the conflict graph. Manual
// groupings go through the same check as the automatic pass.
func validateGroups(cs *ConstraintSystem, groups [][]int) error {
	conflicts := conflictGraph(cs)
	seen := make([]bool, cs.NumSelectors())
	for _, group := range groups {
		for i, a := range group {
			if a < 0 || a >= cs.NumSelectors() {
				return fmt.Errorf("%w: unknown selector s%d in group", ErrSelectorCompressionConflict, a)
			}
			if seen[a] {
				return fmt.Errorf("%w: selector s%d (%s) appears in two groups",
					ErrSelectorCompressionConflict, a, cs.selectorOwner(Selector{Index: a}))
			}
			seen[a] = true
			for _, b := range group[i+1:] {
				if conflicts[a].Test(uint(b)) {
					return fmt.Errorf("%w: s%d (%s) and s%d (%s) can be active on the same row",
						ErrSelectorCompressionConflict,
						a, cs.selectorOwner(Selector{Index: a}),
						b, cs.selectorOwner(Selector{Index: b}))
				}
			}
		}
	}
	for s, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: selector s%d (%s) missing from grouping",
				ErrSelectorCompressionConflict, s, cs.selectorOwner(Selector{Index: s}))
		}
	}
	return nil
}

// uncompressedGroups puts every selector in its own group.
func uncompressedGroups(cs *ConstraintSystem) [][]int {
	groups := make([][]int, cs.NumSelectors())
	for s := range groups {
		groups[s] = []int{s}
	}
	return groups
}

// selectorReplacement builds the query standing in for a selector after
// compression: for a singleton group the raw fixed-column query, otherwise
// q * prod_{j != v} (q - j) over the group column q, which is nonzero
// exactly when the column holds the selector's own position v.
func selectorReplacement(column Column, position, groupSize int) expr.Expression {
	q := expr.Fixed{Column: column.Index, Rotation: 0}
	if groupSize == 1 {
		return q
	}
	factors := []expr.Expression{q}
	for j := 1; j <= groupSize; j++ {
		if j == position {
			continue
		}
		factors = append(factors, expr.Sub(q, expr.NewConstant(uint64(j))))
	}
	return expr.Mul(factors...)
}

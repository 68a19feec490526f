package plonk

import (
	"fmt"

	"github.com/zkpool/shielder/expr"
	"github.com/zkpool/shielder/utils"
)

// ConstraintSystem accumulates the fixed description of a circuit during
// the configuration phase: columns, selectors, gate polynomials and the
// static region shapes gates commit to. It is mutated only while
// configuring; Finalize freezes it into a Layout.
type ConstraintSystem struct {
	numAdvice int
	numFixed  int

	equality map[Column]bool

	selectors []selectorInfo
	gates     []gateInfo
	shapes    []RegionShape

	instanceSize int

	// registered constraint polynomials, for duplicate detection
	polys      utils.Map
	duplicates []string
}

type selectorInfo struct {
	owner string
}

type gateInfo struct {
	name     string
	selector Selector
	// polynomials scaled by the selector query; zero over the whole
	// table when the selector is off
	polys []expr.Expression
}

// RegionShape is a gate's configure-time commitment to the rows its
// selectors can activate within one region. The compression pass reasons
// about selector co-activation purely from these shapes.
type RegionShape struct {
	Gate        string
	Rows        int
	Activations map[Selector][]int
}

// NewConstraintSystem returns an empty system.
func NewConstraintSystem() *ConstraintSystem {
	return &ConstraintSystem{
		equality: make(map[Column]bool),
		polys:    make(utils.Map),
	}
}

// AdviceColumn registers a fresh advice column.
func (cs *ConstraintSystem) AdviceColumn() Column {
	c := Column{Kind: Advice, Index: cs.numAdvice}
	cs.numAdvice++
	return c
}

// FixedColumn registers a fresh fixed column.
func (cs *ConstraintSystem) FixedColumn() Column {
	c := Column{Kind: Fixed, Index: cs.numFixed}
	cs.numFixed++
	return c
}

// EnableEquality makes a column eligible for copy-constraints.
func (cs *ConstraintSystem) EnableEquality(c Column) {
	cs.equality[c] = true
}

// NewSelector registers a fresh virtual selector owned by the named gate.
func (cs *ConstraintSystem) NewSelector(owner string) Selector {
	s := Selector{Index: len(cs.selectors)}
	cs.selectors = append(cs.selectors, selectorInfo{owner: owner})
	return s
}

// CreateGate registers one gate: each polynomial is scaled by the selector
// query so that it vanishes on every row where the selector is off. The
// polynomials must be pure data over columns and selectors; they are never
// functions of a particular witness.
func (cs *ConstraintSystem) CreateGate(name string, sel Selector, polys ...expr.Expression) {
	if len(polys) == 0 {
		panic(fmt.Sprintf("plonk: gate %q registered without constraints", name))
	}
	scaled := make([]expr.Expression, len(polys))
	for i, p := range polys {
		if prev, ok := cs.polys.Find(p); ok {
			cs.duplicates = append(cs.duplicates,
				fmt.Sprintf("%s duplicates a constraint of %s", name, prev.(string)))
		} else {
			cs.polys.Set(p, name)
		}
		scaled[i] = expr.Mul(expr.Selector{Index: sel.Index}, p)
	}
	cs.gates = append(cs.gates, gateInfo{name: name, selector: sel, polys: scaled})
}

// RegisterShape records the region shape a gate will use during synthesis.
func (cs *ConstraintSystem) RegisterShape(shape RegionShape) {
	for sel, offsets := range shape.Activations {
		if sel.Index >= len(cs.selectors) {
			panic(fmt.Sprintf("plonk: shape of %q references unknown selector s%d", shape.Gate, sel.Index))
		}
		for _, off := range offsets {
			if off < 0 || off >= shape.Rows {
				panic(fmt.Sprintf("plonk: shape of %q activates s%d outside its %d rows", shape.Gate, sel.Index, shape.Rows))
			}
		}
	}
	cs.shapes = append(cs.shapes, shape)
}

// SetInstanceSize records the total number of public value slots. Called
// exactly once per circuit, by the instance wrapper.
func (cs *ConstraintSystem) SetInstanceSize(n int) {
	if cs.instanceSize != 0 {
		panic("plonk: instance size set twice")
	}
	cs.instanceSize = n
}

// DuplicatePolys lists constraint polynomials registered more than once,
// an audit aid surfaced by the config builder's logs.
func (cs *ConstraintSystem) DuplicatePolys() []string {
	return cs.duplicates
}

// NumAdvice returns the number of advice columns registered so far.
func (cs *ConstraintSystem) NumAdvice() int { return cs.numAdvice }

// NumFixed returns the number of fixed columns registered so far.
func (cs *ConstraintSystem) NumFixed() int { return cs.numFixed }

// NumSelectors returns the number of virtual selectors registered so far.
func (cs *ConstraintSystem) NumSelectors() int { return len(cs.selectors) }

func (cs *ConstraintSystem) selectorOwner(s Selector) string {
	return cs.selectors[s.Index].owner
}

package gates

import (
	"fmt"

	"github.com/zkpool/shielder/expr"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

const membershipGateName = "membership"

// MembershipGate enforces that the needle equals one of N haystack cells:
// (needle - haystack_1) * ... * (needle - haystack_N) = 0 on one row.
type MembershipGate struct {
	needle   plonk.Column
	haystack []plonk.Column
	selector plonk.Selector
}

// MembershipCells are the embedded cells of one application.
type MembershipCells struct {
	Needle   plonk.AssignedCell
	Haystack []plonk.AssignedCell
}

// NewMembershipGate registers the gate; the needle column and every
// haystack column must be distinct.
func NewMembershipGate(cs *plonk.ConstraintSystem, needle plonk.Column, haystack []plonk.Column) MembershipGate {
	all := append([]plonk.Column{needle}, haystack...)
	ensureUniqueColumns(membershipGateName, all)

	g := MembershipGate{needle: needle, haystack: haystack}
	g.selector = cs.NewSelector(membershipGateName)

	factors := make([]expr.Expression, len(haystack))
	for i, h := range haystack {
		factors[i] = expr.Sub(cur(g.needle), cur(h))
	}
	cs.CreateGate(membershipGateName, g.selector, expr.Mul(factors...))
	cs.RegisterShape(plonk.RegionShape{
		Gate:        membershipGateName,
		Rows:        1,
		Activations: map[plonk.Selector][]int{g.selector: {0}},
	})
	return g
}

func (g MembershipGate) Name() string             { return membershipGateName }
func (g MembershipGate) Selector() plonk.Selector { return g.selector }

// Arity returns the configured haystack size.
func (g MembershipGate) Arity() int { return len(g.haystack) }

// Apply embeds the needle and haystack cells and activates the constraint.
// Supplying a haystack of a different size than configured is fatal.
func (g MembershipGate) Apply(s *synth.Synthesizer, needle synth.Cell, haystack []synth.Cell) (MembershipCells, error) {
	if len(haystack) != len(g.haystack) {
		panic(LayoutMismatch{
			Gate:   membershipGateName,
			Detail: fmt.Sprintf("configured for %d haystack cells, got %d", len(g.haystack), len(haystack)),
		})
	}
	region := s.NewRegion(membershipGateName, 1)
	if err := region.EnableSelector(g.selector, 0); err != nil {
		return MembershipCells{}, err
	}
	var out MembershipCells
	var err error
	if out.Needle, err = needle.EmbedAt(region, g.needle, 0); err != nil {
		return MembershipCells{}, err
	}
	out.Haystack = make([]plonk.AssignedCell, len(haystack))
	for i, h := range haystack {
		if out.Haystack[i], err = h.EmbedAt(region, g.haystack[i], 0); err != nil {
			return MembershipCells{}, err
		}
	}
	return out, nil
}

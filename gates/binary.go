package gates

import (
	"github.com/zkpool/shielder/expr"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

const isBinaryGateName = "is_binary"

// IsBinaryGate enforces bit * (bit - 1) = 0 on one row.
type IsBinaryGate struct {
	bit      plonk.Column
	selector plonk.Selector
}

// NewIsBinaryGate registers the gate on a single advice column.
func NewIsBinaryGate(cs *plonk.ConstraintSystem, bit plonk.Column) IsBinaryGate {
	g := IsBinaryGate{bit: bit}
	g.selector = cs.NewSelector(isBinaryGateName)
	cs.CreateGate(isBinaryGateName, g.selector,
		expr.Mul(cur(g.bit), expr.Sub(cur(g.bit), expr.NewConstant(1))))
	cs.RegisterShape(plonk.RegionShape{
		Gate:        isBinaryGateName,
		Rows:        1,
		Activations: map[plonk.Selector][]int{g.selector: {0}},
	})
	return g
}

func (g IsBinaryGate) Name() string             { return isBinaryGateName }
func (g IsBinaryGate) Selector() plonk.Selector { return g.selector }

// Apply embeds the bit cell and activates the constraint.
func (g IsBinaryGate) Apply(s *synth.Synthesizer, bit synth.Cell) (plonk.AssignedCell, error) {
	region := s.NewRegion(isBinaryGateName, 1)
	if err := region.EnableSelector(g.selector, 0); err != nil {
		return plonk.AssignedCell{}, err
	}
	return bit.EmbedAt(region, g.bit, 0)
}

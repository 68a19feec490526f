package gates

import (
	"github.com/zkpool/shielder/expr"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

const sumGateName = "sum"

// SumGate enforces summandA + summandB = sum on one row across three
// advice columns.
type SumGate struct {
	summandA plonk.Column
	summandB plonk.Column
	sum      plonk.Column
	selector plonk.Selector
}

// SumCells are the embedded cells a sum gate application produced.
type SumCells struct {
	SummandA plonk.AssignedCell
	SummandB plonk.AssignedCell
	Sum      plonk.AssignedCell
}

// NewSumGate registers the gate over three distinct advice columns.
func NewSumGate(cs *plonk.ConstraintSystem, cols [3]plonk.Column) SumGate {
	ensureUniqueColumns(sumGateName, cols[:])
	g := SumGate{summandA: cols[0], summandB: cols[1], sum: cols[2]}
	g.selector = cs.NewSelector(sumGateName)
	cs.CreateGate(sumGateName, g.selector,
		expr.Sub(expr.Add(cur(g.summandA), cur(g.summandB)), cur(g.sum)))
	cs.RegisterShape(plonk.RegionShape{
		Gate:        sumGateName,
		Rows:        1,
		Activations: map[plonk.Selector][]int{g.selector: {0}},
	})
	return g
}

func (g SumGate) Name() string            { return sumGateName }
func (g SumGate) Selector() plonk.Selector { return g.selector }

// Apply embeds the three cells in a fresh region and activates the
// constraint. The sum value itself is computed by the calling chip; the
// gate only pins the relation.
func (g SumGate) Apply(s *synth.Synthesizer, summandA, summandB, sum synth.Cell) (SumCells, error) {
	region := s.NewRegion(sumGateName, 1)
	if err := region.EnableSelector(g.selector, 0); err != nil {
		return SumCells{}, err
	}
	var out SumCells
	var err error
	if out.SummandA, err = summandA.EmbedAt(region, g.summandA, 0); err != nil {
		return SumCells{}, err
	}
	if out.SummandB, err = summandB.EmbedAt(region, g.summandB, 0); err != nil {
		return SumCells{}, err
	}
	if out.Sum, err = sum.EmbedAt(region, g.sum, 0); err != nil {
		return SumCells{}, err
	}
	return out, nil
}

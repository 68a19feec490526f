package gates

import (
	"fmt"
	"math/big"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/expr"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

const rangeCheckGateName = "range_check"

// RangeCheckGate proves value < 2^numBits with a running-sum bit
// decomposition over a multi-row region: row r holds one bit and the
// accumulator so far, with acc_{r+1} = 2*acc_r + bit_r and every bit
// binary. The first accumulator is pinned to zero and the last one to the
// checked value.
type RangeCheckGate struct {
	bit      plonk.Column
	acc      plonk.Column
	numBits  int
	selector plonk.Selector
}

// NewRangeCheckGate registers the gate for a fixed bit width.
func NewRangeCheckGate(cs *plonk.ConstraintSystem, bit, acc plonk.Column, numBits int) RangeCheckGate {
	ensureUniqueColumns(rangeCheckGateName, []plonk.Column{bit, acc})
	if numBits <= 0 {
		panic(fmt.Sprintf("gate %q: %d bits", rangeCheckGateName, numBits))
	}
	g := RangeCheckGate{bit: bit, acc: acc, numBits: numBits}
	g.selector = cs.NewSelector(rangeCheckGateName)
	cs.CreateGate(rangeCheckGateName, g.selector,
		expr.Sub(next(g.acc), expr.Add(expr.Scaled{E: cur(g.acc), C: two()}, cur(g.bit))),
		expr.Mul(cur(g.bit), expr.Sub(cur(g.bit), expr.NewConstant(1))),
	)
	offsets := make([]int, numBits)
	for i := range offsets {
		offsets[i] = i
	}
	cs.RegisterShape(plonk.RegionShape{
		Gate:        rangeCheckGateName,
		Rows:        numBits + 1,
		Activations: map[plonk.Selector][]int{g.selector: offsets},
	})
	return g
}

func (g RangeCheckGate) Name() string             { return rangeCheckGateName }
func (g RangeCheckGate) Selector() plonk.Selector { return g.selector }

// NumBits returns the configured bit width.
func (g RangeCheckGate) NumBits() int { return g.numBits }

// Apply decomposes the value into bits, fills the running-sum region and
// pins its ends. It fails when the value does not fit the configured
// width; for an honest prover that means the transaction itself is
// invalid (e.g. an overdraft).
func (g RangeCheckGate) Apply(s *synth.Synthesizer, value synth.Cell) error {
	v, err := value.Value().Unwrap()
	if err != nil {
		return err
	}
	b := v.BigInt(new(big.Int))
	if b.BitLen() > g.numBits {
		return fmt.Errorf("range check: value needs %d bits, gate allows %d", b.BitLen(), g.numBits)
	}

	region := s.NewRegion(rangeCheckGateName, g.numBits+1)
	var acc fr.Element
	var accFirst plonk.AssignedCell
	for r := 0; r < g.numBits; r++ {
		if err := region.EnableSelector(g.selector, r); err != nil {
			return err
		}
		accCell, err := region.AssignAdvice(g.acc, r, acc)
		if err != nil {
			return err
		}
		if r == 0 {
			accFirst = accCell
		}
		var bit fr.Element
		bit.SetUint64(uint64(b.Bit(g.numBits - 1 - r)))
		if _, err := region.AssignAdvice(g.bit, r, bit); err != nil {
			return err
		}
		acc.Double(&acc).Add(&acc, &bit)
	}

	// last accumulator row carries the checked value itself
	if _, err := value.EmbedAt(region, g.acc, g.numBits); err != nil {
		return err
	}

	zero, err := s.AssignConstant("zero", fr.Element{})
	if err != nil {
		return err
	}
	return region.ConstrainEqual(accFirst, zero)
}

func two() fr.Element {
	var v fr.Element
	v.SetUint64(2)
	return v
}

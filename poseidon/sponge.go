package poseidon

import (
	"errors"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/gates"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

var errEmptyHash = errors.New("poseidon: hash of zero inputs")

// Sponge hashes a variable number of cells in-circuit, mirroring the
// off-circuit Hash: rate 2, capacity seeded with the input count, one
// permutation per absorbed block. Inputs beyond the first block are folded
// into the running state through sum gates.
type Sponge struct {
	perm Chip
	sum  gates.SumGate
}

// NewSponge assembles a sponge from an existing permutation chip and sum
// gate, both already registered with the constraint system.
func NewSponge(perm Chip, sum gates.SumGate) Sponge {
	return Sponge{perm: perm, sum: sum}
}

// Hash absorbs the inputs and returns the cell holding the digest.
func (sp Sponge) Hash(s *synth.Synthesizer, inputs []synth.Cell) (plonk.AssignedCell, error) {
	if len(inputs) == 0 {
		return plonk.AssignedCell{}, errEmptyHash
	}
	var lenF fr.Element
	lenF.SetUint64(uint64(len(inputs)))
	capCell, err := s.AssignConstant("hash_len", lenF)
	if err != nil {
		return plonk.AssignedCell{}, err
	}

	var state [Width]synth.Cell
	state[0] = inputs[0]
	if len(inputs) > 1 {
		state[1] = inputs[1]
	} else {
		zero, err := s.AssignConstant("zero", fr.Element{})
		if err != nil {
			return plonk.AssignedCell{}, err
		}
		state[1] = synth.FromAssigned(zero)
	}
	state[2] = synth.FromAssigned(capCell)

	out, err := sp.perm.Permute(s, state)
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	for i := 2; i < len(inputs); i += 2 {
		state[0], err = sp.absorb(s, out[0], inputs[i])
		if err != nil {
			return plonk.AssignedCell{}, err
		}
		if i+1 < len(inputs) {
			state[1], err = sp.absorb(s, out[1], inputs[i+1])
			if err != nil {
				return plonk.AssignedCell{}, err
			}
		} else {
			state[1] = synth.FromAssigned(out[1])
		}
		state[2] = synth.FromAssigned(out[2])
		out, err = sp.perm.Permute(s, state)
		if err != nil {
			return plonk.AssignedCell{}, err
		}
	}
	return out[0], nil
}

// absorb adds one input into a state lane and returns the pinned sum.
func (sp Sponge) absorb(s *synth.Synthesizer, lane plonk.AssignedCell, in synth.Cell) (synth.Cell, error) {
	inVal, err := in.Value().Unwrap()
	if err != nil {
		return synth.Cell{}, err
	}
	var sumVal fr.Element
	sumVal.Add(&lane.Value, &inVal)
	cells, err := sp.sum.Apply(s, synth.FromAssigned(lane), in, synth.FromValue(synth.Known(sumVal)))
	if err != nil {
		return synth.Cell{}, err
	}
	return synth.FromAssigned(cells.Sum), nil
}

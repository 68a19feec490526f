package poseidon

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Hash absorbs the inputs into a rate-2 sponge and squeezes one element.
// The capacity lane is seeded with the input count for domain separation,
// so hashes of different arities never collide structurally. The circuit
// sponge (Sponge.Hash) enforces exactly this computation.
func Hash(inputs ...fr.Element) fr.Element {
	if len(inputs) == 0 {
		panic("poseidon: hash of zero inputs")
	}
	var state [Width]fr.Element
	state[2].SetUint64(uint64(len(inputs)))

	p := permutation()
	for i := 0; i < len(inputs); i += 2 {
		state[0].Add(&state[0], &inputs[i])
		if i+1 < len(inputs) {
			state[1].Add(&state[1], &inputs[i+1])
		}
		if err := p.Permutation(state[:]); err != nil {
			panic(err)
		}
	}
	return state[0]
}

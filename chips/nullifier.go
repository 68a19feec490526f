package chips

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/poseidon"
	"github.com/zkpool/shielder/synth"
)

// NullifierHash is the value revealed on spend: H(nullifier). The pool
// rejects a repeated hash, which makes double-spending a note detectable
// without linking it to the note itself.
func NullifierHash(nullifier fr.Element) fr.Element {
	return poseidon.Hash(nullifier)
}

// NullifierChip derives the revealed nullifier hash in-circuit.
type NullifierChip struct {
	sponge poseidon.Sponge
}

func NewNullifierChip(sponge poseidon.Sponge) NullifierChip {
	return NullifierChip{sponge: sponge}
}

func (c NullifierChip) Reveal(s *synth.Synthesizer, nullifier synth.Cell) (plonk.AssignedCell, error) {
	return c.sponge.Hash(s, []synth.Cell{nullifier})
}

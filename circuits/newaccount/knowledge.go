// Package newaccount proves that a freshly created account note is well
// formed: the published commitment hashes the prover's secrets together
// with the exact published deposit, and the published id commitment hides
// the same id the note uses.
package newaccount

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/poseidon"
	"github.com/zkpool/shielder/synth"
)

// Knowledge is the private witness of account creation.
type Knowledge struct {
	ID             fr.Element
	Nullifier      fr.Element
	Trapdoor       fr.Element
	InitialDeposit fr.Element
}

// RandomKnowledge draws random secrets and a deposit of one.
func RandomKnowledge() (*Knowledge, error) {
	var k Knowledge
	for _, f := range []*fr.Element{&k.ID, &k.Nullifier, &k.Trapdoor} {
		if _, err := f.SetRandom(); err != nil {
			return nil, err
		}
	}
	k.InitialDeposit.SetOne()
	return &k, nil
}

func (k *Knowledge) note() chips.Note {
	return chips.Note{
		ID:        k.ID,
		Nullifier: k.Nullifier,
		Trapdoor:  k.Trapdoor,
		Balance:   k.InitialDeposit,
	}
}

func (k *Knowledge) PublicInputs() []fr.Element {
	out := make([]fr.Element, NumPublicInputs)
	out[SlotHashedNote] = k.note().Hash()
	out[SlotHashedID] = poseidon.Hash(k.ID)
	out[SlotInitialDeposit] = k.InitialDeposit
	return out
}

func (k *Knowledge) CreateCircuit() circuits.Circuit {
	return &Circuit{
		id:             synth.Known(k.ID),
		nullifier:      synth.Known(k.Nullifier),
		trapdoor:       synth.Known(k.Trapdoor),
		initialDeposit: synth.Known(k.InitialDeposit),
	}
}

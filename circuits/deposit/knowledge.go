// Package deposit proves a balance increase: the prover owns a note in
// the tree, reveals its nullifier hash and publishes a new note whose
// balance grew by exactly the published deposit value.
package deposit

import (
	"math/rand"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/circuits/merkle"
	"github.com/zkpool/shielder/synth"
)

// Knowledge is the private witness of a deposit.
type Knowledge struct {
	ID           fr.Element
	OldNullifier fr.Element
	OldTrapdoor  fr.Element
	OldBalance   fr.Element

	Path [merkle.TreeHeight]chips.MerkleLevel

	NewNullifier fr.Element
	NewTrapdoor  fr.Element
	DepositValue fr.Element
}

// RandomKnowledge draws a random account, places its note in a random
// tree path and deposits a random value.
func RandomKnowledge(rng *rand.Rand) (*Knowledge, error) {
	var k Knowledge
	for _, f := range []*fr.Element{
		&k.ID, &k.OldNullifier, &k.OldTrapdoor, &k.OldBalance,
		&k.NewNullifier, &k.NewTrapdoor, &k.DepositValue,
	} {
		if _, err := f.SetRandom(); err != nil {
			return nil, err
		}
	}
	siblings := make([]fr.Element, merkle.TreeHeight)
	positions := make([]int, merkle.TreeHeight)
	for i := range siblings {
		if _, err := siblings[i].SetRandom(); err != nil {
			return nil, err
		}
		positions[i] = rng.Intn(chips.MerkleArity)
	}
	copy(k.Path[:], chips.MerklePath(k.OldNote().Hash(), siblings, positions))
	return &k, nil
}

// OldNote is the note being spent.
func (k *Knowledge) OldNote() chips.Note {
	return chips.Note{
		ID:        k.ID,
		Nullifier: k.OldNullifier,
		Trapdoor:  k.OldTrapdoor,
		Balance:   k.OldBalance,
	}
}

// NewNote is the note replacing it, with the deposit added.
func (k *Knowledge) NewNote() chips.Note {
	var balance fr.Element
	balance.Add(&k.OldBalance, &k.DepositValue)
	return chips.Note{
		ID:        k.ID,
		Nullifier: k.NewNullifier,
		Trapdoor:  k.NewTrapdoor,
		Balance:   balance,
	}
}

func (k *Knowledge) PublicInputs() []fr.Element {
	out := make([]fr.Element, NumPublicInputs)
	out[SlotMerkleRoot] = chips.MerkleRoot(k.Path[:])
	out[SlotHashedOldNullifier] = chips.NullifierHash(k.OldNullifier)
	out[SlotNewNoteHash] = k.NewNote().Hash()
	out[SlotDepositValue] = k.DepositValue
	return out
}

func (k *Knowledge) CreateCircuit() circuits.Circuit {
	c := &Circuit{
		id:           synth.Known(k.ID),
		oldNullifier: synth.Known(k.OldNullifier),
		oldTrapdoor:  synth.Known(k.OldTrapdoor),
		oldBalance:   synth.Known(k.OldBalance),
		newNullifier: synth.Known(k.NewNullifier),
		newTrapdoor:  synth.Known(k.NewTrapdoor),
		depositValue: synth.Known(k.DepositValue),
	}
	for i, level := range k.Path {
		for j, v := range level {
			c.path[i][j] = synth.Known(v)
		}
	}
	return c
}

// Package withdraw proves a balance decrease: the prover owns a note in
// the tree, reveals its nullifier hash, publishes a new note whose
// balance shrank by exactly the published value, and shows the remaining
// balance did not wrap around the field. A free-form commitment slot
// binds extra-circuit data (relayer fee terms, destination address) to
// the proof.
package withdraw

import (
	"math/rand"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/circuits/merkle"
	"github.com/zkpool/shielder/synth"
)

// BalanceBits bounds the remaining balance after a withdrawal.
const BalanceBits = 64

// Knowledge is the private witness of a withdrawal.
type Knowledge struct {
	ID           fr.Element
	OldNullifier fr.Element
	OldTrapdoor  fr.Element
	OldBalance   fr.Element

	Path [merkle.TreeHeight]chips.MerkleLevel

	NewNullifier  fr.Element
	NewTrapdoor   fr.Element
	WithdrawValue fr.Element
	Commitment    fr.Element
}

// RandomKnowledge draws a random account with a 64-bit balance and
// withdraws part of it.
func RandomKnowledge(rng *rand.Rand) (*Knowledge, error) {
	var k Knowledge
	for _, f := range []*fr.Element{
		&k.ID, &k.OldNullifier, &k.OldTrapdoor,
		&k.NewNullifier, &k.NewTrapdoor, &k.Commitment,
	} {
		if _, err := f.SetRandom(); err != nil {
			return nil, err
		}
	}
	balance := rng.Uint64()
	k.OldBalance.SetUint64(balance)
	k.WithdrawValue.SetUint64(rng.Uint64() % (balance + 1))

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

// NewNote is the note replacing it, with the withdrawal subtracted.
func (k *Knowledge) NewNote() chips.Note {
	var balance fr.Element
	balance.Sub(&k.OldBalance, &k.WithdrawValue)
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
	out[SlotWithdrawValue] = k.WithdrawValue
	out[SlotCommitment] = k.Commitment
	return out
}

func (k *Knowledge) CreateCircuit() circuits.Circuit {
	c := &Circuit{
		id:            synth.Known(k.ID),
		oldNullifier:  synth.Known(k.OldNullifier),
		oldTrapdoor:   synth.Known(k.OldTrapdoor),
		oldBalance:    synth.Known(k.OldBalance),
		newNullifier:  synth.Known(k.NewNullifier),
		newTrapdoor:   synth.Known(k.NewTrapdoor),
		withdrawValue: synth.Known(k.WithdrawValue),
		commitment:    synth.Known(k.Commitment),
	}
	for i, level := range k.Path {
		for j, v := range level {
			c.path[i][j] = synth.Known(v)
		}
	}
	return c
}

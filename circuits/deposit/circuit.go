package deposit

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/circuits/merkle"
	"github.com/zkpool/shielder/gates"
	"github.com/zkpool/shielder/instance"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

// Public slot indices.
const (
	SlotMerkleRoot = iota
	SlotHashedOldNullifier
	SlotNewNoteHash
	SlotDepositValue

	NumPublicInputs
)

type Circuit struct {
	id           synth.Value
	oldNullifier synth.Value
	oldTrapdoor  synth.Value
	oldBalance   synth.Value
	path         [merkle.TreeHeight][chips.MerkleArity]synth.Value
	newNullifier synth.Value
	newTrapdoor  synth.Value
	depositValue synth.Value

	note      chips.NoteChip
	nullifier chips.NullifierChip
	tree      chips.MerkleChip
	sum       gates.SumGate
	public    *instance.Narrowed
}

func (c *Circuit) Configure(cs *plonk.ConstraintSystem) (*plonk.SynthPool, error) {
	wrapper := instance.NewWrapper(cs, NumPublicInputs)
	public, err := wrapper.Narrow(NumPublicInputs)
	if err != nil {
		return nil, err
	}
	c.public = public

	builder := circuits.NewConfigsBuilder(cs).
		WithNote().
		WithNullifier().
		WithMerkle()
	pool, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	c.note = builder.NoteChip()
	c.nullifier = builder.NullifierChip()
	c.tree = builder.MerkleChip()
	c.sum = builder.SumGate()
	return pool, nil
}

func (c *Circuit) Synthesize(s *synth.Synthesizer) error {
	asg := s.Assignment()
	id := synth.FromValue(c.id)
	oldNullifier := synth.FromValue(c.oldNullifier)
	oldBalance := synth.FromValue(c.oldBalance)
	depositValue := synth.FromValue(c.depositValue)

	// The spent note's commitment doubles as the tree leaf.
	oldNote, err := c.note.Hash(s.Namespaced("old_note"), chips.NoteCells{
		ID:        id,
		Nullifier: oldNullifier,
		Trapdoor:  synth.FromValue(c.oldTrapdoor),
		Balance:   oldBalance,
	})
	if err != nil {
		return err
	}

	path := make([][chips.MerkleArity]synth.Cell, merkle.TreeHeight)
	for i, level := range c.path {
		for j, v := range level {
			path[i][j] = synth.FromValue(v)
		}
	}
	root, err := c.tree.Synthesize(s.Namespaced("merkle"), synth.FromAssigned(oldNote), path)
	if err != nil {
		return err
	}
	if err := c.public.Constrain(asg, SlotMerkleRoot, root); err != nil {
		return err
	}

	revealed, err := c.nullifier.Reveal(s.Namespaced("nullifier"), oldNullifier)
	if err != nil {
		return err
	}
	if err := c.public.Constrain(asg, SlotHashedOldNullifier, revealed); err != nil {
		return err
	}

	newBalance, err := c.increasedBalance(s, oldBalance, depositValue)
	if err != nil {
		return err
	}
	newNote, err := c.note.Hash(s.Namespaced("new_note"), chips.NoteCells{
		ID:        id,
		Nullifier: synth.FromValue(c.newNullifier),
		Trapdoor:  synth.FromValue(c.newTrapdoor),
		Balance:   newBalance,
	})
	if err != nil {
		return err
	}
	if err := c.public.Constrain(asg, SlotNewNoteHash, newNote); err != nil {
		return err
	}

	depositCell, err := depositValue.Embed(s, "deposit_value")
	if err != nil {
		return err
	}
	return c.public.Constrain(asg, SlotDepositValue, depositCell)
}

// increasedBalance pins oldBalance + depositValue through the sum gate
// and returns the sum cell.
func (c *Circuit) increasedBalance(s *synth.Synthesizer, oldBalance, depositValue synth.Cell) (synth.Cell, error) {
	oldVal, err := oldBalance.Value().Unwrap()
	if err != nil {
		return synth.Cell{}, err
	}
	depVal, err := depositValue.Value().Unwrap()
	if err != nil {
		return synth.Cell{}, err
	}
	var sum fr.Element
	sum.Add(&oldVal, &depVal)
	cells, err := c.sum.Apply(s.Namespaced("balance_increase"),
		oldBalance, depositValue, synth.FromValue(synth.Known(sum)))
	if err != nil {
		return synth.Cell{}, err
	}
	return synth.FromAssigned(cells.Sum), nil
}

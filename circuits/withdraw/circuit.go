package withdraw

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
	SlotWithdrawValue
	SlotCommitment

	NumPublicInputs
)

type Circuit struct {
	id            synth.Value
	oldNullifier  synth.Value
	oldTrapdoor   synth.Value
	oldBalance    synth.Value
	path          [merkle.TreeHeight][chips.MerkleArity]synth.Value
	newNullifier  synth.Value
	newTrapdoor   synth.Value
	withdrawValue synth.Value
	commitment    synth.Value

	note       chips.NoteChip
	nullifier  chips.NullifierChip
	tree       chips.MerkleChip
	sum        gates.SumGate
	rangeCheck gates.RangeCheckGate
	public     *instance.Narrowed
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
		WithMerkle().
		WithRangeCheck(BalanceBits)
	pool, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	c.note = builder.NoteChip()
	c.nullifier = builder.NullifierChip()
	c.tree = builder.MerkleChip()
	c.sum = builder.SumGate()
	c.rangeCheck = builder.RangeCheckGate()
	return pool, nil
}

func (c *Circuit) Synthesize(s *synth.Synthesizer) error {
	asg := s.Assignment()
	id := synth.FromValue(c.id)
	oldNullifier := synth.FromValue(c.oldNullifier)
	oldBalance := synth.FromValue(c.oldBalance)
	withdrawValue := synth.FromValue(c.withdrawValue)

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

	newBalance, err := c.decreasedBalance(s, oldBalance, withdrawValue)
	if err != nil {
		return err
	}
	// Without the range check a huge "remaining balance" could wrap the
	// field and mint funds.
	if err := c.rangeCheck.Apply(s.Namespaced("balance_range"), newBalance); err != nil {
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

	withdrawCell, err := withdrawValue.Embed(s, "withdraw_value")
	if err != nil {
		return err
	}
	if err := c.public.Constrain(asg, SlotWithdrawValue, withdrawCell); err != nil {
		return err
	}

	commitmentCell, err := synth.FromValue(c.commitment).Embed(s, "commitment")
	if err != nil {
		return err
	}
	return c.public.Constrain(asg, SlotCommitment, commitmentCell)
}

// decreasedBalance pins newBalance + withdrawValue = oldBalance through
// the sum gate and returns the new balance cell.
func (c *Circuit) decreasedBalance(s *synth.Synthesizer, oldBalance, withdrawValue synth.Cell) (synth.Cell, error) {
	oldVal, err := oldBalance.Value().Unwrap()
	if err != nil {
		return synth.Cell{}, err
	}
	wVal, err := withdrawValue.Value().Unwrap()
	if err != nil {
		return synth.Cell{}, err
	}
	var remaining fr.Element
	remaining.Sub(&oldVal, &wVal)
	newBalance := synth.FromValue(synth.Known(remaining))
	cells, err := c.sum.Apply(s.Namespaced("balance_decrease"),
		newBalance, withdrawValue, oldBalance)
	if err != nil {
		return synth.Cell{}, err
	}
	return synth.FromAssigned(cells.SummandA), nil
}

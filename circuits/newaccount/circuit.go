package newaccount

import (
	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/instance"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/poseidon"
	"github.com/zkpool/shielder/synth"
)

// Public slot indices.
const (
	SlotHashedNote = iota
	SlotHashedID
	SlotInitialDeposit

	NumPublicInputs
)

type Circuit struct {
	id             synth.Value
	nullifier      synth.Value
	trapdoor       synth.Value
	initialDeposit synth.Value

	note   chips.NoteChip
	sponge poseidon.Sponge
	public *instance.Narrowed
}

func (c *Circuit) Configure(cs *plonk.ConstraintSystem) (*plonk.SynthPool, error) {
	wrapper := instance.NewWrapper(cs, NumPublicInputs)
	public, err := wrapper.Narrow(NumPublicInputs)
	if err != nil {
		return nil, err
	}
	c.public = public

	builder := circuits.NewConfigsBuilder(cs).WithNote()
	pool, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	c.note = builder.NoteChip()
	c.sponge = builder.Sponge()
	return pool, nil
}

func (c *Circuit) Synthesize(s *synth.Synthesizer) error {
	asg := s.Assignment()
	id := synth.FromValue(c.id)
	deposit := synth.FromValue(c.initialDeposit)

	noteHash, err := c.note.Hash(s.Namespaced("note"), chips.NoteCells{
		ID:        id,
		Nullifier: synth.FromValue(c.nullifier),
		Trapdoor:  synth.FromValue(c.trapdoor),
		Balance:   deposit,
	})
	if err != nil {
		return err
	}
	if err := c.public.Constrain(asg, SlotHashedNote, noteHash); err != nil {
		return err
	}

	hashedID, err := c.sponge.Hash(s.Namespaced("hashed_id"), []synth.Cell{id})
	if err != nil {
		return err
	}
	if err := c.public.Constrain(asg, SlotHashedID, hashedID); err != nil {
		return err
	}

	depositCell, err := deposit.Embed(s, "initial_deposit")
	if err != nil {
		return err
	}
	return c.public.Constrain(asg, SlotInitialDeposit, depositCell)
}

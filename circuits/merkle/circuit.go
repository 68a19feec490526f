package merkle

import (
	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/instance"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

// Public slot indices.
const (
	SlotRoot = iota

	NumPublicInputs
)

// Circuit holds the witness in value form plus the configured chips.
type Circuit struct {
	leaf synth.Value
	path [TreeHeight][chips.MerkleArity]synth.Value

	merkle chips.MerkleChip
	public *instance.Narrowed
}

func (c *Circuit) Configure(cs *plonk.ConstraintSystem) (*plonk.SynthPool, error) {
	wrapper := instance.NewWrapper(cs, NumPublicInputs)
	public, err := wrapper.Narrow(NumPublicInputs)
	if err != nil {
		return nil, err
	}
	c.public = public

	builder := circuits.NewConfigsBuilder(cs).WithMerkle()
	pool, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	c.merkle = builder.MerkleChip()
	return pool, nil
}

func (c *Circuit) Synthesize(s *synth.Synthesizer) error {
	path := make([][chips.MerkleArity]synth.Cell, TreeHeight)
	for i, level := range c.path {
		for j, v := range level {
			path[i][j] = synth.FromValue(v)
		}
	}
	root, err := c.merkle.Synthesize(s.Namespaced("merkle"), synth.FromValue(c.leaf), path)
	if err != nil {
		return err
	}
	return c.public.Constrain(s.Assignment(), SlotRoot, root)
}

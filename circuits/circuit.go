package circuits

import (
	"fmt"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/checker"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

// Circuit is one proving circuit. Configure registers gates, claims
// public slots and returns the synthesis column pool; Synthesize fills
// the witness table and binds computed cells to the claimed slots.
type Circuit interface {
	Configure(cs *plonk.ConstraintSystem) (*plonk.SynthPool, error)
	Synthesize(s *synth.Synthesizer) error
}

// ProverKnowledge is a full private witness for one circuit together with
// the public inputs it implies.
type ProverKnowledge interface {
	CreateCircuit() Circuit
	PublicInputs() []fr.Element
}

// Synthesize runs the pipeline up to a filled witness table: configure,
// finalize the layout, load the public inputs and synthesize. The
// returned assignment is not checked.
func Synthesize(c Circuit, public []fr.Element, opts ...plonk.FinalizeOption) (*plonk.Assignment, error) {
	cs := plonk.NewConstraintSystem()
	pool, err := c.Configure(cs)
	if err != nil {
		return nil, err
	}
	layout, err := plonk.Finalize(cs, opts...)
	if err != nil {
		return nil, err
	}
	if len(public) != layout.InstanceSize {
		return nil, fmt.Errorf("circuits: %d public inputs for an instance of size %d",
			len(public), layout.InstanceSize)
	}
	asg := plonk.NewAssignment(layout)
	for i, v := range public {
		if err := asg.SetInstance(i, v); err != nil {
			return nil, err
		}
	}
	if err := c.Synthesize(synth.NewSynthesizer(asg, pool)); err != nil {
		return nil, err
	}
	return asg, nil
}

// Run synthesizes and verifies every constraint. The assignment is
// returned alongside a checker failure, so callers can inspect what went
// wrong.
func Run(c Circuit, public []fr.Element, opts ...plonk.FinalizeOption) (*plonk.Assignment, error) {
	asg, err := Synthesize(c, public, opts...)
	if err != nil {
		return nil, err
	}
	return asg, checker.Satisfied(asg)
}

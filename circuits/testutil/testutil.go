// Package testutil runs full circuit pipelines in tests: a correct
// witness must satisfy every constraint, and any tampered public input
// must be caught by the checker.
package testutil

import (
	"testing"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/checker"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/plonk"
)

// RequireSatisfied synthesizes the knowledge's circuit against its own
// public inputs and requires every constraint to hold.
func RequireSatisfied(t *testing.T, k circuits.ProverKnowledge, opts ...plonk.FinalizeOption) {
	t.Helper()
	_, err := circuits.Run(k.CreateCircuit(), k.PublicInputs(), opts...)
	require.NoError(t, err)
}

// RequireTamperDetected flips each public input in turn and requires the
// checker to reject the result every time.
func RequireTamperDetected(t *testing.T, k circuits.ProverKnowledge, opts ...plonk.FinalizeOption) {
	t.Helper()
	public := k.PublicInputs()
	var one fr.Element
	one.SetOne()
	for slot := range public {
		tampered := make([]fr.Element, len(public))
		copy(tampered, public)
		tampered[slot].Add(&tampered[slot], &one)

		asg, err := circuits.Synthesize(k.CreateCircuit(), tampered, opts...)
		require.NoError(t, err, "synthesis must not depend on public input values")
		require.Error(t, checker.Satisfied(asg), "tampered slot %d went unnoticed", slot)
	}
}

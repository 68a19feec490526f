package merkle

import (
	"math/rand"
	"testing"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/circuits/testutil"
	"github.com/zkpool/shielder/plonk"
)

func TestMembershipProof(t *testing.T) {
	k, err := RandomKnowledge(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	testutil.RequireSatisfied(t, k)
}

func TestMembershipProofTampered(t *testing.T) {
	k, err := RandomKnowledge(rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	testutil.RequireTamperDetected(t, k)
}

func TestMembershipProofWithoutCompression(t *testing.T) {
	k, err := RandomKnowledge(rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	testutil.RequireSatisfied(t, k, plonk.WithSelectorCompression(false))
}

func TestForeignLeafRejected(t *testing.T) {
	k, err := RandomKnowledge(rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	// swap the leaf for a value the path does not contain
	if _, err := k.Leaf.SetRandom(); err != nil {
		t.Fatal(err)
	}
	_, err = circuits.Run(k.CreateCircuit(), k.PublicInputs())
	require.Error(t, err)
}

func TestRootMatchesOffCircuitFold(t *testing.T) {
	k, err := RandomKnowledge(rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	require.Equal(t, chips.MerkleRoot(k.Path[:]), k.Root())
	require.Equal(t, []fr.Element{k.Root()}, k.PublicInputs())
}

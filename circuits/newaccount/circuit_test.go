package newaccount

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/circuits/testutil"
	"github.com/zkpool/shielder/poseidon"
)

func TestNewAccountProof(t *testing.T) {
	k, err := RandomKnowledge()
	require.NoError(t, err)
	testutil.RequireSatisfied(t, k)
}

func TestNewAccountProofTampered(t *testing.T) {
	k, err := RandomKnowledge()
	require.NoError(t, err)
	testutil.RequireTamperDetected(t, k)
}

func TestPublicInputsShape(t *testing.T) {
	k, err := RandomKnowledge()
	require.NoError(t, err)

	public := k.PublicInputs()
	require.Len(t, public, NumPublicInputs)
	require.Equal(t, k.InitialDeposit, public[SlotInitialDeposit])
	require.Equal(t, poseidon.Hash(k.ID), public[SlotHashedID])
}

func TestWrongDepositRejected(t *testing.T) {
	k, err := RandomKnowledge()
	require.NoError(t, err)

	public := k.PublicInputs()
	// claim a larger deposit than the note commits to
	public[SlotInitialDeposit].SetUint64(1 << 20)
	_, err = circuits.Run(k.CreateCircuit(), public)
	require.Error(t, err)
}

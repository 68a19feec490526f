package circuits_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/plonk"
)

func TestBuilderCachesSharedChips(t *testing.T) {
	cs := plonk.NewConstraintSystem()
	builder := circuits.NewConfigsBuilder(cs).WithNote().WithNullifier().WithMerkle()
	_, err := builder.Finish()
	require.NoError(t, err)

	// one sum gate, one membership gate and one permutation chip
	// (3 selectors) despite three dependent chips
	require.Equal(t, 5, cs.NumSelectors())

	selectors := cs.NumSelectors()
	builder = builder.WithSponge().WithMerkle()
	require.Equal(t, selectors, cs.NumSelectors(), "reconfiguration must be a no-op")
}

func TestBuilderSharesPooledColumns(t *testing.T) {
	cs := plonk.NewConstraintSystem()
	_, err := circuits.NewConfigsBuilder(cs).WithNote().WithMerkle().Finish()
	require.NoError(t, err)

	require.LessOrEqual(t, cs.NumAdvice(), circuits.MaxAdviceColumns)
	require.LessOrEqual(t, cs.NumFixed(), circuits.MaxFixedColumns)
}

func TestBuilderMembershipArityIsPinned(t *testing.T) {
	cs := plonk.NewConstraintSystem()
	builder := circuits.NewConfigsBuilder(cs).WithMembership(chips.MerkleArity)
	require.Panics(t, func() { builder.WithMembership(chips.MerkleArity + 1) })
}

func TestBuilderRangeCheckWidthIsPinned(t *testing.T) {
	cs := plonk.NewConstraintSystem()
	builder := circuits.NewConfigsBuilder(cs).WithRangeCheck(16)
	require.Panics(t, func() { builder.WithRangeCheck(8) })
}

func TestBuilderAccessorsPanicWhenUnconfigured(t *testing.T) {
	builder := circuits.NewConfigsBuilder(plonk.NewConstraintSystem())
	require.Panics(t, func() { builder.SumGate() })
	require.Panics(t, func() { builder.MerkleChip() })
	require.Panics(t, func() { builder.RangeCheckGate() })
}

func TestBuilderLayoutIsReproducible(t *testing.T) {
	build := func() []byte {
		cs := plonk.NewConstraintSystem()
		builder := circuits.NewConfigsBuilder(cs).
			WithNote().
			WithNullifier().
			WithMerkle().
			WithRangeCheck(16)
		_, err := builder.Finish()
		require.NoError(t, err)
		cs.SetInstanceSize(4)
		layout, err := plonk.Finalize(cs)
		require.NoError(t, err)
		blob, err := layout.MarshalBinary()
		require.NoError(t, err)
		return blob
	}
	require.Equal(t, build(), build())
}

package plonk

import (
	"testing"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/expr"
)

func two() fr.Element {
	var v fr.Element
	v.SetUint64(2)
	return v
}

// twoGateSystem registers two single-row gates on disjoint regions, so
// their selectors are compressible into one column.
func twoGateSystem() *ConstraintSystem {
	cs := NewConstraintSystem()
	a := cs.AdviceColumn()
	b := cs.AdviceColumn()
	cs.EnableEquality(a)

	s0 := cs.NewSelector("double")
	cs.CreateGate("double", s0,
		expr.Sub(expr.Advice{Column: b.Index}, expr.Scaled{E: expr.Advice{Column: a.Index}, C: two()}))
	cs.RegisterShape(RegionShape{Gate: "double", Rows: 1, Activations: map[Selector][]int{s0: {0}}})

	s1 := cs.NewSelector("equal")
	cs.CreateGate("equal", s1,
		expr.Sub(expr.Advice{Column: a.Index}, expr.Advice{Column: b.Index}))
	cs.RegisterShape(RegionShape{Gate: "equal", Rows: 1, Activations: map[Selector][]int{s1: {0}}})

	cs.SetInstanceSize(3)
	return cs
}

func TestFinalizeCompressesDisjointSelectors(t *testing.T) {
	layout, err := Finalize(twoGateSystem())
	require.NoError(t, err)

	require.Equal(t, [][]int{{0, 1}}, layout.Groups)
	// one selector column plus the constant column
	require.Equal(t, 2, layout.NumFixed)
	require.Equal(t, 3, layout.InstanceSize)
	require.Equal(t, layout.Selectors[0].Column, layout.Selectors[1].Column)
	require.Equal(t, uint64(1), layout.Selectors[0].Value)
	require.Equal(t, uint64(2), layout.Selectors[1].Value)
}

func TestFinalizeWithoutCompression(t *testing.T) {
	layout, err := Finalize(twoGateSystem(), WithSelectorCompression(false))
	require.NoError(t, err)

	require.Equal(t, 3, layout.NumFixed)
	require.NotEqual(t, layout.Selectors[0].Column, layout.Selectors[1].Column)
	for _, slot := range layout.Selectors {
		require.Equal(t, uint64(1), slot.Value)
		require.Equal(t, 1, slot.GroupSize)
	}
}

func TestFinalizeConstantColumnIsEqualityEnabled(t *testing.T) {
	layout, err := Finalize(twoGateSystem())
	require.NoError(t, err)
	require.Equal(t, Fixed, layout.Constant.Kind)
	require.True(t, layout.EqualityEnabled(layout.Constant))
}

func TestLayoutEncodingIsDeterministic(t *testing.T) {
	first, err := Finalize(twoGateSystem())
	require.NoError(t, err)
	second, err := Finalize(twoGateSystem())
	require.NoError(t, err)

	a, err := first.MarshalBinary()
	require.NoError(t, err)
	b, err := second.MarshalBinary()
	require.NoError(t, err)
	require.NotEmpty(t, a)
	require.Equal(t, a, b)
}

func TestLayoutEncodingReflectsCompression(t *testing.T) {
	compressed, err := Finalize(twoGateSystem())
	require.NoError(t, err)
	plain, err := Finalize(twoGateSystem(), WithSelectorCompression(false))
	require.NoError(t, err)

	a, err := compressed.MarshalBinary()
	require.NoError(t, err)
	b, err := plain.MarshalBinary()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

package plonk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolSharesColumns(t *testing.T) {
	cs := NewConstraintSystem()
	pool := NewAdvicePool(4)

	require.NoError(t, pool.EnsureCapacity(cs, 2))
	require.NoError(t, pool.EnsureCapacity(cs, 3))
	require.NoError(t, pool.EnsureCapacity(cs, 1))

	require.Equal(t, 3, pool.Len())
	require.Equal(t, 3, cs.NumAdvice())
	require.Equal(t, pool.Columns(3)[:2], pool.Columns(2))
}

func TestPoolExhaustion(t *testing.T) {
	cs := NewConstraintSystem()
	pool := NewFixedPool(2)
	require.NoError(t, pool.EnsureCapacity(cs, 2))
	require.ErrorIs(t, pool.EnsureCapacity(cs, 3), ErrResourceExhausted)
}

func TestAdvicePoolEnablesEquality(t *testing.T) {
	cs := NewConstraintSystem()
	pool := NewAdvicePool(2)
	require.NoError(t, pool.EnsureCapacity(cs, 2))
	cs.SetInstanceSize(1)
	layout, err := Finalize(cs)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		require.True(t, layout.EqualityEnabled(pool.Column(i)))
	}
}

func TestSynthPoolRotates(t *testing.T) {
	cs := NewConstraintSystem()
	pool := NewAdvicePool(3)
	require.NoError(t, pool.EnsureCapacity(cs, 3))
	sp := pool.Conclude()

	first := sp.GetAny()
	second := sp.GetAny()
	third := sp.GetAny()
	require.NotEqual(t, first, second)
	require.NotEqual(t, second, third)
	require.Equal(t, first, sp.GetAny())
}

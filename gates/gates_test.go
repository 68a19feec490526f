package gates

import (
	"testing"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/checker"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

// fixture wires one constraint system with a pooled set of advice columns
// and finalizes it on demand.
type fixture struct {
	cs   *plonk.ConstraintSystem
	pool *plonk.ColumnPool
}

func newFixture(t *testing.T, columns int) *fixture {
	t.Helper()
	f := &fixture{cs: plonk.NewConstraintSystem(), pool: plonk.NewAdvicePool(8)}
	require.NoError(t, f.pool.EnsureCapacity(f.cs, columns))
	return f
}

func (f *fixture) columns3() [3]plonk.Column {
	return [3]plonk.Column{f.pool.Column(0), f.pool.Column(1), f.pool.Column(2)}
}

func (f *fixture) synthesizer(t *testing.T) *synth.Synthesizer {
	t.Helper()
	layout, err := plonk.Finalize(f.cs)
	require.NoError(t, err)
	return synth.NewSynthesizer(plonk.NewAssignment(layout), f.pool.Conclude())
}

func known(v uint64) synth.Cell {
	return synth.FromValue(synth.KnownUint64(v))
}

func TestSumGateSatisfied(t *testing.T) {
	f := newFixture(t, 3)
	g := NewSumGate(f.cs, f.columns3())
	s := f.synthesizer(t)

	cells, err := g.Apply(s, known(2), known(3), known(5))
	require.NoError(t, err)
	require.NoError(t, checker.Satisfied(s.Assignment()))

	var want fr.Element
	want.SetUint64(5)
	require.Equal(t, want, cells.Sum.Value)
}

func TestSumGateWrongSum(t *testing.T) {
	f := newFixture(t, 3)
	g := NewSumGate(f.cs, f.columns3())
	s := f.synthesizer(t)

	_, err := g.Apply(s, known(2), known(3), known(6))
	require.NoError(t, err)
	require.Error(t, checker.Satisfied(s.Assignment()))
}

func TestSumGateChainsThroughCopies(t *testing.T) {
	f := newFixture(t, 3)
	g := NewSumGate(f.cs, f.columns3())
	s := f.synthesizer(t)

	first, err := g.Apply(s, known(1), known(2), known(3))
	require.NoError(t, err)
	// the first sum feeds the second application through a copy
	_, err = g.Apply(s, synth.FromAssigned(first.Sum), known(4), known(7))
	require.NoError(t, err)

	require.NoError(t, checker.Satisfied(s.Assignment()))
	require.NotEmpty(t, s.Assignment().Copies())
}

func TestSumGateRejectsSharedColumns(t *testing.T) {
	f := newFixture(t, 3)
	c := f.pool.Column(0)
	require.Panics(t, func() {
		NewSumGate(f.cs, [3]plonk.Column{c, c, f.pool.Column(1)})
	})
}

func TestSumGateProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("a + b = sum is accepted, anything else rejected",
		prop.ForAll(func(a, b uint64, tamper bool) bool {
			f := newFixture(t, 3)
			g := NewSumGate(f.cs, f.columns3())
			s := f.synthesizer(t)

			var ea, eb, sum fr.Element
			ea.SetUint64(a)
			eb.SetUint64(b)
			sum.Add(&ea, &eb)
			if tamper {
				var one fr.Element
				one.SetOne()
				sum.Add(&sum, &one)
			}
			_, err := g.Apply(s,
				synth.FromValue(synth.Known(ea)),
				synth.FromValue(synth.Known(eb)),
				synth.FromValue(synth.Known(sum)))
			if err != nil {
				return false
			}
			satisfied := checker.Satisfied(s.Assignment()) == nil
			return satisfied == !tamper
		}, gen.UInt64(), gen.UInt64(), gen.Bool()))

	properties.TestingRun(t)
}

func TestMembershipGate(t *testing.T) {
	f := newFixture(t, 4)
	g := NewMembershipGate(f.cs, f.pool.Column(3), f.pool.Columns(3))
	require.Equal(t, 3, g.Arity())
	s := f.synthesizer(t)

	_, err := g.Apply(s, known(7), []synth.Cell{known(5), known(7), known(9)})
	require.NoError(t, err)
	require.NoError(t, checker.Satisfied(s.Assignment()))
}

func TestMembershipGateMiss(t *testing.T) {
	f := newFixture(t, 4)
	g := NewMembershipGate(f.cs, f.pool.Column(3), f.pool.Columns(3))
	s := f.synthesizer(t)

	_, err := g.Apply(s, known(8), []synth.Cell{known(5), known(7), known(9)})
	require.NoError(t, err)
	require.Error(t, checker.Satisfied(s.Assignment()))
}

func TestMembershipGateArityMismatchPanics(t *testing.T) {
	f := newFixture(t, 4)
	g := NewMembershipGate(f.cs, f.pool.Column(3), f.pool.Columns(3))
	s := f.synthesizer(t)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(LayoutMismatch)
		require.True(t, ok)
	}()
	g.Apply(s, known(1), []synth.Cell{known(1)})
}

func TestIsBinaryGate(t *testing.T) {
	for _, tc := range []struct {
		bit       uint64
		satisfied bool
	}{
		{0, true},
		{1, true},
		{2, false},
	} {
		f := newFixture(t, 1)
		g := NewIsBinaryGate(f.cs, f.pool.Column(0))
		s := f.synthesizer(t)

		_, err := g.Apply(s, known(tc.bit))
		require.NoError(t, err)
		err = checker.Satisfied(s.Assignment())
		if tc.satisfied {
			require.NoError(t, err, "bit %d", tc.bit)
		} else {
			require.Error(t, err, "bit %d", tc.bit)
		}
	}
}

func TestRangeCheckBounds(t *testing.T) {
	const bits = 8
	for _, tc := range []struct {
		value uint64
		fits  bool
	}{
		{0, true},
		{1, true},
		{255, true},
		{256, false},
	} {
		f := newFixture(t, 2)
		g := NewRangeCheckGate(f.cs, f.pool.Column(0), f.pool.Column(1), bits)
		require.Equal(t, bits, g.NumBits())
		s := f.synthesizer(t)

		err := g.Apply(s, known(tc.value))
		if !tc.fits {
			require.Error(t, err, "value %d", tc.value)
			continue
		}
		require.NoError(t, err, "value %d", tc.value)
		require.NoError(t, checker.Satisfied(s.Assignment()), "value %d", tc.value)
	}
}

func TestRangeCheckProperty(t *testing.T) {
	const bits = 16
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("exactly the 16-bit values pass",
		prop.ForAll(func(v uint64) bool {
			f := newFixture(t, 2)
			g := NewRangeCheckGate(f.cs, f.pool.Column(0), f.pool.Column(1), bits)
			s := f.synthesizer(t)

			err := g.Apply(s, known(v))
			if v < 1<<bits {
				return err == nil && checker.Satisfied(s.Assignment()) == nil
			}
			return err != nil
		}, gen.UInt64Range(0, 1<<18)))

	properties.TestingRun(t)
}

func TestRangeCheckRejectsUnknown(t *testing.T) {
	f := newFixture(t, 2)
	g := NewRangeCheckGate(f.cs, f.pool.Column(0), f.pool.Column(1), 8)
	s := f.synthesizer(t)
	err := g.Apply(s, synth.FromValue(synth.Unknown()))
	require.ErrorIs(t, err, synth.ErrUnknownValue)
}

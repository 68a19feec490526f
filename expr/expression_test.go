package expr

import (
	"testing"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

type sliceTable struct {
	advice [][]fr.Element
	fixed  [][]fr.Element
}

func (t sliceTable) QueryAdvice(column, row int) fr.Element {
	rows := t.advice[column]
	return rows[((row%len(rows))+len(rows))%len(rows)]
}

func (t sliceTable) QueryFixed(column, row int) fr.Element {
	rows := t.fixed[column]
	return rows[((row%len(rows))+len(rows))%len(rows)]
}

func elems(vs ...uint64) []fr.Element {
	out := make([]fr.Element, len(vs))
	for i, v := range vs {
		out[i].SetUint64(v)
	}
	return out
}

func TestEval(t *testing.T) {
	tab := sliceTable{
		advice: [][]fr.Element{elems(3, 5), elems(7, 11)},
		fixed:  [][]fr.Element{elems(2, 4)},
	}

	// 3 + 7*2 - 5 (rotation +1 on column 0)
	e := Sub(
		Add(
			Advice{Column: 0},
			Mul(Advice{Column: 1}, Fixed{Column: 0}),
		),
		Advice{Column: 0, Rotation: 1},
	)
	var want fr.Element
	want.SetUint64(12)
	require.Equal(t, want, e.Eval(tab, 0))
}

func TestEvalRotationWraps(t *testing.T) {
	tab := sliceTable{advice: [][]fr.Element{elems(3, 5)}}
	e := Advice{Column: 0, Rotation: 1}
	var want fr.Element
	want.SetUint64(3)
	require.Equal(t, want, e.Eval(tab, 1))
}

func TestDegree(t *testing.T) {
	a := Advice{Column: 0}
	b := Advice{Column: 1}
	require.Equal(t, 0, NewConstant(4).Degree())
	require.Equal(t, 1, Add(a, b).Degree())
	require.Equal(t, 2, Mul(a, b).Degree())
	require.Equal(t, 3, Mul(a, a, b).Degree())
	require.Equal(t, 2, Scaled{E: Mul(a, b), C: fr.Element{}}.Degree())
	require.Equal(t, 1, Selector{Index: 0}.Degree())
}

func TestMapSelectorsRewrites(t *testing.T) {
	e := Mul(Selector{Index: 2}, Sub(Advice{Column: 0}, Advice{Column: 1}))
	mapped := e.MapSelectors(func(index int) Expression {
		require.Equal(t, 2, index)
		return Fixed{Column: 9}
	})

	tab := sliceTable{
		advice: [][]fr.Element{elems(6), elems(4)},
		fixed:  [][]fr.Element{nil, nil, nil, nil, nil, nil, nil, nil, nil, elems(3)},
	}
	var want fr.Element
	want.SetUint64(6)
	require.Equal(t, want, mapped.Eval(tab, 0))

	// the original still carries the virtual selector
	require.Panics(t, func() { e.Eval(tab, 0) })
}

func TestHashCodeDistinguishesVariants(t *testing.T) {
	a := Advice{Column: 1}
	f := Fixed{Column: 1}
	require.NotEqual(t, a.HashCode(), f.HashCode())
	require.False(t, a.EqualI(f))
	require.True(t, a.EqualI(Advice{Column: 1}))
	require.False(t, a.EqualI(Advice{Column: 1, Rotation: 1}))

	s1 := Sub(a, Advice{Column: 2})
	s2 := Sub(Advice{Column: 1}, Advice{Column: 2})
	require.Equal(t, s1.HashCode(), s2.HashCode())
	require.True(t, s1.EqualI(s2))
}

func TestAddMulRequireOperands(t *testing.T) {
	require.Panics(t, func() { Add() })
	require.Panics(t, func() { Mul() })
}

package plonk

import (
	"testing"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/expr"
)

// conflictingSystem registers three selectors where s0 and s1 can fire on
// the same row of one region and s2 is always alone.
func conflictingSystem(t *testing.T) (*ConstraintSystem, [3]Selector) {
	t.Helper()
	cs := NewConstraintSystem()
	a := cs.AdviceColumn()
	var sels [3]Selector
	for i := range sels {
		sels[i] = cs.NewSelector("g")
	}
	cs.CreateGate("g0", sels[0], expr.Advice{Column: a.Index})
	cs.CreateGate("g1", sels[1], expr.Mul(expr.Advice{Column: a.Index}, expr.Advice{Column: a.Index}))
	cs.CreateGate("g2", sels[2], expr.Sub(expr.Advice{Column: a.Index}, expr.NewConstant(1)))
	cs.RegisterShape(RegionShape{
		Gate: "g01",
		Rows: 2,
		Activations: map[Selector][]int{
			sels[0]: {0, 1},
			sels[1]: {1},
		},
	})
	cs.RegisterShape(RegionShape{
		Gate:        "g2",
		Rows:        1,
		Activations: map[Selector][]int{sels[2]: {0}},
	})
	return cs, sels
}

func TestGroupSelectorsAvoidsConflicts(t *testing.T) {
	cs, _ := conflictingSystem(t)
	groups := groupSelectors(cs)
	require.Equal(t, [][]int{{0, 2}, {1}}, groups)
	require.NoError(t, validateGroups(cs, groups))
}

func TestValidateGroupsRejectsConflict(t *testing.T) {
	cs, _ := conflictingSystem(t)
	err := validateGroups(cs, [][]int{{0, 1}, {2}})
	require.ErrorIs(t, err, ErrSelectorCompressionConflict)
}

func TestValidateGroupsRejectsDuplicateAndMissing(t *testing.T) {
	cs, _ := conflictingSystem(t)
	require.ErrorIs(t,
		validateGroups(cs, [][]int{{0, 2}, {1, 2}}),
		ErrSelectorCompressionConflict)
	require.ErrorIs(t,
		validateGroups(cs, [][]int{{0}, {1}}),
		ErrSelectorCompressionConflict)
	require.ErrorIs(t,
		validateGroups(cs, [][]int{{0}, {1}, {2}, {7}}),
		ErrSelectorCompressionConflict)
}

func TestManualGroupsOverrideFinalize(t *testing.T) {
	cs, _ := conflictingSystem(t)
	_, err := Finalize(cs, WithSelectorGroups([][]int{{0, 1}, {2}}))
	require.ErrorIs(t, err, ErrSelectorCompressionConflict)

	cs, _ = conflictingSystem(t)
	layout, err := Finalize(cs, WithSelectorGroups([][]int{{1, 2}, {0}}))
	require.NoError(t, err)
	require.Equal(t, [][]int{{1, 2}, {0}}, layout.Groups)
}

type fixedOnlyTable struct {
	value fr.Element
}

func (t fixedOnlyTable) QueryAdvice(int, int) fr.Element { return fr.Element{} }
func (t fixedOnlyTable) QueryFixed(int, int) fr.Element  { return t.value }

func TestSelectorReplacementEncoding(t *testing.T) {
	col := Column{Kind: Fixed, Index: 0}

	// singleton: the raw query
	var one fr.Element
	one.SetOne()
	raw := selectorReplacement(col, 1, 1)
	require.Equal(t, one, raw.Eval(fixedOnlyTable{value: one}, 0))

	// group of 3, position 2: zero unless the column holds 2
	e := selectorReplacement(col, 2, 3)
	for q := uint64(0); q <= 3; q++ {
		var v fr.Element
		v.SetUint64(q)
		got := e.Eval(fixedOnlyTable{value: v}, 0)
		if q == 2 {
			require.False(t, got.IsZero(), "own position must activate")
		} else {
			require.True(t, got.IsZero(), "position %d must deactivate", q)
		}
	}
}

package synth

import (
	"testing"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/zkpool/shielder/plonk"
)

func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	cs := plonk.NewConstraintSystem()
	pool := plonk.NewAdvicePool(4)
	require.NoError(t, pool.EnsureCapacity(cs, 3))
	layout, err := plonk.Finalize(cs)
	require.NoError(t, err)
	return NewSynthesizer(plonk.NewAssignment(layout), pool.Conclude())
}

func TestEmbedPromotesOnce(t *testing.T) {
	s := newTestSynthesizer(t)
	cell := FromValue(KnownUint64(42))

	_, promoted := cell.Assigned()
	require.False(t, promoted)

	first, err := cell.Embed(s, "answer")
	require.NoError(t, err)
	second, err := cell.Embed(s, "answer")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, s.Assignment().NumWrites())
	require.Equal(t, 1, s.Assignment().Height())
}

func TestCopiesObservePromotion(t *testing.T) {
	s := newTestSynthesizer(t)
	cell := FromValue(KnownUint64(7))
	copies := []Cell{cell, cell}

	_, err := copies[0].Embed(s, "v")
	require.NoError(t, err)

	got, promoted := copies[1].Assigned()
	require.True(t, promoted)
	want, _ := copies[0].Assigned()
	require.Equal(t, want, got)
}

func TestEmbedAtReembedsWithCopyConstraint(t *testing.T) {
	s := newTestSynthesizer(t)
	cell := FromValue(KnownUint64(5))

	canonical, err := cell.Embed(s, "v")
	require.NoError(t, err)

	region := s.NewRegion("gate", 1)
	reembedded, err := cell.EmbedAt(region, s.Pool().Column(1), 0)
	require.NoError(t, err)

	require.NotEqual(t, canonical.Coord, reembedded.Coord)
	require.Equal(t, canonical.Value, reembedded.Value)
	require.Equal(t,
		[]plonk.Copy{{A: canonical.Coord, B: reembedded.Coord}},
		s.Assignment().Copies())

	// canonical cell unchanged: EmbedAt of an assigned cell never
	// re-promotes
	still, _ := cell.Assigned()
	require.Equal(t, canonical, still)
}

func TestEmbedAtPromotesRawCell(t *testing.T) {
	s := newTestSynthesizer(t)
	cell := FromValue(KnownUint64(5))

	region := s.NewRegion("gate", 1)
	at, err := cell.EmbedAt(region, s.Pool().Column(0), 0)
	require.NoError(t, err)

	promoted, ok := cell.Assigned()
	require.True(t, ok)
	require.Equal(t, at, promoted)
	require.Empty(t, s.Assignment().Copies())
}

func TestEmbedUnknownValueFails(t *testing.T) {
	s := newTestSynthesizer(t)
	cell := FromValue(Unknown())

	_, err := cell.Embed(s, "v")
	require.ErrorIs(t, err, ErrUnknownValue)

	region := s.NewRegion("gate", 1)
	_, err = cell.EmbedAt(region, s.Pool().Column(0), 0)
	require.ErrorIs(t, err, ErrUnknownValue)
}

func TestFromAssignedIsAlreadyPromoted(t *testing.T) {
	s := newTestSynthesizer(t)
	ac, err := s.AssignValue("v", KnownUint64(3))
	require.NoError(t, err)

	cell := FromAssigned(ac)
	got, ok := cell.Assigned()
	require.True(t, ok)
	require.Equal(t, ac, got)

	v, err := cell.Value().Unwrap()
	require.NoError(t, err)
	require.Equal(t, ac.Value, v)
}

func TestAssignConstantCaches(t *testing.T) {
	s := newTestSynthesizer(t)
	var seven fr.Element
	seven.SetUint64(7)

	first, err := s.AssignConstant("seven", seven)
	require.NoError(t, err)
	// same constant from a different namespace reuses the embedding
	second, err := s.Namespaced("elsewhere").AssignConstant("seven", seven)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// the advice cell is copy-constrained to the constant fixed column
	require.Len(t, s.Assignment().Copies(), 1)
}

func TestNamespacedRegionNames(t *testing.T) {
	s := newTestSynthesizer(t)
	inner := s.Namespaced("outer").Namespaced("inner")
	region := inner.NewRegion("r", 1)
	require.Equal(t, "outer/inner/r", s.Assignment().RegionName(region.ID()))
}

package poseidon

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/expr"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/synth"
)

// Chip constrains one Poseidon2 permutation inside a single region of
// Rounds+2 rows: row 0 holds the input state, row 1 the state after the
// initial external matrix multiplication, and each following row the state
// after one round. Three gates chain consecutive rows: the key-free
// initial multiplication, a full round and a partial round. Round keys
// live in fixed columns alongside the state.
type Chip struct {
	state [Width]plonk.Column
	rc    [Width]plonk.Column

	selPre     plonk.Selector
	selFull    plonk.Selector
	selPartial plonk.Selector
}

const regionName = "poseidon"

// NewChip registers the three round gates over the given advice state
// columns and fixed round-key columns.
func NewChip(cs *plonk.ConstraintSystem, state [Width]plonk.Column, rc [Width]plonk.Column) Chip {
	c := Chip{state: state, rc: rc}
	c.selPre = cs.NewSelector("poseidon_pre")
	c.selFull = cs.NewSelector("poseidon_full")
	c.selPartial = cs.NewSelector("poseidon_partial")

	cs.CreateGate("poseidon_pre", c.selPre, c.prePolys()...)
	cs.CreateGate("poseidon_full", c.selFull, c.roundPolys(true)...)
	cs.CreateGate("poseidon_partial", c.selPartial, c.roundPolys(false)...)

	activations := map[plonk.Selector][]int{c.selPre: {0}}
	for i := 0; i < Rounds; i++ {
		sel := c.selPartial
		if fullRound(i) {
			sel = c.selFull
		}
		activations[sel] = append(activations[sel], i+1)
	}
	cs.RegisterShape(plonk.RegionShape{
		Gate:        regionName,
		Rows:        Rounds + 2,
		Activations: activations,
	})
	return c
}

func (c Chip) curState(j int) expr.Expression {
	return expr.Advice{Column: c.state[j].Index, Rotation: 0}
}

func (c Chip) nextState(j int) expr.Expression {
	return expr.Advice{Column: c.state[j].Index, Rotation: 1}
}

func (c Chip) roundKey(j int) expr.Expression {
	return expr.Fixed{Column: c.rc[j].Index, Rotation: 0}
}

// sbox5 is x^5, the BN254 Poseidon2 sbox.
func sbox5(x expr.Expression) expr.Expression {
	return expr.Mul(x, x, x, x, x)
}

// prePolys constrain next = matExternal * cur, no keys, no sbox.
func (c Chip) prePolys() []expr.Expression {
	polys := make([]expr.Expression, Width)
	for j := 0; j < Width; j++ {
		terms := make([]expr.Expression, Width)
		for k := 0; k < Width; k++ {
			terms[k] = scaleRow(matExternal[j][k], c.curState(k))
		}
		polys[j] = expr.Sub(c.nextState(j), expr.Add(terms...))
	}
	return polys
}

// roundPolys constrain one round: keys added from the fixed columns, the
// sbox applied to the whole state (full) or its first lane (partial), then
// the matching matrix multiplication into the next row.
func (c Chip) roundPolys(full bool) []expr.Expression {
	mat := matInternal
	if full {
		mat = matExternal
	}
	keyed := make([]expr.Expression, Width)
	for k := 0; k < Width; k++ {
		keyed[k] = expr.Add(c.curState(k), c.roundKey(k))
		if full || k == 0 {
			keyed[k] = sbox5(keyed[k])
		}
	}
	polys := make([]expr.Expression, Width)
	for j := 0; j < Width; j++ {
		terms := make([]expr.Expression, Width)
		for k := 0; k < Width; k++ {
			terms[k] = scaleRow(mat[j][k], keyed[k])
		}
		polys[j] = expr.Sub(c.nextState(j), expr.Add(terms...))
	}
	return polys
}

func scaleRow(coeff uint64, e expr.Expression) expr.Expression {
	if coeff == 1 {
		return e
	}
	var v fr.Element
	v.SetUint64(coeff)
	return expr.Scaled{E: e, C: v}
}

// Permute embeds the input state, fills the round rows and returns the
// output state cells. The witness rows are recomputed round by round with
// the shared round keys and agree with gnark-crypto's reference
// permutation.
func (c Chip) Permute(s *synth.Synthesizer, in [Width]synth.Cell) ([Width]plonk.AssignedCell, error) {
	region := s.NewRegion(regionName, Rounds+2)

	var cur [Width]fr.Element
	for j := 0; j < Width; j++ {
		cell, err := in[j].EmbedAt(region, c.state[j], 0)
		if err != nil {
			return [Width]plonk.AssignedCell{}, err
		}
		cur[j] = cell.Value
	}
	if err := region.EnableSelector(c.selPre, 0); err != nil {
		return [Width]plonk.AssignedCell{}, err
	}
	matMul(matExternal, &cur)

	keys := Parameters().RoundKeys
	for r := 1; r <= Rounds; r++ {
		i := r - 1
		for j := 0; j < Width; j++ {
			if _, err := region.AssignAdvice(c.state[j], r, cur[j]); err != nil {
				return [Width]plonk.AssignedCell{}, err
			}
			var k fr.Element
			if j < len(keys[i]) {
				k = keys[i][j]
			}
			if _, err := region.AssignFixed(c.rc[j], r, k); err != nil {
				return [Width]plonk.AssignedCell{}, err
			}
		}
		sel := c.selPartial
		if fullRound(i) {
			sel = c.selFull
		}
		if err := region.EnableSelector(sel, r); err != nil {
			return [Width]plonk.AssignedCell{}, err
		}
		applyRound(i, keys[i], &cur)
	}

	var out [Width]plonk.AssignedCell
	for j := 0; j < Width; j++ {
		cell, err := region.AssignAdvice(c.state[j], Rounds+1, cur[j])
		if err != nil {
			return [Width]plonk.AssignedCell{}, err
		}
		out[j] = cell
	}
	return out, nil
}

func applyRound(i int, keys []fr.Element, state *[Width]fr.Element) {
	for j := range keys {
		state[j].Add(&state[j], &keys[j])
	}
	if fullRound(i) {
		for j := 0; j < Width; j++ {
			sboxInPlace(&state[j])
		}
		matMul(matExternal, state)
	} else {
		sboxInPlace(&state[0])
		matMul(matInternal, state)
	}
}

func sboxInPlace(x *fr.Element) {
	var x2, x4 fr.Element
	x2.Square(x)
	x4.Square(&x2)
	x.Mul(&x4, x)
}

func matMul(m [Width][Width]uint64, state *[Width]fr.Element) {
	var out [Width]fr.Element
	for j := 0; j < Width; j++ {
		for k := 0; k < Width; k++ {
			var t, coeff fr.Element
			coeff.SetUint64(m[j][k])
			t.Mul(&coeff, &state[k])
			out[j].Add(&out[j], &t)
		}
	}
	*state = out
}

// Package poseidon provides the circuit's native hash: the Poseidon2
// permutation over the BN254 scalar field, as an in-circuit chip and as an
// off-circuit sponge. Round keys and the reference permutation come from
// gnark-crypto; this package only fixes the instance (width 3, 8 full and
// 56 partial rounds) and wires the rounds into gate constraints.
package poseidon

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

const (
	// Width is the permutation state size: rate 2, capacity 1.
	Width = 3

	FullRounds    = 8
	PartialRounds = 56

	// Rounds is the total number of rounds of one permutation.
	Rounds = FullRounds + PartialRounds
)

var (
	paramsOnce sync.Once
	params     *poseidon2.Parameters
	perm       *poseidon2.Permutation
)

// Parameters returns the shared round-key parameters. Process-wide
// read-only state, initialized once before any circuit is configured.
func Parameters() *poseidon2.Parameters {
	paramsOnce.Do(initParams)
	return params
}

func permutation() *poseidon2.Permutation {
	paramsOnce.Do(initParams)
	return perm
}

func initParams() {
	params = poseidon2.NewParameters(Width, FullRounds, PartialRounds)
	perm = poseidon2.NewPermutation(Width, FullRounds, PartialRounds)
}

// matExternal is the external round matrix circ(2,1,1).
var matExternal = [Width][Width]uint64{
	{2, 1, 1},
	{1, 2, 1},
	{1, 1, 2},
}

// matInternal is the internal round matrix, ones plus diag(1,1,2).
var matInternal = [Width][Width]uint64{
	{2, 1, 1},
	{1, 2, 1},
	{1, 1, 3},
}

// fullRound reports whether round index i (0-based) is a full round.
func fullRound(i int) bool {
	half := FullRounds / 2
	return i < half || i >= half+PartialRounds
}

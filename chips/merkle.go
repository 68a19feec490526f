package chips

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/gates"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/poseidon"
	"github.com/zkpool/shielder/synth"
)

// MerkleArity is the tree branching factor.
const MerkleArity = 2

// MerkleLevel holds the sibling values of one tree level, leaf side first.
type MerkleLevel [MerkleArity]fr.Element

// MerkleRoot folds a path off-circuit: the hash of each level is expected
// to appear in the next one, and the hash of the last level is the root.
// The function only folds; membership of the running hash is what the chip
// enforces.
func MerkleRoot(path []MerkleLevel) fr.Element {
	var root fr.Element
	for _, level := range path {
		root = poseidon.Hash(level[0], level[1])
	}
	return root
}

// MerklePath builds a well-formed path for a leaf: siblings[i] is the
// other entry at level i and positions[i] the slot the running hash
// occupies there.
func MerklePath(leaf fr.Element, siblings []fr.Element, positions []int) []MerkleLevel {
	path := make([]MerkleLevel, len(siblings))
	current := leaf
	for i, sib := range siblings {
		var level MerkleLevel
		level[positions[i]%MerkleArity] = current
		level[1-positions[i]%MerkleArity] = sib
		path[i] = level
		current = poseidon.Hash(level[0], level[1])
	}
	return path
}

// MerkleChip proves tree membership: per level, a membership gate pins the
// running root to one of the level's entries and the sponge folds the
// level into the next running root.
type MerkleChip struct {
	membership gates.MembershipGate
	sponge     poseidon.Sponge
}

// NewMerkleChip wires the chip from a membership gate of the tree's arity
// and a hash sponge.
func NewMerkleChip(membership gates.MembershipGate, sponge poseidon.Sponge) MerkleChip {
	if membership.Arity() != MerkleArity {
		panic(gates.LayoutMismatch{
			Gate:   membership.Name(),
			Detail: "merkle chip requires an arity-2 membership gate",
		})
	}
	return MerkleChip{membership: membership, sponge: sponge}
}

// Synthesize walks the path from the leaf up and returns the root cell.
func (c MerkleChip) Synthesize(s *synth.Synthesizer, leaf synth.Cell, path [][MerkleArity]synth.Cell) (plonk.AssignedCell, error) {
	current := leaf
	for _, level := range path {
		if _, err := c.membership.Apply(s, current, level[:]); err != nil {
			return plonk.AssignedCell{}, err
		}
		digest, err := c.sponge.Hash(s, level[:])
		if err != nil {
			return plonk.AssignedCell{}, err
		}
		current = synth.FromAssigned(digest)
	}
	return current.Embed(s, "merkle_root")
}

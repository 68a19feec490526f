// Package merkle proves that a leaf is part of the note tree with a given
// root, without revealing the leaf or its position.
package merkle

import (
	"math/rand"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/synth"
)

// TreeHeight is the note tree depth.
const TreeHeight = 8

// Knowledge is the private witness: the leaf and its sibling path. The
// implied public input is the tree root.
type Knowledge struct {
	Leaf fr.Element
	Path [TreeHeight]chips.MerkleLevel
}

// RandomKnowledge draws a random leaf and path. The positions come from
// rng so a seeded generator reproduces the example.
func RandomKnowledge(rng *rand.Rand) (*Knowledge, error) {
	var k Knowledge
	if _, err := k.Leaf.SetRandom(); err != nil {
		return nil, err
	}
	siblings := make([]fr.Element, TreeHeight)
	positions := make([]int, TreeHeight)
	for i := range siblings {
		if _, err := siblings[i].SetRandom(); err != nil {
			return nil, err
		}
		positions[i] = rng.Intn(chips.MerkleArity)
	}
	copy(k.Path[:], chips.MerklePath(k.Leaf, siblings, positions))
	return &k, nil
}

// Root recomputes the public root from the path.
func (k *Knowledge) Root() fr.Element {
	return chips.MerkleRoot(k.Path[:])
}

func (k *Knowledge) PublicInputs() []fr.Element {
	return []fr.Element{k.Root()}
}

func (k *Knowledge) CreateCircuit() circuits.Circuit {
	c := &Circuit{leaf: synth.Known(k.Leaf)}
	for i, level := range k.Path {
		for j, v := range level {
			c.path[i][j] = synth.Known(v)
		}
	}
	return c
}

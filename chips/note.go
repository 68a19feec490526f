// Package chips provides the reusable circuit fragments shared by the
// shielded-pool circuits: the note commitment, the revealed nullifier and
// the Merkle membership path. Each chip composes the hash sponge and the
// closed gate set; none of them owns columns of its own.
package chips

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/poseidon"
	"github.com/zkpool/shielder/synth"
)

// NoteVersion tags the note layout. Bumped when the commitment preimage
// changes shape.
const NoteVersion uint64 = 0

// Note is an account state: the owner's id, the spending secrets and the
// current balance.
type Note struct {
	ID        fr.Element
	Nullifier fr.Element
	Trapdoor  fr.Element
	Balance   fr.Element
}

// Hash is the note commitment
// H(version, id, nullifier, trapdoor, balance).
func (n Note) Hash() fr.Element {
	var version fr.Element
	version.SetUint64(NoteVersion)
	return poseidon.Hash(version, n.ID, n.Nullifier, n.Trapdoor, n.Balance)
}

// NoteCells is a note with every field lifted into a value cell.
type NoteCells struct {
	ID        synth.Cell
	Nullifier synth.Cell
	Trapdoor  synth.Cell
	Balance   synth.Cell
}

// NoteChip computes note commitments in-circuit.
type NoteChip struct {
	sponge poseidon.Sponge
}

func NewNoteChip(sponge poseidon.Sponge) NoteChip {
	return NoteChip{sponge: sponge}
}

// Hash returns the cell holding the note's commitment. The version is
// pinned as a circuit constant, so notes of other versions cannot satisfy
// the same commitment.
func (c NoteChip) Hash(s *synth.Synthesizer, note NoteCells) (plonk.AssignedCell, error) {
	var version fr.Element
	version.SetUint64(NoteVersion)
	versionCell, err := s.AssignConstant("note_version", version)
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	return c.sponge.Hash(s, []synth.Cell{
		synth.FromAssigned(versionCell),
		note.ID,
		note.Nullifier,
		note.Trapdoor,
		note.Balance,
	})
}

// Package circuits assembles gates and chips into the shielded-pool
// proving circuits and provides the shared configuration plumbing: the
// caching ConfigsBuilder, the Circuit and ProverKnowledge contracts and
// the Run pipeline.
package circuits

import (
	"fmt"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"github.com/zkpool/shielder/chips"
	"github.com/zkpool/shielder/gates"
	"github.com/zkpool/shielder/plonk"
	"github.com/zkpool/shielder/poseidon"
)

// Column budgets shared by every circuit. Gates draw their columns from
// the front of the pools, so circuits that configure several gates reuse
// the same columns across regions.
const (
	MaxAdviceColumns = 8
	MaxFixedColumns  = 4
)

// ConfigsBuilder configures chips on demand and caches them, so shared
// dependencies (the hash sponge, the sum gate) are configured exactly once
// no matter how many chips pull them in. All with-methods are sticky on
// the first error; Finish reports it.
type ConfigsBuilder struct {
	cs         *plonk.ConstraintSystem
	advicePool *plonk.ColumnPool
	fixedPool  *plonk.ColumnPool
	log        zerolog.Logger
	err        error

	sum        *gates.SumGate
	membership *gates.MembershipGate
	rangeCheck *gates.RangeCheckGate
	perm       *poseidon.Chip
	sponge     *poseidon.Sponge
	note       *chips.NoteChip
	nullifier  *chips.NullifierChip
	merkle     *chips.MerkleChip
}

func NewConfigsBuilder(cs *plonk.ConstraintSystem) *ConfigsBuilder {
	return &ConfigsBuilder{
		cs:         cs,
		advicePool: plonk.NewAdvicePool(MaxAdviceColumns),
		fixedPool:  plonk.NewFixedPool(MaxFixedColumns),
		log:        logger.Logger().With().Str("component", "configs_builder").Logger(),
	}
}

func (b *ConfigsBuilder) advice(n int) []plonk.Column {
	if b.err == nil {
		b.err = b.advicePool.EnsureCapacity(b.cs, n)
	}
	if b.err != nil {
		return make([]plonk.Column, n)
	}
	return b.advicePool.Columns(n)
}

func (b *ConfigsBuilder) fixed(n int) []plonk.Column {
	if b.err == nil {
		b.err = b.fixedPool.EnsureCapacity(b.cs, n)
	}
	if b.err != nil {
		return make([]plonk.Column, n)
	}
	return b.fixedPool.Columns(n)
}

// WithSum configures the sum gate on the first three advice columns.
func (b *ConfigsBuilder) WithSum() *ConfigsBuilder {
	if b.sum != nil || b.err != nil {
		return b
	}
	cols := b.advice(3)
	if b.err != nil {
		return b
	}
	g := gates.NewSumGate(b.cs, [3]plonk.Column{cols[0], cols[1], cols[2]})
	b.sum = &g
	return b
}

// WithMembership configures the membership gate: one needle column and
// arity haystack columns. The arity is fixed on first configuration.
func (b *ConfigsBuilder) WithMembership(arity int) *ConfigsBuilder {
	if b.membership != nil {
		if b.membership.Arity() != arity {
			panic(fmt.Sprintf("circuits: membership gate already configured with arity %d, requested %d",
				b.membership.Arity(), arity))
		}
		return b
	}
	if b.err != nil {
		return b
	}
	cols := b.advice(arity + 1)
	if b.err != nil {
		return b
	}
	g := gates.NewMembershipGate(b.cs, cols[arity], cols[:arity])
	b.membership = &g
	return b
}

// WithRangeCheck configures the running-sum range check. The width is
// fixed on first configuration.
func (b *ConfigsBuilder) WithRangeCheck(numBits int) *ConfigsBuilder {
	if b.rangeCheck != nil {
		if b.rangeCheck.NumBits() != numBits {
			panic(fmt.Sprintf("circuits: range check already configured for %d bits, requested %d",
				b.rangeCheck.NumBits(), numBits))
		}
		return b
	}
	if b.err != nil {
		return b
	}
	cols := b.advice(2)
	if b.err != nil {
		return b
	}
	g := gates.NewRangeCheckGate(b.cs, cols[0], cols[1], numBits)
	b.rangeCheck = &g
	return b
}

// WithPoseidon configures the permutation chip: three advice state columns
// and three fixed round-key columns.
func (b *ConfigsBuilder) WithPoseidon() *ConfigsBuilder {
	if b.perm != nil || b.err != nil {
		return b
	}
	state := b.advice(poseidon.Width)
	rc := b.fixed(poseidon.Width)
	if b.err != nil {
		return b
	}
	chip := poseidon.NewChip(b.cs,
		[poseidon.Width]plonk.Column{state[0], state[1], state[2]},
		[poseidon.Width]plonk.Column{rc[0], rc[1], rc[2]})
	b.perm = &chip
	return b
}

// WithSponge configures the hash sponge, pulling in the permutation chip
// and the sum gate.
func (b *ConfigsBuilder) WithSponge() *ConfigsBuilder {
	if b.sponge != nil || b.err != nil {
		return b
	}
	b.WithPoseidon().WithSum()
	if b.err != nil {
		return b
	}
	sp := poseidon.NewSponge(*b.perm, *b.sum)
	b.sponge = &sp
	return b
}

// WithNote configures the note commitment chip.
func (b *ConfigsBuilder) WithNote() *ConfigsBuilder {
	if b.note != nil || b.err != nil {
		return b
	}
	b.WithSponge()
	if b.err != nil {
		return b
	}
	c := chips.NewNoteChip(*b.sponge)
	b.note = &c
	return b
}

// WithNullifier configures the nullifier chip.
func (b *ConfigsBuilder) WithNullifier() *ConfigsBuilder {
	if b.nullifier != nil || b.err != nil {
		return b
	}
	b.WithSponge()
	if b.err != nil {
		return b
	}
	c := chips.NewNullifierChip(*b.sponge)
	b.nullifier = &c
	return b
}

// WithMerkle configures the tree membership chip.
func (b *ConfigsBuilder) WithMerkle() *ConfigsBuilder {
	if b.merkle != nil || b.err != nil {
		return b
	}
	b.WithMembership(chips.MerkleArity).WithSponge()
	if b.err != nil {
		return b
	}
	c := chips.NewMerkleChip(*b.membership, *b.sponge)
	b.merkle = &c
	return b
}

func (b *ConfigsBuilder) SumGate() gates.SumGate {
	if b.sum == nil {
		panic("circuits: sum gate not configured")
	}
	return *b.sum
}

func (b *ConfigsBuilder) MembershipGate() gates.MembershipGate {
	if b.membership == nil {
		panic("circuits: membership gate not configured")
	}
	return *b.membership
}

func (b *ConfigsBuilder) RangeCheckGate() gates.RangeCheckGate {
	if b.rangeCheck == nil {
		panic("circuits: range check gate not configured")
	}
	return *b.rangeCheck
}

func (b *ConfigsBuilder) PoseidonChip() poseidon.Chip {
	if b.perm == nil {
		panic("circuits: poseidon chip not configured")
	}
	return *b.perm
}

func (b *ConfigsBuilder) Sponge() poseidon.Sponge {
	if b.sponge == nil {
		panic("circuits: sponge not configured")
	}
	return *b.sponge
}

func (b *ConfigsBuilder) NoteChip() chips.NoteChip {
	if b.note == nil {
		panic("circuits: note chip not configured")
	}
	return *b.note
}

func (b *ConfigsBuilder) NullifierChip() chips.NullifierChip {
	if b.nullifier == nil {
		panic("circuits: nullifier chip not configured")
	}
	return *b.nullifier
}

func (b *ConfigsBuilder) MerkleChip() chips.MerkleChip {
	if b.merkle == nil {
		panic("circuits: merkle chip not configured")
	}
	return *b.merkle
}

// Finish concludes configuration and hands out the synthesis column pool.
func (b *ConfigsBuilder) Finish() (*plonk.SynthPool, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.log.Debug().
		Int("advice", b.cs.NumAdvice()).
		Int("fixed", b.cs.NumFixed()).
		Int("selectors", b.cs.NumSelectors()).
		Msg("configuration concluded")
	return b.advicePool.Conclude(), nil
}

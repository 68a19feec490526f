package plonk

import (
	"fmt"

	"github.com/consensys/gnark/logger"
	"github.com/fxamacker/cbor/v2"

	"github.com/zkpool/shielder/expr"
)

// SelectorSlot is the physical location of a selector after finalization:
// the fixed column its group shares, and the value stored there when this
// selector is active (1 for singleton groups, the 1-based group position
// otherwise).
type SelectorSlot struct {
	Column    Column
	Value     uint64
	GroupSize int
}

// CompiledGate is a gate with selector queries rewritten into fixed-column
// polynomials. Its polynomials vanish on every row of a valid witness.
type CompiledGate struct {
	Name  string
	Polys []expr.Expression
}

// Layout is the frozen, immutable output of the configuration phase. It is
// produced once per circuit type and shared read-only by every synthesis
// pass. The same chip sequence always finalizes to a bit-identical layout.
type Layout struct {
	NumAdvice    int
	NumFixed     int
	InstanceSize int

	// fixed column backing constants assigned during synthesis
	Constant Column

	Selectors []SelectorSlot
	Groups    [][]int
	Gates     []CompiledGate

	equality map[Column]bool
}

type finalizeConfig struct {
	compress     bool
	manualGroups [][]int
}

// FinalizeOption adjusts layout finalization.
type FinalizeOption func(*finalizeConfig)

// WithSelectorCompression toggles the compression pass. Maximal safe
// compression is the default.
func WithSelectorCompression(on bool) FinalizeOption {
	return func(c *finalizeConfig) { c.compress = on }
}

// WithSelectorGroups overrides the automatic grouping. The groups are
// validated against the static conflict graph and rejected with
// ErrSelectorCompressionConflict if any two members can collide.
func WithSelectorGroups(groups [][]int) FinalizeOption {
	return func(c *finalizeConfig) { c.manualGroups = groups }
}

// Finalize freezes a fully configured constraint system into a Layout:
// selectors are grouped and mapped onto fresh fixed columns, one more
// fixed column is reserved for constants, and every gate polynomial is
// rewritten to query those columns instead of virtual selectors.
func Finalize(cs *ConstraintSystem, opts ...FinalizeOption) (*Layout, error) {
	cfg := finalizeConfig{compress: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var groups [][]int
	switch {
	case cfg.manualGroups != nil:
		groups = cfg.manualGroups
		if err := validateGroups(cs, groups); err != nil {
			return nil, err
		}
	case cfg.compress:
		groups = groupSelectors(cs)
		if err := validateGroups(cs, groups); err != nil {
			// the automatic pass never produces a conflicting group;
			// reaching this is a defect in the pass itself
			return nil, fmt.Errorf("automatic selector grouping is inconsistent: %w", err)
		}
	default:
		groups = uncompressedGroups(cs)
	}

	slots := make([]SelectorSlot, cs.NumSelectors())
	for _, group := range groups {
		col := cs.FixedColumn()
		for pos, s := range group {
			slots[s] = SelectorSlot{Column: col, Value: uint64(pos + 1), GroupSize: len(group)}
		}
	}
	constant := cs.FixedColumn()

	replace := func(index int) expr.Expression {
		slot := slots[index]
		return selectorReplacement(slot.Column, int(slot.Value), slot.GroupSize)
	}
	gates := make([]CompiledGate, len(cs.gates))
	for i, g := range cs.gates {
		polys := make([]expr.Expression, len(g.polys))
		for j, p := range g.polys {
			polys[j] = p.MapSelectors(replace)
		}
		gates[i] = CompiledGate{Name: g.name, Polys: polys}
	}

	equality := make(map[Column]bool, len(cs.equality))
	for c := range cs.equality {
		equality[c] = true
	}
	// constants are enforced through copy-constraints against this column
	equality[constant] = true

	log := logger.Logger()
	log.Info().
		Int("advice", cs.NumAdvice()).
		Int("fixed", cs.NumFixed()).
		Int("selectors", cs.NumSelectors()).
		Int("selectorColumns", len(groups)).
		Int("gates", len(gates)).
		Int("instanceSize", cs.instanceSize).
		Msg("layout finalized")
	for _, dup := range cs.DuplicatePolys() {
		log.Warn().Str("gate", dup).Msg("duplicate constraint polynomial")
	}

	return &Layout{
		NumAdvice:    cs.NumAdvice(),
		NumFixed:     cs.NumFixed(),
		InstanceSize: cs.instanceSize,
		Constant:     constant,
		Selectors:    slots,
		Groups:       groups,
		Gates:        gates,
		equality:     equality,
	}, nil
}

// EqualityEnabled reports whether a column takes part in copy-constraints.
func (l *Layout) EqualityEnabled(c Column) bool {
	return l.equality[c]
}

type layoutBlob struct {
	NumAdvice    int            `cbor:"1,keyasint"`
	NumFixed     int            `cbor:"2,keyasint"`
	InstanceSize int            `cbor:"3,keyasint"`
	Constant     int            `cbor:"4,keyasint"`
	Selectors    []selectorBlob `cbor:"5,keyasint"`
	Gates        []gateBlob     `cbor:"6,keyasint"`
	Equality     []int          `cbor:"7,keyasint"`
}

type selectorBlob struct {
	Column int    `cbor:"1,keyasint"`
	Value  uint64 `cbor:"2,keyasint"`
	Size   int    `cbor:"3,keyasint"`
}

type gateBlob struct {
	Name  string   `cbor:"1,keyasint"`
	Polys []string `cbor:"2,keyasint"`
}

// MarshalBinary encodes the layout in canonical CBOR. The encoding is the
// persisted per-circuit-type artifact; two configurations of the same chip
// sequence must produce byte-identical encodings.
func (l *Layout) MarshalBinary() ([]byte, error) {
	blob := layoutBlob{
		NumAdvice:    l.NumAdvice,
		NumFixed:     l.NumFixed,
		InstanceSize: l.InstanceSize,
		Constant:     l.Constant.Index,
	}
	for _, s := range l.Selectors {
		blob.Selectors = append(blob.Selectors, selectorBlob{
			Column: s.Column.Index,
			Value:  s.Value,
			Size:   s.GroupSize,
		})
	}
	for _, g := range l.Gates {
		gb := gateBlob{Name: g.Name}
		for _, p := range g.Polys {
			gb.Polys = append(gb.Polys, p.String())
		}
		blob.Gates = append(blob.Gates, gb)
	}
	for i := 0; i < l.NumAdvice; i++ {
		if l.equality[Column{Kind: Advice, Index: i}] {
			blob.Equality = append(blob.Equality, i)
		}
	}
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return mode.Marshal(blob)
}

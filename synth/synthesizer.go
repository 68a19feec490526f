package synth

import (
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/plonk"
)

// Synthesizer is the write handle chips receive during the synthesis
// phase: the witness table of one circuit instance plus the frozen advice
// pool. Synthesis within one instance is sequential; independent instances
// get independent synthesizers.
type Synthesizer struct {
	asg  *plonk.Assignment
	pool *plonk.SynthPool

	scope string

	// shared across namespaces: one embedded cell per distinct constant
	constants map[fr.Element]plonk.AssignedCell
}

// NewSynthesizer wraps an assignment and a concluded advice pool.
func NewSynthesizer(asg *plonk.Assignment, pool *plonk.SynthPool) *Synthesizer {
	return &Synthesizer{
		asg:       asg,
		pool:      pool,
		constants: make(map[fr.Element]plonk.AssignedCell),
	}
}

// Namespaced returns a synthesizer writing to the same table, with region
// names prefixed for diagnostics.
func (s *Synthesizer) Namespaced(name string) *Synthesizer {
	ns := *s
	if ns.scope == "" {
		ns.scope = name
	} else {
		ns.scope = ns.scope + "/" + name
	}
	return &ns
}

// Assignment returns the underlying witness table.
func (s *Synthesizer) Assignment() *plonk.Assignment { return s.asg }

// Pool returns the synthesis-phase advice pool.
func (s *Synthesizer) Pool() *plonk.SynthPool { return s.pool }

// NewRegion allocates a named region of the table.
func (s *Synthesizer) NewRegion(name string, rows int) *plonk.Region {
	if s.scope != "" {
		name = s.scope + "/" + name
	}
	return s.asg.NewRegion(name, rows)
}

// AssignValue writes a single value into a dedicated one-row region on
// some pooled column.
func (s *Synthesizer) AssignValue(name string, v Value) (plonk.AssignedCell, error) {
	concrete, err := v.Unwrap()
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	region := s.NewRegion(name, 1)
	return region.AssignAdvice(s.pool.GetAny(), 0, concrete)
}

// AssignConstant embeds a constant: an advice cell copy-constrained to the
// layout's constant fixed column. Repeated constants reuse the first
// embedding.
func (s *Synthesizer) AssignConstant(name string, c fr.Element) (plonk.AssignedCell, error) {
	if cell, ok := s.constants[c]; ok {
		return cell, nil
	}
	region := s.NewRegion(name, 1)
	advice, err := region.AssignAdvice(s.pool.GetAny(), 0, c)
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	fixed, err := region.AssignFixed(s.asg.Layout().Constant, 0, c)
	if err != nil {
		return plonk.AssignedCell{}, err
	}
	if err := region.ConstrainEqual(advice, fixed); err != nil {
		return plonk.AssignedCell{}, err
	}
	s.constants[c] = advice
	return advice, nil
}

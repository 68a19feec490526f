// Package checker decides whether an assigned witness table satisfies its
// layout: every gate polynomial must vanish on every row, copy-constrained
// cells must agree, and cells pinned to public slots must match the
// instance vector. It is the development-time stand-in for the real
// prover's satisfiability check and the workhorse of the circuit tests.
package checker

import (
	"fmt"
	"strings"

	"github.com/zkpool/shielder/plonk"
)

// Failure describes one violated constraint.
type Failure struct {
	// Gate is the offending gate name, empty for copy/instance failures.
	Gate       string
	Constraint int
	Row        int
	Detail     string
}

func (f Failure) String() string {
	if f.Gate != "" {
		return fmt.Sprintf("gate %q constraint %d not satisfied at row %d", f.Gate, f.Constraint, f.Row)
	}
	return f.Detail
}

// Failures evaluates every constraint of the assignment and returns all
// violations.
func Failures(a *plonk.Assignment) []Failure {
	var fails []Failure

	for _, gate := range a.Layout().Gates {
		for ci, poly := range gate.Polys {
			for row := 0; row < a.Height(); row++ {
				if v := poly.Eval(a, row); !v.IsZero() {
					fails = append(fails, Failure{Gate: gate.Name, Constraint: ci, Row: row})
				}
			}
		}
	}

	for _, cp := range a.Copies() {
		va := a.CellValue(cp.A)
		vb := a.CellValue(cp.B)
		if !va.Equal(&vb) {
			fails = append(fails, Failure{
				Detail: fmt.Sprintf("copy-constraint violated between (%v) and (%v)", cp.A, cp.B),
			})
		}
	}

	for _, ic := range a.InstanceCopies() {
		cell := a.CellValue(ic.Cell)
		pub := a.Instance()[ic.Slot]
		if !cell.Equal(&pub) {
			fails = append(fails, Failure{
				Detail: fmt.Sprintf("cell (%v) does not match instance slot %d", ic.Cell, ic.Slot),
			})
		}
	}

	return fails
}

// Satisfied returns nil iff the assignment satisfies its layout, and
// otherwise an error listing every violation.
func Satisfied(a *plonk.Assignment) error {
	fails := Failures(a)
	if len(fails) == 0 {
		return nil
	}
	msgs := make([]string, len(fails))
	for i, f := range fails {
		msgs[i] = f.String()
	}
	return fmt.Errorf("witness does not satisfy the circuit:\n  %s", strings.Join(msgs, "\n  "))
}

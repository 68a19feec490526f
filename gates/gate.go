// Package gates holds the closed set of polynomial gates circuits are
// built from. A gate lives in two strictly separated phases: its
// constructor runs during configuration, requesting columns and a selector
// and registering pure-data constraint polynomials; Apply runs during
// synthesis, embedding input cells at the exact coordinates configuration
// committed to and enabling the selector. A gate never requests resources
// during synthesis and never computes a witness value it constrains.
package gates

import (
	"fmt"

	"github.com/zkpool/shielder/expr"
	"github.com/zkpool/shielder/plonk"
)

// Gate is the capability shared by every gate in the set.
type Gate interface {
	Name() string
	Selector() plonk.Selector
}

// LayoutMismatch is the panic payload raised when synthesis-time inputs
// disagree with the shape a gate committed to at configuration time. This
// is a defect in the calling code, not a recoverable condition.
type LayoutMismatch struct {
	Gate   string
	Detail string
}

func (e LayoutMismatch) Error() string {
	return fmt.Sprintf("gate %q: layout mismatch: %s", e.Gate, e.Detail)
}

func ensureUniqueColumns(gate string, cols []plonk.Column) {
	seen := make(map[plonk.Column]bool, len(cols))
	for _, c := range cols {
		if seen[c] {
			panic(fmt.Sprintf("gate %q: column %v used twice", gate, c))
		}
		seen[c] = true
	}
}

// cur queries an advice column on the gate's own row.
func cur(c plonk.Column) expr.Expression {
	return expr.Advice{Column: c.Index, Rotation: 0}
}

// next queries an advice column one row below.
func next(c plonk.Column) expr.Expression {
	return expr.Advice{Column: c.Index, Rotation: 1}
}

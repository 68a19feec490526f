// Package expr models polynomial constraint expressions over circuit
// columns. An expression is pure data: a closed set of node variants over
// column queries, built during configuration and only ever evaluated against
// a witness table afterwards. Based on the term/expression split used by
// gnark's frontend expressions, extended to arbitrary-degree products and
// rotated column queries.
package expr

import (
	"fmt"
	"strings"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkpool/shielder/utils"
)

// Table gives read access to the cells an expression may query. Row indices
// wrap around the table height, mirroring rotation semantics of the backend.
type Table interface {
	QueryAdvice(column, row int) fr.Element
	QueryFixed(column, row int) fr.Element
}

// Expression is one node of a constraint polynomial. The set of variants is
// closed: Constant, Advice, Fixed, Selector, Sum, Product, Scaled and
// Negated. Expressions are immutable once built.
type Expression interface {
	utils.Hashable

	// Eval computes the expression at the given row of a witness table.
	// Selector variants must have been rewritten away first (see
	// MapSelectors); evaluating one is a programming error and panics.
	Eval(tab Table, row int) fr.Element

	// Degree returns the polynomial degree, counting each column or
	// selector query as degree one.
	Degree() int

	// MapSelectors returns a copy of the expression with every Selector
	// node replaced by f(index). Leaves the receiver untouched.
	MapSelectors(f func(index int) Expression) Expression

	String() string
}

// Constant is a fixed field element.
type Constant struct {
	Value fr.Element
}

// Advice queries an advice column at a row rotation.
type Advice struct {
	Column   int
	Rotation int
}

// Fixed queries a fixed column at a row rotation.
type Fixed struct {
	Column   int
	Rotation int
}

// Selector is a placeholder query of a virtual selector. Layout
// finalization rewrites it into a fixed-column polynomial.
type Selector struct {
	Index int
}

// Sum is A + B.
type Sum struct {
	A, B Expression
}

// Product is A * B.
type Product struct {
	A, B Expression
}

// Scaled is C * E.
type Scaled struct {
	E Expression
	C fr.Element
}

// Negated is -E.
type Negated struct {
	E Expression
}

// NewConstant lifts a uint64 into a constant node.
func NewConstant(v uint64) Constant {
	var e fr.Element
	e.SetUint64(v)
	return Constant{Value: e}
}

// NewElement lifts a field element into a constant node.
func NewElement(v fr.Element) Constant {
	return Constant{Value: v}
}

// Add folds the operands into a left-nested sum. At least one operand is
// required.
func Add(es ...Expression) Expression {
	if len(es) == 0 {
		panic("expr: Add requires at least one operand")
	}
	acc := es[0]
	for _, e := range es[1:] {
		acc = Sum{A: acc, B: e}
	}
	return acc
}

// Mul folds the operands into a left-nested product.
func Mul(es ...Expression) Expression {
	if len(es) == 0 {
		panic("expr: Mul requires at least one operand")
	}
	acc := es[0]
	for _, e := range es[1:] {
		acc = Product{A: acc, B: e}
	}
	return acc
}

// Sub returns a - b.
func Sub(a, b Expression) Expression {
	return Sum{A: a, B: Negated{E: b}}
}

func (c Constant) Eval(Table, int) fr.Element { return c.Value }
func (c Constant) Degree() int                { return 0 }
func (c Constant) MapSelectors(func(int) Expression) Expression {
	return c
}
func (c Constant) String() string { return c.Value.String() }

func (a Advice) Eval(tab Table, row int) fr.Element {
	return tab.QueryAdvice(a.Column, row+a.Rotation)
}
func (a Advice) Degree() int { return 1 }
func (a Advice) MapSelectors(func(int) Expression) Expression {
	return a
}
func (a Advice) String() string { return fmt.Sprintf("a%d@%d", a.Column, a.Rotation) }

func (f Fixed) Eval(tab Table, row int) fr.Element {
	return tab.QueryFixed(f.Column, row+f.Rotation)
}
func (f Fixed) Degree() int { return 1 }
func (f Fixed) MapSelectors(func(int) Expression) Expression {
	return f
}
func (f Fixed) String() string { return fmt.Sprintf("f%d@%d", f.Column, f.Rotation) }

func (s Selector) Eval(Table, int) fr.Element {
	panic(fmt.Sprintf("expr: selector s%d queried before layout finalization", s.Index))
}
func (s Selector) Degree() int { return 1 }
func (s Selector) MapSelectors(f func(int) Expression) Expression {
	return f(s.Index)
}
func (s Selector) String() string { return fmt.Sprintf("s%d", s.Index) }

func (s Sum) Eval(tab Table, row int) fr.Element {
	a := s.A.Eval(tab, row)
	b := s.B.Eval(tab, row)
	return *a.Add(&a, &b)
}
func (s Sum) Degree() int {
	return max(s.A.Degree(), s.B.Degree())
}
func (s Sum) MapSelectors(f func(int) Expression) Expression {
	return Sum{A: s.A.MapSelectors(f), B: s.B.MapSelectors(f)}
}
func (s Sum) String() string { return "(" + s.A.String() + " + " + s.B.String() + ")" }

func (p Product) Eval(tab Table, row int) fr.Element {
	a := p.A.Eval(tab, row)
	b := p.B.Eval(tab, row)
	return *a.Mul(&a, &b)
}
func (p Product) Degree() int {
	return p.A.Degree() + p.B.Degree()
}
func (p Product) MapSelectors(f func(int) Expression) Expression {
	return Product{A: p.A.MapSelectors(f), B: p.B.MapSelectors(f)}
}
func (p Product) String() string { return p.A.String() + "*" + p.B.String() }

func (s Scaled) Eval(tab Table, row int) fr.Element {
	e := s.E.Eval(tab, row)
	return *e.Mul(&e, &s.C)
}
func (s Scaled) Degree() int { return s.E.Degree() }
func (s Scaled) MapSelectors(f func(int) Expression) Expression {
	return Scaled{E: s.E.MapSelectors(f), C: s.C}
}
func (s Scaled) String() string { return s.C.String() + "*" + s.E.String() }

func (n Negated) Eval(tab Table, row int) fr.Element {
	e := n.E.Eval(tab, row)
	return *e.Neg(&e)
}
func (n Negated) Degree() int { return n.E.Degree() }
func (n Negated) MapSelectors(f func(int) Expression) Expression {
	return Negated{E: n.E.MapSelectors(f)}
}
func (n Negated) String() string { return "-" + n.E.String() }

// Strings renders a list of expressions, used in diagnostics.
func Strings(es []Expression) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

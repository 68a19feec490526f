package plonk

import "errors"

var (
	// ErrResourceExhausted reports a configuration that asked the column
	// pool for more columns than it may allocate. Recoverable only by
	// redesigning the chip composition.
	ErrResourceExhausted = errors.New("plonk: column pool exhausted")

	// ErrSelectorCompressionConflict reports a selector grouping in which
	// two selectors are provably active on the same row. The layout is
	// rejected rather than silently dropping a constraint.
	ErrSelectorCompressionConflict = errors.New("plonk: selector compression conflict")

	// ErrCellOverwritten reports a second write to a witness cell within
	// one synthesis pass.
	ErrCellOverwritten = errors.New("plonk: cell written twice")
)

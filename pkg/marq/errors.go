package marq

import (
	"fmt"
	"strings"
)

// SyntaxError reports input that does not match the grammar. It carries the
// offending position and the alternatives that were grammatically valid
// there. The first syntax error aborts the whole translation; no partial
// output is produced.
type SyntaxError struct {
	Position Pos
	Expected []string
}

func (e *SyntaxError) Error() string {
	switch len(e.Expected) {
	case 0:
		return fmt.Sprintf("%s: unexpected token", e.Position)
	case 1:
		return fmt.Sprintf("%s: expected %s", e.Position, e.Expected[0])
	default:
		return fmt.Sprintf("%s: expected one of %s", e.Position, strings.Join(e.Expected, ", "))
	}
}

// OrderingViolation reports a let statement that appears after non-let
// content within the same block. Misplaced lets are a hard error, never
// silently hoisted or reordered.
type OrderingViolation struct {
	Position Pos
}

func (e *OrderingViolation) Error() string {
	return fmt.Sprintf("%s: let statements must precede all other statements in a block", e.Position)
}

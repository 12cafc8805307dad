package projection

import (
	"math"
	"strconv"
)

type cellKind uint8

const (
	emptyCell cellKind = iota
	textCell
	numberCell
)

// Cell is one projected value: empty, text or number.
type Cell struct {
	kind   cellKind
	text   string
	number float64
}

// Empty is the cell produced for absent optional values.
var Empty = Cell{}

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: textCell, text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{kind: numberCell, number: f} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.kind == emptyCell }

// Number returns the numeric value, if the cell is numeric.
func (c Cell) Number() (float64, bool) { return c.number, c.kind == numberCell }

// String renders the cell at full precision.
func (c Cell) String() string { return c.Format(-1) }

// Format renders the cell. Numbers are rounded to precision decimals; a
// negative precision keeps full precision. Empty cells render as "".
func (c Cell) Format(precision int) string {
	switch c.kind {
	case textCell:
		return c.text
	case numberCell:
		if precision < 0 {
			return strconv.FormatFloat(c.number, 'f', -1, 64)
		}
		return strconv.FormatFloat(roundHalfAway(c.number, precision), 'f', precision, 64)
	default:
		return ""
	}
}

// roundHalfAway avoids FormatFloat's round-half-even on exact binary halves.
func roundHalfAway(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Package harvest parses the free-text yield descriptions found in herb and
// recipe tables ("2 Blätter und eine geschlossene Samenkapsel",
// "IF TaP*>=7: 7W6 Beeren") into ordered items and rolls them.
package harvest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/alchimist/internal/game/dice"
)

// Comparator is the relation a Threshold checks.
type Comparator int

const (
	// AtLeast holds when points >= value.
	AtLeast Comparator = iota
	// Greater holds when points > value.
	Greater
)

// String returns the operator as written in the tables.
func (c Comparator) String() string {
	switch c {
	case AtLeast:
		return ">="
	case Greater:
		return ">"
	default:
		return "?"
	}
}

// Threshold gates an item on the check's point total.
type Threshold struct {
	Comparator Comparator
	Value      int
}

// Holds reports whether points satisfies the threshold.
func (t Threshold) Holds(points int) bool {
	switch t.Comparator {
	case Greater:
		return points > t.Value
	default:
		return points >= t.Value
	}
}

func (t Threshold) String() string {
	return "TaP*" + t.Comparator.String() + strconv.Itoa(t.Value)
}

// Quantity is either a fixed amount or a dice expression. The zero Dice value
// means the quantity is fixed.
type Quantity struct {
	Fixed int
	Dice  dice.Expression
}

// FixedQuantity returns a fixed Quantity of n.
func FixedQuantity(n int) Quantity { return Quantity{Fixed: n} }

// DiceQuantity returns a Quantity rolled from e.
func DiceQuantity(e dice.Expression) Quantity { return Quantity{Dice: e} }

// IsDice reports whether the quantity must be rolled.
func (q Quantity) IsDice() bool { return q.Dice.Count > 0 }

// String returns the dice text as written, or the fixed amount.
func (q Quantity) String() string {
	if q.IsDice() {
		return q.Dice.Raw
	}
	return strconv.Itoa(q.Fixed)
}

// Item is one product of a yield description.
type Item struct {
	Product   string
	Quantity  Quantity
	Threshold *Threshold
}

// RolledItem is an Item whose quantity has been resolved.
type RolledItem struct {
	Item
	Total int
	// DiceText is the original notation; empty for fixed quantities.
	DiceText string
	// Rolls holds the individual dice when more than one die was rolled.
	Rolls []int
}

// String renders the item for display, e.g. "23 Beeren (7W6: [3 4 2 5 1 6 2])".
func (r RolledItem) String() string {
	out := strings.TrimSpace(fmt.Sprintf("%d %s", r.Total, r.Product))
	switch {
	case r.DiceText == "":
		return out
	case len(r.Rolls) > 1:
		return fmt.Sprintf("%s (%s: %v)", out, r.DiceText, r.Rolls)
	default:
		return fmt.Sprintf("%s (%s)", out, r.DiceText)
	}
}

// Summary joins rolled items into one display line.
func Summary(items []RolledItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.String())
	}
	return strings.Join(parts, ", ")
}

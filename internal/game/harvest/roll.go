package harvest

import "github.com/cory-johannsen/alchimist/internal/game/dice"

// Roll parses text like Parse and resolves every dice quantity with src. When
// points is non-nil, conditional segments it does not satisfy are omitted.
//
// Precondition: src must be non-nil.
func Roll(text string, points *int, src dice.Source) []RolledItem {
	items := Parse(text, ParseOptions{ApplyCondition: points != nil, Points: points})
	return RollItems(items, src)
}

// Gate returns the items whose threshold, if any, holds for points. Items
// parsed once without conditions can be gated per resolution.
func Gate(items []Item, points int) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Threshold == nil || it.Threshold.Holds(points) {
			out = append(out, it)
		}
	}
	return out
}

// RollItems resolves already parsed items, preserving their order.
func RollItems(items []Item, src dice.Source) []RolledItem {
	out := make([]RolledItem, 0, len(items))
	for _, it := range items {
		out = append(out, rollItem(it, src))
	}
	return out
}

func rollItem(it Item, src dice.Source) RolledItem {
	if !it.Quantity.IsDice() {
		return RolledItem{Item: it, Total: it.Quantity.Fixed}
	}
	// Roll only fails for expressions that did not come from Parse.
	res, err := dice.Roll(it.Quantity.Dice, src)
	if err != nil {
		return RolledItem{Item: it, DiceText: it.Quantity.Dice.Raw}
	}
	r := RolledItem{Item: it, Total: res.Total(), DiceText: it.Quantity.Dice.Raw}
	if len(res.Dice) > 1 {
		r.Rolls = res.Dice
	}
	return r
}

package harvest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/alchimist/internal/game/dice"
	"github.com/cory-johannsen/alchimist/internal/game/harvest"
)

func TestParse_UndSeparator(t *testing.T) {
	items := harvest.Parse("2 Blätter und eine geschlossene Samenkapsel", harvest.ParseOptions{})
	require.Len(t, items, 2)
	assert.Equal(t, "Blätter", items[0].Product)
	assert.Equal(t, harvest.FixedQuantity(2), items[0].Quantity)
	assert.Equal(t, "geschlossene Samenkapsel", items[1].Product)
	assert.Equal(t, harvest.FixedQuantity(1), items[1].Quantity)
}

func TestParse_SemicolonWinsOverUnd(t *testing.T) {
	items := harvest.Parse("1W6 Blüten und Knospen; 3 Wurzeln", harvest.ParseOptions{})
	require.Len(t, items, 2)
	assert.Equal(t, "Blüten und Knospen", items[0].Product)
	assert.True(t, items[0].Quantity.IsDice())
	assert.Equal(t, "1W6", items[0].Quantity.String())
	assert.Equal(t, "Wurzeln", items[1].Product)
}

func TestParse_ConditionGating(t *testing.T) {
	assert.Empty(t, harvest.ParseWithPoints("IF TaP*>=7: 7W6 Beeren", 5))

	items := harvest.ParseWithPoints("IF TaP*>=7: 7W6 Beeren", 10)
	require.Len(t, items, 1)
	assert.Equal(t, "7W6", items[0].Quantity.String())
	assert.Equal(t, "Beeren", items[0].Product)
	require.NotNil(t, items[0].Threshold)
	assert.Equal(t, harvest.AtLeast, items[0].Threshold.Comparator)
	assert.Equal(t, 7, items[0].Threshold.Value)
}

func TestParse_StrictGreater(t *testing.T) {
	text := "3 Blätter; IF TaP*>4: 1 Wurzel"
	assert.Len(t, harvest.ParseWithPoints(text, 4), 1)
	items := harvest.ParseWithPoints(text, 5)
	require.Len(t, items, 2)
	assert.Equal(t, "TaP*>4", items[1].Threshold.String())
}

func TestParse_ConditionKeptWithoutPoints(t *testing.T) {
	items := harvest.Parse("IF TaP*>=7: 7W6 Beeren", harvest.ParseOptions{ApplyCondition: true})
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].Threshold)
}

func TestParse_ConditionIgnoredWhenNotApplied(t *testing.T) {
	p := 1
	items := harvest.Parse("IF TaP*>=7: 7W6 Beeren", harvest.ParseOptions{Points: &p})
	assert.Len(t, items, 1)
}

func TestParse_StripsAsides(t *testing.T) {
	items := harvest.Parse("2W6 Blätter (nur im Frühling, sonst welk)", harvest.ParseOptions{})
	require.Len(t, items, 1)
	assert.Equal(t, "Blätter", items[0].Product)
	assert.Equal(t, "2W6", items[0].Quantity.String())
}

func TestParse_ConnectorPromotesSubQuantity(t *testing.T) {
	items := harvest.Parse("eine Dolde mit 2W6 Beeren", harvest.ParseOptions{})
	require.Len(t, items, 1)
	assert.Equal(t, "2W6", items[0].Quantity.String())
	assert.Equal(t, "Beeren", items[0].Product)
}

func TestParse_UnitWordsStayInProduct(t *testing.T) {
	items := harvest.Parse("1W3 Stein Harz; zwölf Maß Saft", harvest.ParseOptions{})
	require.Len(t, items, 2)
	assert.Equal(t, "Stein Harz", items[0].Product)
	assert.Equal(t, "Maß Saft", items[1].Product)
	assert.Equal(t, 12, items[1].Quantity.Fixed)
}

func TestParse_NumberWords(t *testing.T) {
	cases := map[string]int{
		"vier Blüten":        4,
		"Zwölf Blätter":      12,
		"ein Dutzend Nüsse":  12,
		"dreißig Samen":      30,
		"fünf Knollen":       5,
		"eine kleine Wurzel": 1,
		"einer Blüte":        1,
		"einem Zweig":        1,
		"eines Krauts":       1,
		"einen Pilz":         1,
	}
	for text, want := range cases {
		t.Run(text, func(t *testing.T) {
			items := harvest.Parse(text, harvest.ParseOptions{})
			require.Len(t, items, 1)
			assert.Equal(t, want, items[0].Quantity.Fixed)
			assert.False(t, items[0].Quantity.IsDice())
		})
	}
}

func TestParse_ArticleLeavesProduct(t *testing.T) {
	cases := map[string]string{
		"einer Blüte":  "Blüte",
		"einem Zweig":  "Zweig",
		"eines Krauts": "Krauts",
	}
	for text, want := range cases {
		t.Run(text, func(t *testing.T) {
			items := harvest.Parse(text, harvest.ParseOptions{})
			require.Len(t, items, 1)
			assert.Equal(t, want, items[0].Product)
		})
	}
}

func TestParse_InnerNumberWordIsNotAQuantity(t *testing.T) {
	items := harvest.Parse("Blätter von drei Pflanzen", harvest.ParseOptions{})
	require.Len(t, items, 1)
	assert.Equal(t, harvest.FixedQuantity(1), items[0].Quantity)
	assert.Equal(t, "Blätter von drei Pflanzen", items[0].Product)

	items = harvest.Parse("Harz, etwa 2W6 Stein", harvest.ParseOptions{})
	require.Len(t, items, 1)
	assert.Equal(t, "2W6", items[0].Quantity.String())
	assert.Equal(t, "Stein", items[0].Product)
}

func TestParse_StopWordEndsProduct(t *testing.T) {
	items := harvest.Parse("3 Blüten pro Pflanze", harvest.ParseOptions{})
	require.Len(t, items, 1)
	assert.Equal(t, "Blüten", items[0].Product)
}

func TestParse_NoQuantityDefaultsToOne(t *testing.T) {
	items := harvest.Parse("das gesamte Moos", harvest.ParseOptions{})
	require.Len(t, items, 1)
	assert.Equal(t, harvest.FixedQuantity(1), items[0].Quantity)
	assert.Equal(t, "das gesamte Moos", items[0].Product)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, harvest.Parse("", harvest.ParseOptions{}))
	assert.Empty(t, harvest.Parse("  ;  ", harvest.ParseOptions{}))
}

func TestParse_Idempotent(t *testing.T) {
	texts := []string{
		"2 Blätter und eine geschlossene Samenkapsel",
		"IF TaP*>=7: 7W6 Beeren; W3+1 Wurzeln (getrocknet)",
		"eine Dolde mit 2W6 Beeren",
	}
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.SampledFrom(texts).Draw(rt, "text")
		points := rapid.IntRange(-5, 20).Draw(rt, "points")
		a := harvest.ParseWithPoints(text, points)
		b := harvest.ParseWithPoints(text, points)
		assert.Equal(rt, a, b)
	})
}

func TestRoll_ResolvesDice(t *testing.T) {
	src := dice.NewSequence(1, 2, 3, 4, 5, 6, 1)
	points := 10
	rolled := harvest.Roll("IF TaP*>=7: 7W6 Beeren; 2 Blätter", &points, src)
	require.Len(t, rolled, 2)

	assert.Equal(t, 22, rolled[0].Total)
	assert.Equal(t, "7W6", rolled[0].DiceText)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 1}, rolled[0].Rolls)
	assert.Equal(t, "22 Beeren (7W6: [1 2 3 4 5 6 1])", rolled[0].String())

	assert.Equal(t, 2, rolled[1].Total)
	assert.Empty(t, rolled[1].DiceText)
	assert.Equal(t, "2 Blätter", rolled[1].String())
}

func TestRoll_SingleDieKeepsNoRollList(t *testing.T) {
	rolled := harvest.Roll("W3+1 Wurzeln", nil, dice.NewSequence(2))
	require.Len(t, rolled, 1)
	assert.Equal(t, 3, rolled[0].Total)
	assert.Nil(t, rolled[0].Rolls)
	assert.Equal(t, "3 Wurzeln (W3+1)", rolled[0].String())
}

func TestRoll_FailedConditionOmitted(t *testing.T) {
	points := 3
	rolled := harvest.Roll("IF TaP*>=7: 7W6 Beeren; 2 Blätter", &points, dice.NewSequence(6))
	require.Len(t, rolled, 1)
	assert.Equal(t, "Blätter", rolled[0].Product)
}

func TestRoll_TotalsWithinRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		rolled := harvest.Roll("3W6+2 Blätter", nil, dice.NewSeededSource(seed))
		require.Len(rt, rolled, 1)
		assert.GreaterOrEqual(rt, rolled[0].Total, 5)
		assert.LessOrEqual(rt, rolled[0].Total, 20)
	})
}

func TestSummary(t *testing.T) {
	rolled := harvest.Roll("2 Blätter und eine Samenkapsel", nil, dice.NewSequence(1))
	assert.Equal(t, "2 Blätter, 1 Samenkapsel", harvest.Summary(rolled))
}

func TestParse_AsideWithSeparator(t *testing.T) {
	items := harvest.Parse("4 Blüten (Blätter und Stängel sind wertlos)", harvest.ParseOptions{})
	require.Len(t, items, 1)
	assert.Equal(t, "Blüten", items[0].Product)
}

func TestGate_MatchesParseWithPoints(t *testing.T) {
	texts := []string{
		"2 Blätter; IF TaP*>=7: eine geschlossene Samenkapsel",
		"IF TaP*>4: 1 Wurzel; 3 Blätter",
		"ein Zweig mit 2W6 Beeren; IF TaP*>=7: 7W6 Beeren",
	}
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.SampledFrom(texts).Draw(rt, "text")
		points := rapid.IntRange(-5, 20).Draw(rt, "points")
		parsed := harvest.Parse(text, harvest.ParseOptions{})
		assert.Equal(rt, harvest.ParseWithPoints(text, points), harvest.Gate(parsed, points))
	})
}

package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/alchimist/internal/game/catalog"
	"github.com/cory-johannsen/alchimist/internal/game/check"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadHerbs_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "wirselkraut.yaml"), `
id: wirselkraut
name: "Wirselkraut"
difficulty: 1
yield: "2 Blätter und eine geschlossene Samenkapsel"
shelf_life: "einige Wochen"
`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	herbs, err := catalog.LoadHerbs(dir)
	require.NoError(t, err)
	require.Len(t, herbs, 1)
	h := herbs[0]
	assert.Equal(t, "wirselkraut", h.ID)
	assert.Equal(t, 1, h.Difficulty)
	assert.Equal(t, "einige Wochen", h.ShelfLife)
	require.Len(t, h.Items, 2)
	assert.Equal(t, "Blätter", h.Items[0].Product)
	assert.Equal(t, "geschlossene Samenkapsel", h.Items[1].Product)
}

func TestLoadHerbs_RequiresID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), `name: "Namenlos"`)
	_, err := catalog.LoadHerbs(dir)
	assert.Error(t, err)
}

func TestLoadHerbs_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yml"), "id: [unterminated")
	_, err := catalog.LoadHerbs(dir)
	assert.Error(t, err)
}

func TestLoadHerbs_MissingDir(t *testing.T) {
	_, err := catalog.LoadHerbs(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadRecipes_PreparesCostRule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "zaubertrank.yaml"), `
id: zaubertrank
name: "Zaubertrank"
difficulty: 6
attributes: [KL, IN, FF]
cost_formula: "16-ZfP/2"
base_cost: 2
on_failure: third
yield: "W3 Tränke"
shelf_life: "mehrere Monate"
`)
	recipes, err := catalog.LoadRecipes(dir)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	r := recipes[0]
	assert.Equal(t, []string{"KL", "IN", "FF"}, r.Attributes)
	assert.Equal(t, check.CostRule{Formula: "16-ZfP/2", BaseCost: 2, OnFailure: check.FailThird}, r.Cost)
	assert.True(t, r.FormulaValid)
	require.Len(t, r.Items, 1)
	assert.True(t, r.Items[0].Quantity.IsDice())
}

func TestLoadRecipes_InvalidFormulaStillLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "r.yaml"), `
id: r
name: "R"
attributes: [MU, KL, CH]
cost_formula: "AsP/2"
base_cost: 3
`)
	recipes, err := catalog.LoadRecipes(dir)
	require.NoError(t, err)
	assert.False(t, recipes[0].FormulaValid)
}

func TestLoadRecipes_Rejects(t *testing.T) {
	cases := map[string]string{
		"two attributes": "id: r\nname: R\nattributes: [KL, IN]\n",
		"bad policy":     "id: r\nname: R\nattributes: [KL, IN, FF]\non_failure: quarter\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "r.yaml"), body)
			_, err := catalog.LoadRecipes(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoad_BundledContent(t *testing.T) {
	reg, err := catalog.Load("../../../content/herbs", "../../../content/recipes")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Herbs())
	assert.NotEmpty(t, reg.Recipes())
	for _, rc := range reg.Recipes() {
		assert.True(t, rc.FormulaValid, "bundled recipe %s must have a valid formula", rc.ID)
	}
}

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.RegisterHerb(&catalog.Herb{ID: "Donf", Name: "Donf"})
	h, ok := reg.Herb("DONF")
	require.True(t, ok)
	assert.Equal(t, "Donf", h.Name)
	_, ok = reg.Recipe("donf")
	assert.False(t, ok)
}

func TestRegistry_RegisterPanicsOnBadInput(t *testing.T) {
	reg := catalog.NewRegistry()
	assert.Panics(t, func() { reg.RegisterHerb(nil) })
	assert.Panics(t, func() { reg.RegisterRecipe(&catalog.Recipe{}) })
}

// TestRegistry_OrderedListing: Herbs() is sorted and holds one entry per ID,
// whatever the registration order.
func TestRegistry_OrderedListing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{3,8}`), rapid.ID[string]).Draw(rt, "ids")
		reg := catalog.NewRegistry()
		for _, id := range ids {
			reg.RegisterHerb(&catalog.Herb{ID: id, Name: id})
		}
		herbs := reg.Herbs()
		assert.Len(rt, herbs, len(ids))
		for i := 1; i < len(herbs); i++ {
			assert.Less(rt, herbs[i-1].ID, herbs[i].ID)
		}
	})
}

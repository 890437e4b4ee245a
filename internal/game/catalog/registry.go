package catalog

import (
	"sort"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Registry provides case-insensitive lookup of herbs and recipes by ID. It is
// filled once at startup and read-only afterwards.
type Registry struct {
	herbs   map[string]*Herb
	recipes map[string]*Recipe
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{
		herbs:   make(map[string]*Herb),
		recipes: make(map[string]*Recipe),
	}
}

// RegisterHerb adds h to the registry; the last registration of an ID wins.
//
// Precondition: h must be non-nil with a non-empty ID.
func (r *Registry) RegisterHerb(h *Herb) {
	if h == nil {
		panic("Registry.RegisterHerb: precondition violated: herb must be non-nil")
	}
	if h.ID == "" {
		panic("Registry.RegisterHerb: precondition violated: herb ID must be non-empty")
	}
	r.herbs[fold.String(h.ID)] = h
}

// RegisterRecipe adds rc to the registry; the last registration of an ID wins.
//
// Precondition: rc must be non-nil with a non-empty ID.
func (r *Registry) RegisterRecipe(rc *Recipe) {
	if rc == nil {
		panic("Registry.RegisterRecipe: precondition violated: recipe must be non-nil")
	}
	if rc.ID == "" {
		panic("Registry.RegisterRecipe: precondition violated: recipe ID must be non-empty")
	}
	r.recipes[fold.String(rc.ID)] = rc
}

// Herb returns the herb registered under id.
func (r *Registry) Herb(id string) (*Herb, bool) {
	h, ok := r.herbs[fold.String(id)]
	return h, ok
}

// Recipe returns the recipe registered under id.
func (r *Registry) Recipe(id string) (*Recipe, bool) {
	rc, ok := r.recipes[fold.String(id)]
	return rc, ok
}

// Herbs returns all herbs ordered by ID.
func (r *Registry) Herbs() []*Herb {
	out := make([]*Herb, 0, len(r.herbs))
	for _, h := range r.herbs {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Recipes returns all recipes ordered by ID.
func (r *Registry) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(r.recipes))
	for _, rc := range r.recipes {
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Load fills a new Registry from the herb and recipe directories. An empty
// directory path skips that table.
func Load(herbsDir, recipesDir string) (*Registry, error) {
	reg := NewRegistry()
	if herbsDir != "" {
		herbs, err := LoadHerbs(herbsDir)
		if err != nil {
			return nil, err
		}
		for _, h := range herbs {
			reg.RegisterHerb(h)
		}
	}
	if recipesDir != "" {
		recipes, err := LoadRecipes(recipesDir)
		if err != nil {
			return nil, err
		}
		for _, rc := range recipes {
			reg.RegisterRecipe(rc)
		}
	}
	return reg, nil
}

package formula

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 512

// Cache memoizes compiled formulas keyed by their source text. Rejected texts
// are remembered too, so a malformed table entry is only parsed once.
//
// Cache is safe for concurrent use.
type Cache struct {
	compiled *lru.Cache[string, *Formula]
}

// NewCache returns a Cache holding at most size compiled formulas.
//
// Postcondition: Returns a non-nil Cache or an error from the LRU constructor.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *Formula](size)
	if err != nil {
		return nil, fmt.Errorf("formula: creating cache: %w", err)
	}
	return &Cache{compiled: c}, nil
}

// Compile returns the compiled formula for text, parsing it at most once while
// it stays resident.
func (c *Cache) Compile(text string) (*Formula, error) {
	if f, ok := c.compiled.Get(text); ok {
		if f == nil {
			return nil, fmt.Errorf("formula %q: %w", text, ErrInvalidFormula)
		}
		return f, nil
	}
	f, err := Parse(text)
	c.compiled.Add(text, f)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Evaluate is the cached counterpart of the package-level Evaluate.
func (c *Cache) Evaluate(text string, points int) (int, bool) {
	f, err := c.Compile(text)
	if err != nil {
		return 0, false
	}
	v, err := f.Eval(points)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Len returns the number of resident entries.
func (c *Cache) Len() int { return c.compiled.Len() }

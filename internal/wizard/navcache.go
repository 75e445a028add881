package wizard

import "github.com/olehluchkiv/epwizard/internal/pages"

// BuildFunc computes a fresh page sequence.
type BuildFunc func() ([]pages.Step, error)

// NavigationCache memoises the page sequence of the last component a
// session built pages for. It holds a single entry and is not safe for
// concurrent use; each Session owns one.
type NavigationCache struct {
	key        string
	steps      []pages.Step
	generation uint64
}

// GetOrBuild returns the cached steps when key equals the key of the last
// build, otherwise it calls build and replaces the entry. The boolean is
// true on a cache hit. A failed build leaves the previous entry in place.
func (c *NavigationCache) GetOrBuild(key string, build BuildFunc) ([]pages.Step, bool, error) {
	if c.generation > 0 && c.key == key {
		return c.steps, true, nil
	}
	steps, err := c.Rebuild(key, build)
	return steps, false, err
}

// Rebuild calls build unconditionally and stores the result under key.
func (c *NavigationCache) Rebuild(key string, build BuildFunc) ([]pages.Step, error) {
	steps, err := build()
	if err != nil {
		return nil, err
	}
	c.key = key
	c.steps = steps
	c.generation++
	return steps, nil
}

// Key returns the key of the cached entry, or "" when empty.
func (c *NavigationCache) Key() string { return c.key }

// Generation counts successful builds since the cache was created or reset.
func (c *NavigationCache) Generation() uint64 { return c.generation }

// Reset drops the cached entry.
func (c *NavigationCache) Reset() {
	c.key = ""
	c.steps = nil
	c.generation = 0
}

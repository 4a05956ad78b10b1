package formula

import "sync"

// Cache memoizes compiled expressions by their source string. Compilation is
// deterministic, so concurrent misses that compile the same source and race
// on the insert produce identical values; LoadOrStore keeps the first and the
// behavior is the same with or without the cache.
type Cache struct {
	entries sync.Map
}

// NewCache returns an empty compiled-formula cache.
func NewCache() *Cache {
	return &Cache{}
}

// Compile returns the cached compilation for source, compiling on first use.
// Syntax errors are not cached; invalid formulas are rejected at write time
// by the management layer, so repeated failing lookups are not a hot path.
func (c *Cache) Compile(source string) (*Compiled, error) {
	if cached, ok := c.entries.Load(source); ok {
		return cached.(*Compiled), nil
	}
	compiled, err := Compile(source)
	if err != nil {
		return nil, err
	}
	actual, _ := c.entries.LoadOrStore(source, compiled)
	return actual.(*Compiled), nil
}

package dispatch

import "sync"

// patternCache caches compiled patterns by their exact pattern text.
// The number of unique patterns is bounded by the number of registered
// routes, so the cache grows to a fixed size and stays there.
var patternCache sync.Map

// compilePattern returns a cached *compiledPattern for the given pattern
// text, compiling and caching it on first use. Identical patterns compile
// once per process.
func compilePattern(pattern string) (*compiledPattern, error) {
	if v, ok := patternCache.Load(pattern); ok {
		return v.(*compiledPattern), nil
	}

	cp, err := newCompiledPattern(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := patternCache.LoadOrStore(pattern, cp)

	return actual.(*compiledPattern), nil
}

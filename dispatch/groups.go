package dispatch

// GroupAttrs are the attributes a group contributes to every route
// registered inside its body.
type GroupAttrs struct {
	// Prefix is prepended to the patterns of contained routes. Nested
	// group prefixes concatenate outermost-first.
	Prefix string

	// Hooks are hook names attached to every contained route, ahead of
	// the routes' own hooks.
	Hooks []string
}

// mergedAttrs is the flattened view of the active group stack.
type mergedAttrs struct {
	prefix string
	hooks  []string
}

// groupStack tracks the active nesting of Group calls during registration.
// The merged result for the current stack state is cached and invalidated
// on every push and pop. Not safe for concurrent registration.
type groupStack struct {
	frames []GroupAttrs
	cached *mergedAttrs
}

func (s *groupStack) push(attrs GroupAttrs) {
	s.frames = append(s.frames, attrs)
	s.cached = nil
}

func (s *groupStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
	s.cached = nil
}

func (s *groupStack) depth() int {
	return len(s.frames)
}

// merged returns the effective prefix and hook list for the current stack
// state, concatenated outermost to innermost. The result is cached until
// the next push or pop. Callers must not retain or mutate the hooks slice.
func (s *groupStack) merged() mergedAttrs {
	if s.cached != nil {
		return *s.cached
	}

	var m mergedAttrs
	for _, f := range s.frames {
		m.prefix += f.Prefix
		m.hooks = append(m.hooks, f.Hooks...)
	}

	s.cached = &m

	return m
}

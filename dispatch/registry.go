package dispatch

// Registry is an append-only, order-preserving list of registered routes.
//
// Registration order is match priority: Match returns the first registered
// route that accepts the request, never the most specific one. Two routes
// with identical method and pattern are allowed; the second never matches.
//
// A Registry is not safe for concurrent registration. Register everything
// during warm-up, then treat it as a read-only snapshot.
type Registry struct {
	routes []*Route
	groups groupStack
}

// NewRegistry returns an empty route registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a route built from the current group context plus the
// given method, pattern, and handler. The returned handle supports
// route-level hook attachment.
func (r *Registry) Register(method, pattern string, h Handler) *RouteHandle {
	return r.register(method, pattern, h, "")
}

// RegisterRef appends a route whose handler is a string reference of the
// form "Controller.action", resolved by the Dispatcher at request time.
// Unlike direct handlers, ref routes survive a route snapshot round-trip.
func (r *Registry) RegisterRef(method, pattern, ref string) *RouteHandle {
	return r.register(method, pattern, nil, ref)
}

func (r *Registry) register(method, pattern string, h Handler, ref string) *RouteHandle {
	merged := r.groups.merged()

	effective := merged.prefix + pattern

	cp, err := compilePattern(effective)
	if err != nil {
		return &RouteHandle{err: err}
	}

	rt := &Route{
		method:     normalizeMethod(method),
		pattern:    pattern,
		effective:  effective,
		prefix:     merged.prefix,
		compiled:   cp,
		handler:    h,
		handlerRef: ref,
	}

	// Copy so AttachHooks never aliases the cached merged slice.
	rt.hookNames = append(rt.hookNames, merged.hooks...)

	r.routes = append(r.routes, rt)

	return &RouteHandle{route: rt}
}

// Group pushes attrs onto the group context, runs body, and pops the
// context again. Bodies may register routes and nest further groups.
// The stack frame is popped even if body panics, so a failing group
// never corrupts the effective attributes of subsequent registrations.
func (r *Registry) Group(attrs GroupAttrs, body func(*Registry)) {
	r.groups.push(attrs)
	defer r.groups.pop()

	body(r)
}

// Match finds the first route, in registration order, whose method and
// pattern accept the request. On success the captured placeholder values
// are zipped with the placeholder names in pattern order.
//
// An empty registry returns immediately without inspecting anything.
func (r *Registry) Match(method, path string) (*MatchResult, bool) {
	if len(r.routes) == 0 {
		return nil, false
	}

	for _, rt := range r.routes {
		if rt.method != MethodAny && rt.method != method {
			continue
		}

		caps, ok := rt.compiled.capture(path)
		if !ok {
			continue
		}

		params := make([]Param, len(caps))
		for i, name := range rt.compiled.names {
			params[i] = Param{Name: name, Value: caps[i]}
		}

		return &MatchResult{
			Method: method,
			Path:   path,
			Route:  rt,
			Params: params,
		}, true
	}

	return nil, false
}

// Routes returns the registered routes in registration order. The slice
// is a copy; the routes themselves are shared and must not be mutated.
func (r *Registry) Routes() []*Route {
	routes := make([]*Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Len returns the number of registered routes.
func (r *Registry) Len() int {
	return len(r.routes)
}

package dispatch

import "strings"

// MethodAny is the wildcard method. Routes registered with it match any
// request method.
const MethodAny = "ANY"

// Handler is the unit of work bound to a route. It receives the match that
// selected it, including the captured placeholder values in pattern order.
type Handler func(m *MatchResult) (*Response, error)

// Route stores one registered (method, pattern, handler) binding plus its
// attached hook names. Routes are created at registration time and are
// immutable once matching begins.
type Route struct {
	method     string
	pattern    string
	effective  string
	prefix     string
	compiled   *compiledPattern
	handler    Handler
	handlerRef string
	hookNames  []string
}

// Method returns the route's HTTP method, or MethodAny.
func (r *Route) Method() string { return r.method }

// Pattern returns the pattern text as given at registration, without the
// group prefix.
func (r *Route) Pattern() string { return r.pattern }

// EffectivePattern returns the full pattern the route matches against:
// the originating group prefix concatenated with the registered pattern.
func (r *Route) EffectivePattern() string { return r.effective }

// Prefix returns the group prefix active when the route was registered.
func (r *Route) Prefix() string { return r.prefix }

// HandlerRef returns the handler reference string for routes registered
// via RegisterRef, or "" for direct handlers.
func (r *Route) HandlerRef() string { return r.handlerRef }

// ParamNames returns the placeholder names in pattern order.
func (r *Route) ParamNames() []string {
	names := make([]string, len(r.compiled.names))
	copy(names, r.compiled.names)
	return names
}

// HookNames returns the hook names attached to the route: group hooks
// outermost-first, then route-level hooks in attachment order.
func (r *Route) HookNames() []string {
	names := make([]string, len(r.hookNames))
	copy(names, r.hookNames)
	return names
}

// RouteHandle is returned by registration and allows route-level hook
// attachment on the just-created route.
type RouteHandle struct {
	route *Route
	err   error
}

// AttachHooks appends hook names to the route's hook list. Group hooks
// always run before hooks attached here.
func (h *RouteHandle) AttachHooks(names ...string) *RouteHandle {
	if h.err == nil && h.route != nil {
		h.route.hookNames = append(h.route.hookNames, names...)
	}
	return h
}

// Route returns the registered route, or nil if registration failed.
func (h *RouteHandle) Route() *Route { return h.route }

// Err returns any error recorded during registration.
func (h *RouteHandle) Err() error { return h.err }

// Param is one captured placeholder value.
type Param struct {
	Name  string
	Value string
}

// MatchResult describes a successful route match. Params holds the
// captured values zipped with the placeholder names, in left-to-right
// pattern order.
type MatchResult struct {
	Method string
	Path   string
	Route  *Route
	Params []Param
}

// Param returns the captured value for a placeholder name and a boolean
// indicating whether the placeholder exists.
func (m *MatchResult) Param(name string) (string, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// ParamMap returns the captured values as a map. The order of Params is
// authoritative; the map is a convenience view.
func (m *MatchResult) ParamMap() map[string]string {
	vars := make(map[string]string, len(m.Params))
	for _, p := range m.Params {
		vars[p.Name] = p.Value
	}
	return vars
}

// Response is the outcome a handler (or a halting hook) produces.
// A non-empty View asks the dispatcher to render it with Data; Body is
// then replaced with the rendered output.
type Response struct {
	Status int
	Body   string
	View   string
	Data   any
}

// normalizeMethod uppercases a method token. An empty method becomes GET.
func normalizeMethod(method string) string {
	if method == "" {
		return "GET"
	}
	return strings.ToUpper(method)
}

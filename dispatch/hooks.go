package dispatch

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// DefaultPriority is the priority assigned by RegisterDefault. Lower
// priorities run earlier.
const DefaultPriority = 100

// hookEntry is one registration at a lifecycle point: either a direct
// callback or a reference to a named hook.
type hookEntry struct {
	priority int
	fn       HookFunc
	alias    string
}

// namedHook is a lazily-resolved middleware registration. The constructor
// runs on the first trigger that needs the instance; the instance (or the
// construction error) is cached for every later trigger.
type namedHook struct {
	alias    string
	ctor     MiddlewareCtor
	params   map[string]any
	point    Point
	priority int

	resolved bool
	instance Middleware
	err      error
}

// Hooks stores, per lifecycle point, a priority-ordered list of hook
// registrations, plus the named-hook table and the per-route attachments.
//
// Within one point, entries execute in ascending priority order; entries
// with equal priority preserve registration order. The sorted order is
// cached per point and recomputed only after new registrations.
//
// Registration is not safe for concurrent use. Register everything during
// warm-up, then treat the value as read-only; triggering is safe from
// multiple goroutines because the sort cache and the lazy instances are
// the only state it mutates, and both are guarded by mu.
type Hooks struct {
	// Logger receives hook failure reports. Nil means slog.Default().
	Logger *slog.Logger

	mu      sync.Mutex
	entries map[Point][]*hookEntry
	sorted  map[Point][]*hookEntry
	named   map[string]*namedHook
	byRoute map[string][]string
}

// NewHooks returns an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{
		entries: make(map[Point][]*hookEntry),
		sorted:  make(map[Point][]*hookEntry),
		named:   make(map[string]*namedHook),
		byRoute: make(map[string][]string),
	}
}

// Register appends a callback hook at the given lifecycle point.
func (h *Hooks) Register(point Point, fn HookFunc, priority int) {
	h.entries[point] = append(h.entries[point], &hookEntry{
		priority: priority,
		fn:       fn,
	})
	delete(h.sorted, point)
}

// RegisterDefault appends a callback hook at DefaultPriority.
func (h *Hooks) RegisterDefault(point Point, fn HookFunc) {
	h.Register(point, fn, DefaultPriority)
}

// RegisterNamed appends a named, lazily-resolved hook. The constructor is
// not invoked here; it runs on first use and the instance is cached under
// the alias. The alias also becomes attachable to routes.
func (h *Hooks) RegisterNamed(alias string, ctor MiddlewareCtor, point Point, priority int, params map[string]any) error {
	if _, exists := h.named[alias]; exists {
		return fmt.Errorf("dispatch: hook %q: %w", alias, ErrDuplicateHook)
	}

	h.named[alias] = &namedHook{
		alias:    alias,
		ctor:     ctor,
		params:   params,
		point:    point,
		priority: priority,
	}

	if point != "" {
		h.entries[point] = append(h.entries[point], &hookEntry{
			priority: priority,
			alias:    alias,
		})
		delete(h.sorted, point)
	}

	return nil
}

// Resolve returns the middleware instance behind an alias, constructing it
// on first call and caching the result. A failed construction is cached
// too and returned on every later call.
func (h *Hooks) Resolve(alias string) (Middleware, error) {
	n, ok := h.named[alias]
	if !ok {
		return nil, fmt.Errorf("dispatch: hook %q: %w", alias, ErrUnknownHook)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !n.resolved {
		n.resolved = true
		n.instance, n.err = n.ctor(n.params)
		if n.err != nil {
			n.err = fmt.Errorf("dispatch: constructing hook %q: %w", alias, n.err)
		}
	}

	return n.instance, n.err
}

// AttachToRoute records named hooks for an exact (method, pattern) pair,
// fired by the dispatcher between route matching and the global
// before_action_execute chain.
func (h *Hooks) AttachToRoute(method, pattern string, names ...string) {
	key := routeKey(normalizeMethod(method), pattern)
	h.byRoute[key] = append(h.byRoute[key], names...)
}

// Trigger folds the hooks registered at point over data, left to right.
// The output of each hook feeds the next. The boolean reports whether some
// hook halted the chain; the data accumulated up to the halt is still
// returned.
//
// A point with no registrations returns data unchanged without allocating.
// A hook that fails (error or panic) is logged and contributes nothing;
// the chain continues with the data it received.
func (h *Hooks) Trigger(point Point, data any) (any, bool) {
	if len(h.entries[point]) == 0 {
		return data, false
	}

	for _, e := range h.sortedEntries(point) {
		out, flow, err := h.invoke(e, data)
		if err != nil {
			h.logFailure(point, e, err)
			continue
		}

		data = out
		if flow == FlowHalt {
			return data, true
		}
	}

	return data, false
}

// TriggerRouteHooks folds the hooks attached to the exact (method, pattern)
// pair over data, resolving named hooks on first use. Same fold, halt, and
// failure semantics as Trigger.
func (h *Hooks) TriggerRouteHooks(method, pattern string, data any) (any, bool) {
	names := h.byRoute[routeKey(normalizeMethod(method), pattern)]
	return h.TriggerNamed(names, data)
}

// TriggerNamed folds the named hooks identified by names over data, in the
// given order. Unknown aliases and failed constructions are logged and
// skipped.
func (h *Hooks) TriggerNamed(names []string, data any) (any, bool) {
	for _, name := range names {
		mw, err := h.Resolve(name)
		if err != nil {
			h.logger().Error("route hook unavailable", "hook", name, "error", err)
			continue
		}

		out, flow, err := safeHandle(mw, data)
		if err != nil {
			h.logger().Error("route hook failed", "hook", name, "error", err)
			continue
		}

		data = out
		if flow == FlowHalt {
			return data, true
		}
	}

	return data, false
}

// RouteHookNames returns the hook names attached to the exact
// (method, pattern) pair, in attachment order.
func (h *Hooks) RouteHookNames(method, pattern string) []string {
	names := h.byRoute[routeKey(normalizeMethod(method), pattern)]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// sortedEntries returns the point's entries in execution order, sorting
// and caching on first use after a registration.
func (h *Hooks) sortedEntries(point Point) []*hookEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sorted[point]; ok {
		return s
	}

	s := make([]*hookEntry, len(h.entries[point]))
	copy(s, h.entries[point])

	// Stable: equal priorities keep registration order.
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].priority < s[j].priority
	})

	h.sorted[point] = s

	return s
}

// invoke runs one entry, resolving named hooks as needed.
func (h *Hooks) invoke(e *hookEntry, data any) (any, Flow, error) {
	if e.alias != "" {
		mw, err := h.Resolve(e.alias)
		if err != nil {
			return nil, FlowContinue, err
		}
		return safeHandle(mw, data)
	}

	return safeCall(e.fn, data)
}

// safeHandle invokes a middleware, converting a panic into an error so
// one misbehaving hook never aborts the remaining chain.
func safeHandle(mw Middleware, data any) (out any, flow Flow, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, flow, err = nil, FlowContinue, fmt.Errorf("hook panicked: %v", rec)
		}
	}()

	return mw.Handle(data)
}

// safeCall is safeHandle for plain callbacks.
func safeCall(fn HookFunc, data any) (out any, flow Flow, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, flow, err = nil, FlowContinue, fmt.Errorf("hook panicked: %v", rec)
		}
	}()

	return fn(data)
}

func (h *Hooks) logFailure(point Point, e *hookEntry, err error) {
	logger := h.logger()
	if e.alias != "" {
		logger.Error("hook failed", "point", string(point), "hook", e.alias, "error", err)
		return
	}
	logger.Error("hook failed", "point", string(point), "priority", e.priority, "error", err)
}

func (h *Hooks) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// routeKey builds the lookup key for per-route hook attachment.
func routeKey(method, pattern string) string {
	return method + " " + pattern
}

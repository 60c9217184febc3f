package dispatch

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// ViewRenderer renders a named view with the handler's data. Only invoked
// when a response requests a view.
type ViewRenderer interface {
	Render(view string, data any) (string, error)
}

// Frame is the data folded through the hook chains of one dispatch.
// Hooks may mutate it in place or return a replacement *Frame; anything
// else they return is carried as opaque data and handed back unchanged at
// the end of the dispatch.
type Frame struct {
	// Method and Path are the normalized request method and path. Hooks
	// at BeforeRouting may rewrite them before matching.
	Method string
	Path   string

	// Match is set once routing succeeds.
	Match *MatchResult

	// Response carries the in-flight response: set by the handler, by the
	// not-found collaborator, or by a halting hook that wants to answer
	// the request itself.
	Response *Response

	// Values is scratch space shared by all hooks of one dispatch.
	Values map[string]any
}

// Config configures a Dispatcher.
type Config struct {
	// BasePath is a path prefix stripped from incoming URIs before
	// matching. Empty means no stripping.
	BasePath string

	// Logger receives dispatch and hook failure reports.
	// Nil means slog.Default().
	Logger *slog.Logger

	// NotFound produces the response for unmatched requests. Nil leaves
	// the response to the caller.
	NotFound func(method, path string) *Response

	// Renderer renders views. Nil renderers leave Response.Body untouched
	// when a view is requested.
	Renderer ViewRenderer

	// Controllers maps controller names to constructors, used to resolve
	// "Controller.action" handler references. Each controller is
	// constructed at most once per Dispatcher and reused.
	Controllers map[string]ControllerCtor
}

// Result is the outcome of one Dispatch.
type Result struct {
	// Response is the final response, nil when nothing produced one.
	Response *Response

	// Match is the matched route, nil when routing failed or was halted.
	Match *MatchResult

	// Halted reports that a hook stopped the pipeline early; HaltedAt
	// names the chain that halted.
	Halted   bool
	HaltedAt Point

	// Frame is the final hook-chain data.
	Frame *Frame
}

// Dispatcher orchestrates one request at a time: it normalizes the
// method and URI, matches a route, fires global and route-specific hook
// chains in lifecycle order, invokes the handler, and renders the view.
//
// Build the Dispatcher after all route and hook registration is done.
// From then on the registries are treated as read-only snapshots, which
// makes dispatching safe to run from multiple goroutines as long as hooks
// and controllers keep no per-request state in their fields.
type Dispatcher struct {
	routes *Registry
	hooks  *Hooks
	cfg    Config

	startOnce sync.Once

	ctrlMu      sync.Mutex
	controllers map[string]Controller
}

// NewDispatcher wires a route registry and a hook registry together.
// Hook names attached to routes during registration are transferred to
// the hook registry's per-route table here, which is why construction
// must come after registration.
func NewDispatcher(routes *Registry, hooks *Hooks, cfg Config) *Dispatcher {
	if hooks == nil {
		hooks = NewHooks()
	}
	if hooks.Logger == nil {
		hooks.Logger = cfg.Logger
	}

	for _, rt := range routes.Routes() {
		if names := rt.HookNames(); len(names) > 0 {
			hooks.AttachToRoute(rt.Method(), rt.EffectivePattern(), names...)
		}
	}

	return &Dispatcher{
		routes:      routes,
		hooks:       hooks,
		cfg:         cfg,
		controllers: make(map[string]Controller),
	}
}

// Hooks returns the dispatcher's hook registry.
func (d *Dispatcher) Hooks() *Hooks { return d.hooks }

// Routes returns the dispatcher's route registry.
func (d *Dispatcher) Routes() *Registry { return d.routes }

// Dispatch runs one request through the pipeline. The uri may carry a
// query string; it is stripped before matching.
func (d *Dispatcher) Dispatch(method, uri string) (*Result, error) {
	return d.DispatchWith(method, uri, nil)
}

// DispatchWith is Dispatch with initial frame values, letting transport
// adapters hand request metadata (headers, client address) to hooks.
func (d *Dispatcher) DispatchWith(method, uri string, values map[string]any) (*Result, error) {
	d.startOnce.Do(func() {
		d.hooks.Trigger(FrameworkStart, nil)
	})

	frame := &Frame{
		Method: normalizeMethod(method),
		Path:   d.normalizePath(uri),
		Values: values,
	}
	if frame.Values == nil {
		frame.Values = make(map[string]any)
	}

	// INIT -> ROUTED
	data, halted := d.hooks.Trigger(BeforeRouting, frame)
	frame = asFrame(data, frame)
	if halted {
		return d.haltResult(BeforeRouting, frame), nil
	}

	m, ok := d.routes.Match(frame.Method, frame.Path)
	if !ok {
		data, halted = d.hooks.Trigger(RouteMatched, frame)
		frame = asFrame(data, frame)

		if d.cfg.NotFound != nil && frame.Response == nil {
			frame.Response = d.cfg.NotFound(frame.Method, frame.Path)
		}

		res := &Result{Response: frame.Response, Frame: frame}
		if halted {
			res.Halted = true
			res.HaltedAt = RouteMatched
		}
		return res, ErrNoRouteMatched
	}

	frame.Match = m
	data, halted = d.hooks.Trigger(RouteMatched, frame)
	frame = asFrame(data, frame)
	if halted {
		return d.haltResult(RouteMatched, frame), nil
	}

	// ROUTED -> DISPATCHING_ROUTE_HOOKS
	data, halted = d.hooks.TriggerRouteHooks(m.Route.Method(), m.Route.EffectivePattern(), frame)
	frame = asFrame(data, frame)
	if halted {
		return d.haltResult(RouteHooks, frame), nil
	}

	// -> INVOKING_HANDLER
	data, halted = d.hooks.Trigger(BeforeControllerLoad, frame)
	frame = asFrame(data, frame)
	if halted {
		return d.haltResult(BeforeControllerLoad, frame), nil
	}

	handler, err := d.resolveHandler(m.Route)
	if err != nil {
		d.logger().Error("handler resolution failed",
			"method", m.Method, "path", m.Path, "ref", m.Route.HandlerRef(), "error", err)
		return &Result{Match: m, Frame: frame}, err
	}

	data, halted = d.hooks.Trigger(AfterControllerLoad, frame)
	frame = asFrame(data, frame)
	if halted {
		return d.haltResult(AfterControllerLoad, frame), nil
	}

	data, halted = d.hooks.Trigger(BeforeActionExecute, frame)
	frame = asFrame(data, frame)
	if halted {
		return d.haltResult(BeforeActionExecute, frame), nil
	}

	resp, err := handler(m)
	if err != nil {
		// Handler failures propagate; the transport layer turns them
		// into a user-visible response.
		return &Result{Match: m, Frame: frame}, fmt.Errorf("dispatch: handler for %s %s: %w", m.Method, m.Path, err)
	}
	frame.Response = resp

	data, halted = d.hooks.Trigger(AfterActionExecute, frame)
	frame = asFrame(data, frame)
	if halted {
		return d.haltResult(AfterActionExecute, frame), nil
	}

	// -> RENDERING, only when a view is requested. Pure API responses
	// skip the render chains entirely.
	if resp != nil && resp.View != "" {
		data, halted = d.hooks.Trigger(BeforeViewRender, frame)
		frame = asFrame(data, frame)
		if halted {
			return d.haltResult(BeforeViewRender, frame), nil
		}

		if d.cfg.Renderer != nil {
			body, err := d.cfg.Renderer.Render(resp.View, resp.Data)
			if err != nil {
				return &Result{Response: resp, Match: m, Frame: frame}, fmt.Errorf("dispatch: rendering %q: %w", resp.View, err)
			}
			resp.Body = body
		}

		data, halted = d.hooks.Trigger(AfterViewRender, frame)
		frame = asFrame(data, frame)
		if halted {
			return d.haltResult(AfterViewRender, frame), nil
		}
	}

	// -> DONE
	return &Result{Response: frame.Response, Match: m, Frame: frame}, nil
}

// Shutdown fires the framework_shutdown chain. Safe to call once the
// dispatcher is idle.
func (d *Dispatcher) Shutdown() {
	d.hooks.Trigger(FrameworkShutdown, nil)
}

// normalizePath strips the query string and the configured base path.
// The base path is removed by its length once a prefix check passes.
func (d *Dispatcher) normalizePath(uri string) string {
	p := uri
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}

	if bp := d.cfg.BasePath; bp != "" && strings.HasPrefix(p, bp) {
		p = p[len(bp):]
	}

	return cleanPath(p)
}

func (d *Dispatcher) haltResult(at Point, frame *Frame) *Result {
	return &Result{
		Response: frame.Response,
		Match:    frame.Match,
		Halted:   true,
		HaltedAt: at,
		Frame:    frame,
	}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.cfg.Logger != nil {
		return d.cfg.Logger
	}
	return slog.Default()
}

// asFrame keeps the dispatcher on the latest *Frame a hook returned,
// falling back to the previous frame when a hook handed back something
// else (or nil).
func asFrame(data any, prev *Frame) *Frame {
	if f, ok := data.(*Frame); ok && f != nil {
		return f
	}
	return prev
}

// cleanPath returns the canonical form of p: rooted, with dot segments
// removed and the trailing slash preserved.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

package dispatch

// Point identifies a lifecycle moment at which registered hooks run.
type Point string

// Lifecycle points in firing order within one dispatch.
const (
	// FrameworkStart fires once per Dispatcher, before the first request.
	FrameworkStart Point = "framework_start"

	// BeforeRouting fires before the registry is consulted. Hooks here
	// may rewrite the method or path on the frame (method override,
	// canonicalization).
	BeforeRouting Point = "before_routing"

	// RouteMatched fires after matching, with the match on the frame, or
	// with no match when the request is headed for the not-found
	// collaborator.
	RouteMatched Point = "route_matched"

	// RouteHooks is the pseudo-point reported when a route-specific hook
	// chain halts. Route hooks fire between RouteMatched and
	// BeforeControllerLoad and are never registered at this point directly.
	RouteHooks Point = "route_hooks"

	// BeforeControllerLoad fires before the handler's owner is resolved.
	BeforeControllerLoad Point = "before_controller_load"

	// AfterControllerLoad fires once the handler is resolved, before the
	// action runs.
	AfterControllerLoad Point = "after_controller_load"

	// BeforeActionExecute fires immediately before the handler is invoked.
	BeforeActionExecute Point = "before_action_execute"

	// AfterActionExecute fires with the handler's response on the frame.
	AfterActionExecute Point = "after_action_execute"

	// BeforeViewRender and AfterViewRender wrap view rendering. Neither
	// fires when the response requests no view.
	BeforeViewRender Point = "before_view_render"
	AfterViewRender  Point = "after_view_render"

	// FrameworkShutdown fires from Dispatcher.Shutdown.
	FrameworkShutdown Point = "framework_shutdown"
)

// Flow is the control-flow result of one hook invocation.
type Flow int

const (
	// FlowContinue lets the remaining hooks at the current point run.
	FlowContinue Flow = iota

	// FlowHalt stops the remaining hooks at the current point. The
	// dispatcher additionally aborts the rest of the pipeline. Halting is
	// cooperative: it never unwinds a handler that is already running.
	FlowHalt
)

// HookFunc is a plain callback hook. It receives the in-flight data and
// returns the (possibly replaced) data plus a control-flow decision.
// A non-nil error is logged and treated as if the hook returned its input
// unchanged; the chain continues.
type HookFunc func(data any) (any, Flow, error)

// Middleware is the capability interface behind named hooks: one reusable
// Handle operation with the same contract as HookFunc.
//
// Resolved instances are cached and reused for every trigger, so they
// must not store per-request state in fields.
type Middleware interface {
	Handle(data any) (any, Flow, error)
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(data any) (any, Flow, error)

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(data any) (any, Flow, error) {
	return f(data)
}

// MiddlewareCtor constructs a Middleware from registration parameters.
// It runs at most once per alias, on the first trigger that needs the
// instance.
type MiddlewareCtor func(params map[string]any) (Middleware, error)

// Package dispatch implements the request-dispatch core of a web-request
// handling library: a pattern-based route registry combined with a
// priority-ordered lifecycle hook dispatcher. Together they decide which
// handler runs for a request, which cross-cutting behaviors wrap it, in
// what order, and with what ability to short-circuit.
//
// # Routes
//
// Routes bind an HTTP method (or the MethodAny wildcard) and a pattern to
// a handler. Registration order is match priority: the first registered
// route that accepts a request wins, regardless of specificity.
//
//	routes := dispatch.NewRegistry()
//	routes.Register("GET", "/blog/:id:", showPost)
//	routes.Register("GET", "/blog/create", createForm)
//
// Here "GET /blog/create" matches the first route with id="create",
// because it was registered first. Swap the registrations to get the
// static route.
//
// # Patterns
//
// A placeholder ":name:" matches one or more non-separator characters and
// binds the captured text to name. All other pattern bytes match
// literally, and the pattern is anchored to the full path. A constraint
// can follow the name after a pipe, either a named macro or a raw regular
// expression:
//
//	routes.Register("GET", "/users/:id|int:", userHandler)
//	routes.Register("GET", "/objects/:oid|uuid:", objectHandler)
//	routes.Register("GET", "/files/:name|[a-z]+:", fileHandler)
//
// Available macros: uuid, int, float, slug, alpha, alphanum, date, hex.
// Compiled patterns are cached by their exact text, so identical patterns
// compile once per process.
//
// Captured values arrive on the match in left-to-right pattern order:
//
//	func userHandler(m *dispatch.MatchResult) (*dispatch.Response, error) {
//	    id, _ := m.Param("id")
//	    return &dispatch.Response{Status: 200, Body: id}, nil
//	}
//
// # Groups
//
// Groups contribute a shared path prefix and hook list to every route
// registered inside them, and nest arbitrarily:
//
//	routes.Group(dispatch.GroupAttrs{Prefix: "/admin", Hooks: []string{"auth"}}, func(r *dispatch.Registry) {
//	    r.Register("GET", "/users", listUsers).AttachHooks("log")
//	    r.Group(dispatch.GroupAttrs{Prefix: "/reports"}, func(r *dispatch.Registry) {
//	        r.Register("GET", "/daily", dailyReport)
//	    })
//	})
//
// The inner route matches "/admin/reports/daily". The "/admin/users"
// route fires "auth" then "log" before its handler.
//
// # Hooks
//
// Hooks run at named lifecycle points. Within one point they execute in
// ascending priority order; equal priorities keep registration order.
// Each hook receives the output of the previous one (a left-to-right
// fold) and decides whether the chain continues:
//
//	hooks := dispatch.NewHooks()
//	hooks.Register(dispatch.BeforeRouting, func(data any) (any, dispatch.Flow, error) {
//	    return data, dispatch.FlowContinue, nil
//	}, 10)
//
// Returning FlowHalt stops the remaining hooks at the point, and the
// dispatcher aborts the rest of the pipeline. A hook that returns an
// error (or panics) is logged and contributes nothing; the chain
// continues with unchanged data.
//
// Named hooks are registered with a constructor and resolved lazily: the
// constructor runs on the first trigger that needs the instance, and the
// instance is cached under its alias from then on.
//
//	hooks.RegisterNamed("auth", newAuthHook, dispatch.BeforeActionExecute, 10, map[string]any{
//	    "realm": "admin",
//	})
//
// Named hooks can also be attached to routes, via GroupAttrs.Hooks,
// RouteHandle.AttachHooks, or Hooks.AttachToRoute. Route hooks fire after
// route_matched and before the global before_action_execute chain.
//
// # Dispatching
//
// The Dispatcher walks one request through the lifecycle:
//
//	before_routing -> match -> route_matched -> route hooks ->
//	before_controller_load -> after_controller_load ->
//	before_action_execute -> handler -> after_action_execute ->
//	[before_view_render -> render -> after_view_render]
//
// The render chains fire only when the handler's response requests a
// view. framework_start fires once per Dispatcher before the first
// request.
//
//	d := dispatch.NewDispatcher(routes, hooks, dispatch.Config{BasePath: "/app"})
//	res, err := d.Dispatch("GET", "/app/blog/42?draft=1")
//
// Handlers registered by reference ("Blog.show") resolve through the
// controller table in Config; each controller is constructed once per
// Dispatcher and reused. An unresolvable reference fails the request with
// ErrHandlerUnresolved, and an unmatched request returns ErrNoRouteMatched
// after handing the not-found collaborator the response.
//
// # Snapshots
//
// A registry built purely from reference handlers can be serialized to a
// YAML snapshot and restored on later starts:
//
//	snap, _ := routes.Snapshot()
//	dispatch.WriteSnapshotFile("routes.yaml", snap)
//
//	snap, err := dispatch.LoadSnapshotFile("routes.yaml", sourcesMtime)
//	if errors.Is(err, dispatch.ErrSnapshotStale) {
//	    // rebuild from source
//	}
//
// # Serving
//
// Adapter exposes a Dispatcher as an http.Handler, applying the
// X-HTTP-Method-Override header for clients that cannot send PUT, PATCH,
// or DELETE natively:
//
//	http.ListenAndServe(":8080", dispatch.NewAdapter(d, dispatch.AdapterConfig{}))
package dispatch

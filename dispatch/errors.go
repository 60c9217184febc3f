package dispatch

import "errors"

// ErrNoRouteMatched is returned by Dispatch when no registered route
// accepts the request. The not-found collaborator, when configured,
// has already produced the response by the time this is returned.
var ErrNoRouteMatched = errors.New("no route matched")

// ErrHandlerUnresolved is returned when a handler reference cannot be
// resolved or its owner cannot be constructed. Fatal for the current
// request only.
var ErrHandlerUnresolved = errors.New("handler reference cannot be resolved")

// ErrUnknownHook is returned when resolving an alias that was never
// registered.
var ErrUnknownHook = errors.New("unknown hook alias")

// ErrDuplicateHook is returned when registering a named hook under an
// alias that is already taken.
var ErrDuplicateHook = errors.New("hook alias already registered")

// ErrSnapshotStale is returned when a persisted route snapshot predates
// the route sources it was built from.
var ErrSnapshotStale = errors.New("route snapshot is stale")

// ErrNotSnapshotable is returned when snapshotting a registry that holds
// direct handler closures, which cannot be serialized safely.
var ErrNotSnapshotable = errors.New("route has no handler reference")

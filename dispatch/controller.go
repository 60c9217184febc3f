package dispatch

import (
	"fmt"
	"strings"
)

// Controller owns a set of named actions. A handler reference
// "Blog.show" resolves to the "show" action of the controller registered
// under "Blog".
type Controller interface {
	// Action returns the handler for an action name, or false if the
	// controller has no such action.
	Action(name string) (Handler, bool)
}

// ControllerCtor constructs a controller. It runs at most once per
// Dispatcher; the instance is cached and shared across requests, so it
// must not keep per-request state in fields.
type ControllerCtor func() (Controller, error)

// ActionMap is the simplest Controller: a map from action name to handler.
type ActionMap map[string]Handler

// Action implements Controller.
func (a ActionMap) Action(name string) (Handler, bool) {
	h, ok := a[name]
	return h, ok
}

// resolveHandler returns the callable handler for a route. Direct handlers
// are returned as-is; reference handlers go through the controller table,
// constructing and caching the owner on first use.
func (d *Dispatcher) resolveHandler(rt *Route) (Handler, error) {
	if rt.handler != nil {
		return rt.handler, nil
	}

	name, action, ok := strings.Cut(rt.handlerRef, ".")
	if !ok || name == "" || action == "" {
		return nil, fmt.Errorf("dispatch: malformed reference %q: %w", rt.handlerRef, ErrHandlerUnresolved)
	}

	ctrl, err := d.controller(name)
	if err != nil {
		return nil, err
	}

	h, ok := ctrl.Action(action)
	if !ok {
		return nil, fmt.Errorf("dispatch: controller %q has no action %q: %w", name, action, ErrHandlerUnresolved)
	}

	return h, nil
}

// controller returns the cached controller instance for name,
// constructing it on first use.
func (d *Dispatcher) controller(name string) (Controller, error) {
	d.ctrlMu.Lock()
	defer d.ctrlMu.Unlock()

	if c, ok := d.controllers[name]; ok {
		return c, nil
	}

	ctor, ok := d.cfg.Controllers[name]
	if !ok {
		return nil, fmt.Errorf("dispatch: unknown controller %q: %w", name, ErrHandlerUnresolved)
	}

	c, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("dispatch: constructing controller %q: %v: %w", name, err, ErrHandlerUnresolved)
	}

	d.controllers[name] = c

	return c, nil
}

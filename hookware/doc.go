// Package hookware provides ready-made hooks for the dispatch package:
// basic authentication, access logging, request IDs, CORS origin checks,
// and rate limiting.
//
// Each concern is configured through a Config struct with documented
// zero-value defaults and produces either a dispatch.Middleware (for
// named hook registration and route attachment) or a dispatch.HookFunc
// (for direct registration at a lifecycle point).
//
//	hooks := dispatch.NewHooks()
//	hooks.RegisterNamed("auth", hookware.BasicAuthHook(hookware.BasicAuthConfig{
//	    Credentials: map[string]string{"admin": "secret"},
//	}), dispatch.BeforeActionExecute, 10, nil)
//
// Hooks in this package operate on the *dispatch.Frame flowing through
// the chains. Transport adapters seed the frame values they read: the
// dispatch.Adapter stores the request headers under "header" and the
// client address under "remote_addr". Data that is not a frame passes
// through untouched.
package hookware

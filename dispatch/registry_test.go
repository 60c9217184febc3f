package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopHandler(_ *MatchResult) (*Response, error) {
	return &Response{Status: 200}, nil
}

func TestRegistryMatch(t *testing.T) {
	t.Run("empty registry returns none", func(t *testing.T) {
		r := NewRegistry()

		m, ok := r.Match("GET", "/anything")
		assert.False(t, ok)
		assert.Nil(t, m)
	})

	t.Run("matches literal route", func(t *testing.T) {
		r := NewRegistry()
		r.Register("GET", "/about", nopHandler)

		m, ok := r.Match("GET", "/about")
		require.True(t, ok)
		assert.Equal(t, "/about", m.Route.EffectivePattern())
		assert.Empty(t, m.Params)
	})

	t.Run("method must match", func(t *testing.T) {
		r := NewRegistry()
		r.Register("GET", "/about", nopHandler)

		_, ok := r.Match("POST", "/about")
		assert.False(t, ok)
	})

	t.Run("ANY matches every method", func(t *testing.T) {
		r := NewRegistry()
		r.Register(MethodAny, "/ping", nopHandler)

		for _, method := range []string{"GET", "POST", "PUT", "DELETE", "PATCH"} {
			_, ok := r.Match(method, "/ping")
			assert.True(t, ok, method)
		}
	})

	t.Run("method is normalized at registration", func(t *testing.T) {
		r := NewRegistry()
		r.Register("get", "/lower", nopHandler)

		_, ok := r.Match("GET", "/lower")
		assert.True(t, ok)
	})

	t.Run("params zip names with captures in pattern order", func(t *testing.T) {
		r := NewRegistry()
		r.Register("GET", "/:year:/:month:/:slug:", nopHandler)

		m, ok := r.Match("GET", "/2024/07/hello")
		require.True(t, ok)

		require.Len(t, m.Params, 3)
		assert.Equal(t, Param{Name: "year", Value: "2024"}, m.Params[0])
		assert.Equal(t, Param{Name: "month", Value: "07"}, m.Params[1])
		assert.Equal(t, Param{Name: "slug", Value: "hello"}, m.Params[2])

		slug, ok := m.Param("slug")
		require.True(t, ok)
		assert.Equal(t, "hello", slug)

		_, ok = m.Param("missing")
		assert.False(t, ok)

		assert.Equal(t, map[string]string{"year": "2024", "month": "07", "slug": "hello"}, m.ParamMap())
	})

	t.Run("registration order is match priority", func(t *testing.T) {
		r := NewRegistry()
		first := r.Register("GET", "/overlap/:x:", nopHandler)
		r.Register("GET", "/overlap/static", nopHandler)

		m, ok := r.Match("GET", "/overlap/static")
		require.True(t, ok)
		assert.Same(t, first.Route(), m.Route)
	})

	t.Run("placeholder route shadows later static route", func(t *testing.T) {
		// GET /blog/:id: registered before GET /blog/create: requesting
		// /blog/create matches the placeholder route with id="create".
		// Surprising but intended; specificity never reorders routes.
		r := NewRegistry()
		r.Register("GET", "/blog/:id:", nopHandler)
		r.Register("GET", "/blog/create", nopHandler)

		m, ok := r.Match("GET", "/blog/create")
		require.True(t, ok)
		assert.Equal(t, "/blog/:id:", m.Route.EffectivePattern())

		id, ok := m.Param("id")
		require.True(t, ok)
		assert.Equal(t, "create", id)
	})

	t.Run("identical routes: first registered wins", func(t *testing.T) {
		r := NewRegistry()
		first := r.Register("GET", "/dup", nopHandler)
		second := r.Register("GET", "/dup", nopHandler)

		m, ok := r.Match("GET", "/dup")
		require.True(t, ok)
		assert.Same(t, first.Route(), m.Route)
		assert.NotSame(t, second.Route(), m.Route)
	})

	t.Run("no match after first success is considered", func(t *testing.T) {
		r := NewRegistry()
		r.Register("GET", "/a/:x:", nopHandler)
		visited := false
		r.Register("GET", "/a/:y:", func(_ *MatchResult) (*Response, error) {
			visited = true
			return nil, nil
		})

		m, ok := r.Match("GET", "/a/1")
		require.True(t, ok)

		x, ok := m.Param("x")
		require.True(t, ok)
		assert.Equal(t, "1", x)
		assert.False(t, visited)
	})
}

func TestRegistryRegister(t *testing.T) {
	t.Run("invalid pattern surfaces on the handle", func(t *testing.T) {
		r := NewRegistry()
		handle := r.Register("GET", "/broken/:id", nopHandler)

		assert.Error(t, handle.Err())
		assert.Nil(t, handle.Route())
		assert.Zero(t, r.Len())
	})

	t.Run("AttachHooks appends to the route hook list", func(t *testing.T) {
		r := NewRegistry()
		handle := r.Register("GET", "/hooked", nopHandler).AttachHooks("auth", "log")

		assert.Equal(t, []string{"auth", "log"}, handle.Route().HookNames())
	})

	t.Run("AttachHooks on a failed handle is a no-op", func(t *testing.T) {
		r := NewRegistry()
		handle := r.Register("GET", "/broken/:id", nopHandler)

		assert.NotPanics(t, func() {
			handle.AttachHooks("auth")
		})
	})

	t.Run("RegisterRef records the reference", func(t *testing.T) {
		r := NewRegistry()
		handle := r.RegisterRef("GET", "/posts/:id:", "Blog.show")

		require.NoError(t, handle.Err())
		assert.Equal(t, "Blog.show", handle.Route().HandlerRef())
	})

	t.Run("Routes returns registration order", func(t *testing.T) {
		r := NewRegistry()
		r.Register("GET", "/one", nopHandler)
		r.Register("GET", "/two", nopHandler)
		r.Register("GET", "/three", nopHandler)

		routes := r.Routes()
		require.Len(t, routes, 3)
		assert.Equal(t, "/one", routes[0].Pattern())
		assert.Equal(t, "/two", routes[1].Pattern())
		assert.Equal(t, "/three", routes[2].Pattern())
	})

	t.Run("ParamNames returns a copy", func(t *testing.T) {
		r := NewRegistry()
		handle := r.Register("GET", "/copy/:a:/:b:", nopHandler)

		names := handle.Route().ParamNames()
		names[0] = "mutated"

		assert.Equal(t, []string{"a", "b"}, handle.Route().ParamNames())
	})
}

// --- Benchmarks ---

func BenchmarkRegistryMatch(b *testing.B) {
	r := NewRegistry()
	for _, p := range []string{"/a", "/b/:x:", "/c/:x:/:y:", "/d/static/path", "/e/:x|int:"} {
		r.Register("GET", p, nopHandler)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Match("GET", "/e/42")
	}
}

func BenchmarkRegistryMatchEmpty(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Match("GET", "/anything")
	}
}

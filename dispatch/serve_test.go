package dispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdapterServeHTTP(t *testing.T) {
	newAdapter := func(routes *Registry, hooks *Hooks, cfg AdapterConfig) *Adapter {
		return NewAdapter(NewDispatcher(routes, hooks, quietConfig()), cfg)
	}

	t.Run("dispatches to the matched handler", func(t *testing.T) {
		routes := NewRegistry()
		routes.Register("GET", "/hello/:name:", func(m *MatchResult) (*Response, error) {
			name, _ := m.Param("name")
			return &Response{Status: 200, Body: "hello " + name}, nil
		})

		a := newAdapter(routes, quietHooks(), AdapterConfig{})

		w := httptest.NewRecorder()
		a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello/world", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hello world", w.Body.String())
	})

	t.Run("unmatched request returns 404", func(t *testing.T) {
		a := newAdapter(NewRegistry(), quietHooks(), AdapterConfig{})

		w := httptest.NewRecorder()
		a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unresolved handler returns 500", func(t *testing.T) {
		routes := NewRegistry()
		routes.RegisterRef("GET", "/ghost", "Ghost.walk")

		a := newAdapter(routes, quietHooks(), AdapterConfig{})

		w := httptest.NewRecorder()
		a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ghost", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("halting hook response is written", func(t *testing.T) {
		routes := NewRegistry()
		routes.Register("GET", "/guarded", nopHandler)

		h := quietHooks()
		h.Register(BeforeRouting, func(data any) (any, Flow, error) {
			frame := data.(*Frame)
			frame.Response = &Response{Status: http.StatusUnauthorized, Body: "denied"}
			return frame, FlowHalt, nil
		}, 1)

		a := newAdapter(routes, h, AdapterConfig{})

		w := httptest.NewRecorder()
		a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "denied", w.Body.String())
	})

	t.Run("frame response headers are emitted on the wire", func(t *testing.T) {
		routes := NewRegistry()
		routes.Register("GET", "/open", func(_ *MatchResult) (*Response, error) {
			return &Response{Status: 200, Body: "ok"}, nil
		})

		h := quietHooks()
		h.Register(BeforeRouting, func(data any) (any, Flow, error) {
			frame := data.(*Frame)
			frame.Values[ResponseHeadersKey] = map[string]string{
				"Access-Control-Allow-Origin": "https://app.example",
			}
			return frame, FlowContinue, nil
		}, 1)

		a := newAdapter(routes, h, AdapterConfig{})

		w := httptest.NewRecorder()
		a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("halting hook headers accompany its response", func(t *testing.T) {
		routes := NewRegistry()
		routes.Register("GET", "/guarded", nopHandler)

		h := quietHooks()
		h.Register(BeforeRouting, func(data any) (any, Flow, error) {
			frame := data.(*Frame)
			frame.Values[ResponseHeadersKey] = map[string]string{
				"WWW-Authenticate": `Basic realm="Restricted"`,
			}
			frame.Response = &Response{Status: http.StatusUnauthorized}
			return frame, FlowHalt, nil
		}, 1)

		a := newAdapter(routes, h, AdapterConfig{})

		w := httptest.NewRecorder()
		a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="Restricted"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("halt without a response returns 204", func(t *testing.T) {
		routes := NewRegistry()
		routes.Register("GET", "/aborted", nopHandler)

		h := quietHooks()
		h.Register(BeforeRouting, func(data any) (any, Flow, error) {
			return data, FlowHalt, nil
		}, 1)

		a := newAdapter(routes, h, AdapterConfig{})

		w := httptest.NewRecorder()
		a.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/aborted", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("request headers reach hooks through the frame", func(t *testing.T) {
		routes := NewRegistry()
		routes.Register("GET", "/headers", nopHandler)

		h := quietHooks()
		var got string
		h.Register(BeforeRouting, func(data any) (any, Flow, error) {
			frame := data.(*Frame)
			if header, ok := frame.Values["header"].(http.Header); ok {
				got = header.Get("X-Tenant")
			}
			return frame, FlowContinue, nil
		}, 1)

		a := newAdapter(routes, h, AdapterConfig{})

		req := httptest.NewRequest(http.MethodGet, "/headers", nil)
		req.Header.Set("X-Tenant", "acme")
		a.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "acme", got)
	})
}

func TestAdapterMethodOverride(t *testing.T) {
	deleteRoutes := func() *Registry {
		routes := NewRegistry()
		routes.Register("DELETE", "/items/:id:", func(m *MatchResult) (*Response, error) {
			id, _ := m.Param("id")
			return &Response{Status: 200, Body: "deleted " + id}, nil
		})
		return routes
	}

	t.Run("POST with override header dispatches the override method", func(t *testing.T) {
		a := NewAdapter(NewDispatcher(deleteRoutes(), quietHooks(), quietConfig()), AdapterConfig{})

		req := httptest.NewRequest(http.MethodPost, "/items/7", nil)
		req.Header.Set(DefaultOverrideHeader, "DELETE")

		w := httptest.NewRecorder()
		a.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "deleted 7", w.Body.String())
	})

	t.Run("override is case-insensitive", func(t *testing.T) {
		a := NewAdapter(NewDispatcher(deleteRoutes(), quietHooks(), quietConfig()), AdapterConfig{})

		req := httptest.NewRequest(http.MethodPost, "/items/7", nil)
		req.Header.Set(DefaultOverrideHeader, "delete")

		w := httptest.NewRecorder()
		a.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("only POST is eligible for override", func(t *testing.T) {
		a := NewAdapter(NewDispatcher(deleteRoutes(), quietHooks(), quietConfig()), AdapterConfig{})

		req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
		req.Header.Set(DefaultOverrideHeader, "DELETE")

		w := httptest.NewRecorder()
		a.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("disallowed override target is ignored", func(t *testing.T) {
		routes := NewRegistry()
		routes.Register("POST", "/items", func(_ *MatchResult) (*Response, error) {
			return &Response{Status: 201}, nil
		})

		a := NewAdapter(NewDispatcher(routes, quietHooks(), quietConfig()), AdapterConfig{})

		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		req.Header.Set(DefaultOverrideHeader, "CONNECT")

		w := httptest.NewRecorder()
		a.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("custom override header", func(t *testing.T) {
		a := NewAdapter(NewDispatcher(deleteRoutes(), quietHooks(), quietConfig()), AdapterConfig{
			OverrideHeader: "X-Method-Override",
		})

		req := httptest.NewRequest(http.MethodPost, "/items/7", nil)
		req.Header.Set("X-Method-Override", "DELETE")

		w := httptest.NewRecorder()
		a.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("override disabled", func(t *testing.T) {
		a := NewAdapter(NewDispatcher(deleteRoutes(), quietHooks(), quietConfig()), AdapterConfig{
			OverrideHeader: "-",
		})

		req := httptest.NewRequest(http.MethodPost, "/items/7", nil)
		req.Header.Set(DefaultOverrideHeader, "DELETE")

		w := httptest.NewRecorder()
		a.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWriteResponse(t *testing.T) {
	t.Run("nil response writes the fallback status", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeResponse(w, nil, http.StatusNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("zero status uses the fallback", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeResponse(w, &Response{Body: "ok"}, http.StatusOK)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})
}

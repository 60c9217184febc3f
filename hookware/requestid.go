package hookware

import (
	"github.com/google/uuid"

	"github.com/ninepath/strada/dispatch"
)

// RequestIDKey is the frame value under which the request ID is stored.
const RequestIDKey = "request_id"

// RequestIDConfig configures the Request ID hook behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header consulted for an incoming ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc is an optional callback that returns a new unique ID.
	// Defaults to GenerateUUIDv4.
	GenerateFunc func() string

	// TrustIncoming, when true, reuses an existing request ID from the
	// incoming request header instead of generating a new one.
	TrustIncoming bool
}

type requestID struct {
	headerName    string
	generate      func() string
	trustIncoming bool
}

// RequestID returns a hook that stamps a unique ID onto the frame under
// RequestIDKey, generating one or trusting the incoming header.
func RequestID(cfg RequestIDConfig) dispatch.Middleware {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	return &requestID{
		headerName:    headerName,
		generate:      generate,
		trustIncoming: cfg.TrustIncoming,
	}
}

// RequestIDHook adapts RequestID to a named-hook constructor.
func RequestIDHook(cfg RequestIDConfig) dispatch.MiddlewareCtor {
	return func(_ map[string]any) (dispatch.Middleware, error) {
		return RequestID(cfg), nil
	}
}

// Handle implements dispatch.Middleware.
func (h *requestID) Handle(data any) (any, dispatch.Flow, error) {
	frame := frameOf(data)
	if frame == nil {
		return data, dispatch.FlowContinue, nil
	}

	id := ""
	if h.trustIncoming {
		if header := headerOf(frame); header != nil {
			id = header.Get(h.headerName)
		}
	}

	if id == "" {
		id = h.generate()
	}

	frame.Values[RequestIDKey] = id

	return frame, dispatch.FlowContinue, nil
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4() string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

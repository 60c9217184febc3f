package hookware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ninepath/strada/dispatch"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither
// ValidateFunc nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// BasicAuthConfig configures the Basic Auth hook behaviour.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm reported in the 401 response.
	// Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs.
	// Compared using SHA-256 hashed constant-time comparison to prevent
	// timing attacks, including length-based leaks.
	Credentials map[string]string
}

type basicAuth struct {
	realm       string
	validate    func(username, password string) bool
	credentials map[string]string
}

// BasicAuth returns a hook that enforces HTTP Basic Authentication per
// RFC 7617. On missing or invalid credentials it halts the chain with a
// 401 response; the WWW-Authenticate challenge is added to the frame's
// response headers for the transport to emit.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are
// nil/empty.
func BasicAuth(cfg BasicAuthConfig) (dispatch.Middleware, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	return &basicAuth{
		realm:       realm,
		validate:    cfg.ValidateFunc,
		credentials: cfg.Credentials,
	}, nil
}

// BasicAuthHook adapts BasicAuth to a named-hook constructor.
func BasicAuthHook(cfg BasicAuthConfig) dispatch.MiddlewareCtor {
	return func(_ map[string]any) (dispatch.Middleware, error) {
		return BasicAuth(cfg)
	}
}

// Handle implements dispatch.Middleware.
func (b *basicAuth) Handle(data any) (any, dispatch.Flow, error) {
	frame := frameOf(data)
	if frame == nil {
		return data, dispatch.FlowContinue, nil
	}

	username, password, ok := decodeBasicAuth(headerOf(frame).Get("Authorization"))
	if !ok {
		return b.deny(frame), dispatch.FlowHalt, nil
	}

	if b.validate != nil {
		if !b.validate(username, password) {
			return b.deny(frame), dispatch.FlowHalt, nil
		}
	} else {
		expected, exists := b.credentials[username]
		// Always perform the comparison to prevent timing leaks that
		// reveal whether a username exists in the map.
		match := constantTimeEqual(password, expected)
		if !exists || !match {
			return b.deny(frame), dispatch.FlowHalt, nil
		}
	}

	frame.Values["auth_user"] = username

	return frame, dispatch.FlowContinue, nil
}

func (b *basicAuth) deny(frame *dispatch.Frame) *dispatch.Frame {
	responseHeadersOf(frame)["WWW-Authenticate"] = fmt.Sprintf("Basic realm=%q", b.realm)
	frame.Response = &dispatch.Response{
		Status: http.StatusUnauthorized,
		Body:   http.StatusText(http.StatusUnauthorized),
	}
	return frame
}

// decodeBasicAuth parses an Authorization header value per RFC 7617.
func decodeBasicAuth(value string) (username, password string, ok bool) {
	const prefix = "Basic "
	if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(value[len(prefix):])
	if err != nil {
		return "", "", false
	}

	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}

// constantTimeEqual compares two strings in constant time regardless of
// their lengths, by comparing SHA-256 digests.
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

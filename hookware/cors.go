package hookware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/ninepath/strada/dispatch"
)

// ErrInvalidCORSHeader is returned when CORSConfig.AllowedHeaders
// contains a name that is not a valid header field name.
var ErrInvalidCORSHeader = errors.New("cors: invalid header field name")

// CORSConfig configures the CORS hook behaviour (Fetch Standard, CORS
// protocol).
type CORSConfig struct {
	// AllowedOrigins is the origin allow-list. The single entry "*"
	// allows any origin.
	AllowedOrigins []string

	// AllowedHeaders is reported in Access-Control-Allow-Headers.
	// Each name must be a valid header field name.
	AllowedHeaders []string

	// AllowCredentials adds Access-Control-Allow-Credentials.
	AllowCredentials bool
}

type cors struct {
	origins          map[string]struct{}
	allowAny         bool
	allowHeaders     string
	allowCredentials bool
}

// CORS returns a hook that checks the request Origin against the
// allow-list. Disallowed cross-origin requests halt the chain with a 403
// response; allowed ones get the Access-Control-* headers added to the
// frame's response headers for the transport to emit. Requests without
// an Origin header pass through untouched.
//
// It returns ErrInvalidCORSHeader if AllowedHeaders contains an invalid
// header field name.
func CORS(cfg CORSConfig) (dispatch.Middleware, error) {
	for _, name := range cfg.AllowedHeaders {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCORSHeader, name)
		}
	}

	c := &cors{
		origins:          make(map[string]struct{}, len(cfg.AllowedOrigins)),
		allowHeaders:     strings.Join(cfg.AllowedHeaders, ", "),
		allowCredentials: cfg.AllowCredentials,
	}

	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.allowAny = true
			continue
		}
		c.origins[origin] = struct{}{}
	}

	return c, nil
}

// CORSHook adapts CORS to a named-hook constructor.
func CORSHook(cfg CORSConfig) dispatch.MiddlewareCtor {
	return func(_ map[string]any) (dispatch.Middleware, error) {
		return CORS(cfg)
	}
}

// Handle implements dispatch.Middleware.
func (c *cors) Handle(data any) (any, dispatch.Flow, error) {
	frame := frameOf(data)
	if frame == nil {
		return data, dispatch.FlowContinue, nil
	}

	origin := headerOf(frame).Get("Origin")
	if origin == "" {
		return frame, dispatch.FlowContinue, nil
	}

	if !c.allowAny {
		if _, ok := c.origins[origin]; !ok {
			frame.Response = &dispatch.Response{
				Status: http.StatusForbidden,
				Body:   http.StatusText(http.StatusForbidden),
			}
			return frame, dispatch.FlowHalt, nil
		}
	}

	headers := responseHeadersOf(frame)

	headers["Access-Control-Allow-Origin"] = origin
	if c.allowAny && !c.allowCredentials {
		headers["Access-Control-Allow-Origin"] = "*"
	}
	if c.allowHeaders != "" {
		headers["Access-Control-Allow-Headers"] = c.allowHeaders
	}
	if c.allowCredentials {
		headers["Access-Control-Allow-Credentials"] = "true"
	}

	return frame, dispatch.FlowContinue, nil
}

package dispatch

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// DefaultOverrideHeader is the method-override header checked by the
// adapter when AdapterConfig.OverrideHeader is empty.
const DefaultOverrideHeader = "X-HTTP-Method-Override"

// ResponseHeadersKey is the frame value under which hooks accumulate
// response headers, as a map[string]string. The adapter emits them on
// every response it writes.
const ResponseHeadersKey = "response_headers"

// overrideAllowed is the set of methods a client may switch to via the
// override header. Only POST requests are eligible for override.
var overrideAllowed = map[string]struct{}{
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// AdapterConfig configures the HTTP adapter behaviour.
type AdapterConfig struct {
	// OverrideHeader is the method-override header name. Empty means
	// DefaultOverrideHeader; "-" disables override handling.
	OverrideHeader string
}

// Adapter bridges net/http to a Dispatcher. It extracts the decoded
// method and URI, applies the method override for clients that cannot
// send PUT/DELETE/PATCH natively, and maps dispatch errors to status
// codes: ErrNoRouteMatched to 404, everything else to 500.
type Adapter struct {
	dispatcher *Dispatcher
	cfg        AdapterConfig
}

// NewAdapter returns an http.Handler for the dispatcher.
func NewAdapter(d *Dispatcher, cfg AdapterConfig) *Adapter {
	return &Adapter{dispatcher: d, cfg: cfg}
}

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	method := a.effectiveMethod(req)

	values := map[string]any{
		"header":      req.Header,
		"remote_addr": req.RemoteAddr,
	}

	res, err := a.dispatcher.DispatchWith(method, req.URL.RequestURI(), values)

	switch {
	case errors.Is(err, ErrNoRouteMatched):
		emitFrameHeaders(w, res.Frame)
		writeResponse(w, res.Response, http.StatusNotFound)
	case err != nil:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	default:
		emitFrameHeaders(w, res.Frame)

		// A halt that left no response is an intentional abort with
		// nothing to say; 200-empty would misreport it.
		fallback := http.StatusOK
		if res.Halted && res.Response == nil {
			fallback = http.StatusNoContent
		}
		writeResponse(w, res.Response, fallback)
	}
}

// emitFrameHeaders writes the response headers hooks accumulated on the
// frame under ResponseHeadersKey.
func emitFrameHeaders(w http.ResponseWriter, frame *Frame) {
	if frame == nil {
		return
	}
	headers, _ := frame.Values[ResponseHeadersKey].(map[string]string)
	for name, value := range headers {
		w.Header().Set(name, value)
	}
}

// effectiveMethod returns the request method with the override applied.
// The override value must be a valid header field value and one of the
// allowed target methods; anything else is ignored.
func (a *Adapter) effectiveMethod(req *http.Request) string {
	header := a.cfg.OverrideHeader
	if header == "-" {
		return req.Method
	}
	if header == "" {
		header = DefaultOverrideHeader
	}

	if req.Method != http.MethodPost {
		return req.Method
	}

	v := req.Header.Get(header)
	if v == "" || !httpguts.ValidHeaderFieldValue(v) {
		return req.Method
	}

	override := strings.ToUpper(v)
	if _, ok := overrideAllowed[override]; !ok {
		return req.Method
	}

	return override
}

func writeResponse(w http.ResponseWriter, resp *Response, fallbackStatus int) {
	if resp == nil {
		w.WriteHeader(fallbackStatus)
		return
	}

	status := resp.Status
	if status == 0 {
		status = fallbackStatus
	}

	w.WriteHeader(status)
	if resp.Body != "" {
		w.Write([]byte(resp.Body)) //nolint:errcheck
	}
}

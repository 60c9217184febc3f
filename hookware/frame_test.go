package hookware

import (
	"net/http"

	"github.com/ninepath/strada/dispatch"
)

// newTestFrame builds a frame the way the HTTP adapter seeds it.
func newTestFrame(method, path string) *dispatch.Frame {
	return &dispatch.Frame{
		Method: method,
		Path:   path,
		Values: map[string]any{
			headerKey:     http.Header{},
			remoteAddrKey: "192.0.2.1:4242",
		},
	}
}

func frameHeader(f *dispatch.Frame) http.Header {
	return f.Values[headerKey].(http.Header)
}

package hookware

import (
	"net/http"

	"github.com/ninepath/strada/dispatch"
)

// Frame value keys seeded by the dispatch HTTP adapter.
const (
	headerKey     = "header"
	remoteAddrKey = "remote_addr"
)

// frameOf extracts the dispatch frame from hook data, or nil when the
// data is something else.
func frameOf(data any) *dispatch.Frame {
	f, _ := data.(*dispatch.Frame)
	return f
}

// headerOf returns the request headers seeded on the frame by the
// transport adapter, or nil when absent.
func headerOf(f *dispatch.Frame) http.Header {
	if f == nil {
		return nil
	}
	h, _ := f.Values[headerKey].(http.Header)
	return h
}

// remoteAddrOf returns the client address seeded on the frame, or "".
func remoteAddrOf(f *dispatch.Frame) string {
	if f == nil {
		return ""
	}
	addr, _ := f.Values[remoteAddrKey].(string)
	return addr
}

// responseHeadersOf returns the frame's response-header map, creating it
// on first use. The transport adapter emits the map on the response.
func responseHeadersOf(f *dispatch.Frame) map[string]string {
	headers, ok := f.Values[dispatch.ResponseHeadersKey].(map[string]string)
	if !ok {
		headers = make(map[string]string)
		f.Values[dispatch.ResponseHeadersKey] = headers
	}
	return headers
}

// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatchcore

import (
	"net/url"
	"strings"
)

// Header is a case-insensitive string-to-string header map. It is
// intentionally simpler than net/http.Header (single value per key) since
// the core only ever reads a handful of well-known headers (Accept,
// API-VERSION, Content-Type); the nethttp adapter folds multi-value HTTP
// headers down to this shape when it builds a Request.
type Header struct {
	values map[string]string
}

// NewHeader returns an empty Header.
func NewHeader() Header {
	return Header{values: make(map[string]string, 4)}
}

// Get returns the header value, or "" if absent. Lookup is case-insensitive.
func (h Header) Get(key string) string {
	if h.values == nil {
		return ""
	}
	return h.values[strings.ToLower(key)]
}

// Range calls f for every stored header, in no particular order. Keys are
// lower-cased, as stored.
func (h Header) Range(f func(key, value string)) {
	for k, v := range h.values {
		f(k, v)
	}
}

// Set stores a header value under its lower-cased key.
func (h *Header) Set(key, value string) {
	if h.values == nil {
		h.values = make(map[string]string, 4)
	}
	h.values[strings.ToLower(key)] = value
}

// RouteContext is the per-call bundle handed to the handler and plugins
// (spec §3). It is owned by the dispatcher for the duration of one request;
// its Args slice may be retained by the handler until its returned Task
// completes, per the lifecycle note in spec §3.
type RouteContext struct {
	// Transport is the opaque transport handle from the driving callable
	// (spec §6.1); the core never inspects it, only forwards it to
	// handlers that need to reach back into the transport layer.
	Transport any

	// Route is the matched, immutable Route this call is bound to.
	Route *Route

	// Args holds one slot per Route.Args entry, filled by the binder
	// (§4.3) and mutable by plugins (§4.4) before the handler runs.
	Args []any

	// CallID is assigned by Listener.OnStart (§4.6 step 4).
	CallID string

	// Version is the negotiated API version for this call (§4.6 step 1).
	Version int64

	// Headers are the request headers as delivered by the transport.
	Headers Header

	// ResponseHeaders accumulates headers the handler or plugins want set
	// on the eventual response; the dispatch controller writes them
	// through the response sink alongside the status and body.
	ResponseHeaders Header

	// RawQuery is the request URI's query component, unparsed. Plugins
	// that need to read a value the binder doesn't expose as a Public arg
	// (spec §4.4: "Internal args ... never read from the wire") use this
	// directly — see plugins/basicauth for the worked example.
	RawQuery string
}

// QueryValue looks up a single query-string value by name directly against
// RawQuery, percent-decoding it. It is the escape hatch plugins use in
// ModifyCall to read wire data without a bound Arg slot. A fragment that
// fails to percent-decode is returned raw rather than dropped, so a plugin
// comparing against it still sees the bytes that were on the wire.
func (rc *RouteContext) QueryValue(name string) string {
	for _, fragment := range splitAmp(rc.RawQuery) {
		eq := indexByte(fragment, '=')
		if eq == -1 {
			continue
		}
		if fragment[:eq] == name {
			raw := fragment[eq+1:]
			decoded, err := url.QueryUnescape(raw)
			if err != nil {
				return raw
			}
			return decoded
		}
	}
	return ""
}

func splitAmp(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '&' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// reset clears a RouteContext for reuse from the pool (spec §9 supplement:
// pooling, grounded on router/pool.go). Args is truncated to zero length;
// bindArgs gives each call a freshly allocated Args slice, so the old
// backing array is not reused.
func (rc *RouteContext) reset() {
	rc.Transport = nil
	rc.Route = nil
	rc.Args = rc.Args[:0]
	rc.CallID = ""
	rc.Version = 0
	rc.Headers = Header{}
	rc.ResponseHeaders = Header{}
	rc.RawQuery = ""
}

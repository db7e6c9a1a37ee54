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

import "github.com/rivaas-dev/dispatchcore/task"

// Method is the internal HTTP method enum (spec §4.6 step 2: the dispatcher
// converts the wire method string to this enum before tree lookup).
type Method int

const (
	MethodGET Method = iota
	MethodPOST
	MethodPUT
	MethodPATCH
	MethodDELETE
	MethodHEAD
	MethodOPTIONS
	methodCount // sentinel; keep last
)

// ParseMethod converts an HTTP method string to the internal enum. ok is
// false for anything the core doesn't route, in which case the dispatcher
// delegates to the DefaultHandler per spec §4.6 step 2.
func ParseMethod(s string) (m Method, ok bool) {
	switch s {
	case "GET":
		return MethodGET, true
	case "POST":
		return MethodPOST, true
	case "PUT":
		return MethodPUT, true
	case "PATCH":
		return MethodPATCH, true
	case "DELETE":
		return MethodDELETE, true
	case "HEAD":
		return MethodHEAD, true
	case "OPTIONS":
		return MethodOPTIONS, true
	default:
		return 0, false
	}
}

// HandlerFunc is a registered route's business logic. It returns a Task
// whose eventual outcome the dispatch controller plumbs to the response
// sink (spec §4.6 step 7-8).
type HandlerFunc func(ctx *RouteContext) *task.Task[Result]

// Result is a handler's success value. If Raw is non-nil it is written to
// the response body verbatim (spec §4.6 step 7: "if the result is a raw
// buffer, use it directly"); otherwise Value is serialized via the Route's
// Writer.
type Result struct {
	Raw   []byte
	Value any
}

// Writer serializes a handler's Result.Value into a response body. Only
// this contract matters to the core (spec §1 out-of-scope: codec internals).
type Writer interface {
	Write(v any) ([]byte, error)
	ContentType() string
}

// Route is a compiled route declaration (spec §3).
type Route struct {
	Name         string
	Method       Method
	Version      int64 // higher = newer; matcher returns highest Version <= requested
	Path         string
	Segments     []Segment
	Args         []Arg
	Handler      HandlerFunc
	Writer       Writer
	BodyArgIndex int // -1 if no arg is designated to receive the raw body
	Plugins      []Plugin
	pluginCtxs   []any // per-plugin context returned by ModifyRoute, index-aligned with Plugins

	nameHash uint64    // hash of the route's final literal segment name, if any
	captures []Segment // Segments with Capture==true, in shallow-to-deep (declaration) order
}

// RouteOption configures a Route at registration time.
type RouteOption func(*Route)

// WithBodyArg designates arg[i] as the sole recipient of the raw request
// body buffer (spec §3: "bodyArgIndex marking a single arg that receives
// the raw body").
func WithBodyArg(i int) RouteOption {
	return func(r *Route) { r.BodyArgIndex = i }
}

// WithWriter overrides the default JSON writer for this route's result.
func WithWriter(w Writer) RouteOption {
	return func(r *Route) { r.Writer = w }
}

// newRoute builds a Route, resolving its declared path into Segments and
// applying plugin modifyRoute hooks in registration order (spec §4.4).
func newRoute(name string, method Method, version int64, path string, args []Arg, handler HandlerFunc, plugins []Plugin, opts ...RouteOption) *Route {
	r := &Route{
		Name:         name,
		Method:       method,
		Version:      version,
		Path:         path,
		Args:         append([]Arg(nil), args...),
		Handler:      handler,
		Writer:       defaultJSONWriter{},
		BodyArgIndex: -1,
		Plugins:      plugins,
	}

	r.pluginCtxs = make([]any, len(plugins))
	for i, p := range plugins {
		r.pluginCtxs[i] = p.ModifyRoute(&routeModifier{route: r}, nil)
	}

	r.Segments = parseSegments(path, r.Args)
	if len(r.Segments) > 0 {
		last := r.Segments[len(r.Segments)-1]
		if !last.Capture {
			r.nameHash = nameHash(last.Name)
		}
	}
	for _, seg := range r.Segments {
		if seg.Capture {
			r.captures = append(r.captures, seg)
		}
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// routeModifier is the RouteModifier a Plugin's ModifyRoute hook uses to
// inject a synthetic Internal argument (spec §4.4).
type routeModifier struct {
	route *Route
}

// AddArg appends an Internal argument slot to the route and returns its
// index, which the plugin retains (typically in its per-route context) so
// modifyCall can find and populate the slot before the handler runs.
func (m *routeModifier) AddArg(name string, t ArgType, reader Reader) int {
	m.route.Args = append(m.route.Args, Arg{
		Name:       name,
		Type:       t,
		Reader:     reader,
		Visibility: Internal,
	})
	return len(m.route.Args) - 1
}

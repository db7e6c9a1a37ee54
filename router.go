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
	"log/slog"
	"sync"
	"sync/atomic"
)

// Router holds every registered Route, compiles them into one SegmentTree
// per HTTP method at Freeze (spec §4.1), and dispatches incoming calls
// against those trees (spec §4.6).
//
// Mirrors the teacher's Router (router/router.go): a mutable registration
// phase guarded by mu, followed by a one-way Freeze into read-only
// structures that Dispatch never takes a lock to read.
type Router struct {
	mu     sync.Mutex
	frozen atomic.Bool

	pending [methodCount][]*Route
	trees   [methodCount]*treeNode

	globalPlugins  []Plugin
	defaultHandler DefaultHandler
	listener       Listener
	logger         *slog.Logger
}

// Option configures a Router at construction (spec §9 ambient stack,
// grounded on router/options.go's functional-options style).
type Option func(*Router)

// New builds an unfrozen Router. Callers register routes, then call
// Freeze before the first Dispatch.
func New(opts ...Option) *Router {
	rt := &Router{
		defaultHandler: defaultNotFoundHandler,
		listener:       NoopListener{},
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// MustNew is New, for callers who treat a nil Option misuse as fatal at
// startup rather than checking an error return — there currently is no
// failure mode in New itself, but the name documents intent at call sites
// the same way MustCompile does in the standard library.
func MustNew(opts ...Option) *Router {
	return New(opts...)
}

// defaultNotFoundHandler is the Router's out-of-the-box DefaultHandler: a
// bare 404 with no body, so a Router built with New() is dispatch-ready
// without requiring the caller to wire one up first.
func defaultNotFoundHandler(transport any, req *Request, respond Respond) {
	respond(Response{Status: 404, Headers: NewHeader()})
}

// Use attaches a Plugin to every route subsequently registered, whether
// directly on the Router or through a Group; a Group's own plugins run
// after these (spec §4.4, §9 supplement "route groups").
func (rt *Router) Use(p Plugin) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.globalPlugins = append(rt.globalPlugins, p)
}

// Handle registers one route (spec §3). It panics if called after Freeze,
// matching the teacher's general stance that registration-after-freeze is a
// programmer error, not a recoverable runtime condition.
func (rt *Router) Handle(name string, method Method, version int64, path string, args []Arg, handler HandlerFunc, opts ...RouteOption) *Route {
	return rt.handle(name, method, version, path, args, handler, nil, opts...)
}

// handle is the shared registration path for Router.Handle and Group.Handle;
// extraPlugins (a Group's plugin chain, nil for Router.Handle) are appended
// after rt.globalPlugins (spec §9 supplement "route groups").
func (rt *Router) handle(name string, method Method, version int64, path string, args []Arg, handler HandlerFunc, extraPlugins []Plugin, opts ...RouteOption) *Route {
	if rt.frozen.Load() {
		panic("dispatchcore: Handle called after Freeze")
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	plugins := make([]Plugin, 0, len(rt.globalPlugins)+len(extraPlugins))
	plugins = append(plugins, rt.globalPlugins...)
	plugins = append(plugins, extraPlugins...)

	r := newRoute(name, method, version, path, args, handler, plugins, opts...)
	rt.pending[method] = append(rt.pending[method], r)
	return r
}

// Freeze compiles every registered route into its method's SegmentTree
// (spec §4.1). After Freeze, Dispatch never takes rt.mu; calling Handle
// again panics, and calling Freeze again is a no-op.
func (rt *Router) Freeze() {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.frozen.Load() {
		return
	}

	for m := Method(0); m < methodCount; m++ {
		rt.trees[m] = buildTree(rt.pending[m], 0)
	}
	rt.frozen.Store(true)
}

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

import "strings"

// Group organizes related routes under a shared path prefix and plugin set
// (spec §9 supplement, grounded on router/groups.go). Nothing about Group is
// visible to Dispatch: Router.Group flattens every grouped route into the
// same rt.pending arrays Handle uses directly, so the matcher and binder
// have no notion of grouping at all.
type Group struct {
	router  *Router
	prefix  string
	plugins []Plugin
}

// Group creates a top-level group under the Router.
func (rt *Router) Group(prefix string, plugins ...Plugin) *Group {
	return &Group{router: rt, prefix: prefix, plugins: plugins}
}

// Group creates a nested group, inheriting this group's prefix and plugins.
func (g *Group) Group(prefix string, plugins ...Plugin) *Group {
	return &Group{
		router:  g.router,
		prefix:  joinPath(g.prefix, prefix),
		plugins: append(append([]Plugin(nil), g.plugins...), plugins...),
	}
}

// Use attaches additional plugins to every route registered through this
// group from this point on.
func (g *Group) Use(plugins ...Plugin) {
	g.plugins = append(g.plugins, plugins...)
}

// Handle registers a route under the group's prefix, with the group's
// plugin chain attached after the Router's global plugins.
func (g *Group) Handle(name string, method Method, version int64, path string, args []Arg, handler HandlerFunc, opts ...RouteOption) *Route {
	return g.router.handle(name, method, version, joinPath(g.prefix, path), args, handler, g.plugins, opts...)
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	case strings.HasSuffix(prefix, "/") && strings.HasPrefix(path, "/"):
		return prefix + path[1:]
	case !strings.HasSuffix(prefix, "/") && !strings.HasPrefix(path, "/"):
		return prefix + "/" + path
	default:
		return prefix + path
	}
}

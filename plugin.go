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

// RouteModifier is handed to a Plugin's ModifyRoute hook at registration
// time. AddArg injects a synthetic Internal argument slot and returns its
// index into Route.Args (spec §4.4) — the plugin typically stashes that
// index in the per-route context it returns, so ModifyCall knows where to
// write later.
type RouteModifier interface {
	AddArg(name string, t ArgType, reader Reader) int
}

// Plugin is a capability attached to the Router (spec §4.4, §6.3). Plugins
// are applied in registration order at both registration and call time.
//
// This is grounded on the teacher's middleware model (middleware/basicauth,
// middleware/ratelimit) but is deliberately narrower: a Plugin here cannot
// short-circuit the response or wrap the handler chain arbitrarily — it can
// only inject internal args at registration and accept-or-reject a call
// before the handler runs. Middleware chaining beyond this model is an
// explicit Non-goal (spec §1).
type Plugin interface {
	// Name identifies the plugin for the router's by-name lookup (§6.3),
	// used by generated code that needs to address a specific plugin.
	Name() string

	// ModifyRoute runs once per route at registration. properties is always
	// nil: route registration takes no per-route plugin configuration. The
	// returned ctx is opaque to the core and is handed back verbatim to
	// ModifyCall for every call to this route.
	ModifyRoute(modifier RouteModifier, properties any) (ctx any)

	// ModifyCall runs after argument binding and before the handler. It
	// may inspect or overwrite rc.Args (e.g. to read the arg it injected
	// in ModifyRoute) and must call done with a non-nil error to abort the
	// request with that error, or nil to let the call proceed.
	ModifyCall(ctx any, rc *RouteContext, done func(error))
}

// runPlugins executes a route's plugins in registration order, stopping at
// the first rejection (spec §4.4: "a non-null error aborts the request").
func runPlugins(route *Route, rc *RouteContext) error {
	for i, p := range route.Plugins {
		var rejectErr error
		done := false
		p.ModifyCall(route.pluginCtxs[i], rc, func(err error) {
			done = true
			rejectErr = err
		})
		if !done {
			// A plugin that never calls done is a programmer error in the
			// plugin, not something the core can recover from silently.
			return Internal(errUndecidedPlugin(p.Name()))
		}
		if rejectErr != nil {
			return rejectErr
		}
	}
	return nil
}

type undecidedPluginError struct{ name string }

func (e *undecidedPluginError) Error() string {
	return "dispatchcore: plugin " + e.name + " never called done()"
}

func errUndecidedPlugin(name string) error { return &undecidedPluginError{name: name} }

// LookupPlugin finds a plugin by name among those attached to a route,
// letting generated code bind to a specific plugin instance (spec §6.3).
func (r *Route) LookupPlugin(name string) Plugin {
	for _, p := range r.Plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

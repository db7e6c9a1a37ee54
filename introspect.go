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

// RouteInfo is a read-only snapshot of one registered route, for tooling
// that wants to list what a Router serves (spec §9 supplement "introspection",
// grounded on router/diagnostics.go's route-listing facility) without
// reaching into unexported Route fields.
type RouteInfo struct {
	Name       string
	Method     Method
	Version    int64
	Path       string
	ArgNames   []string
	PluginNames []string
}

// Routes returns a snapshot of every route registered on the Router, in
// registration order within each method. Safe to call before or after
// Freeze.
func (rt *Router) Routes() []RouteInfo {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var out []RouteInfo
	for m := Method(0); m < methodCount; m++ {
		for _, r := range rt.pending[m] {
			info := RouteInfo{
				Name:    r.Name,
				Method:  r.Method,
				Version: r.Version,
				Path:    r.Path,
			}
			for _, a := range r.Args {
				info.ArgNames = append(info.ArgNames, a.Name)
			}
			for _, p := range r.Plugins {
				info.PluginNames = append(info.PluginNames, p.Name())
			}
			out = append(out, info)
		}
	}
	return out
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acceptPlugin always approves the call.
type acceptPlugin struct{ name string }

func (p *acceptPlugin) Name() string { return p.name }
func (p *acceptPlugin) ModifyRoute(modifier RouteModifier, properties any) any { return nil }
func (p *acceptPlugin) ModifyCall(ctx any, rc *RouteContext, done func(error)) { done(nil) }

// rejectPlugin always rejects the call with a fixed error.
type rejectPlugin struct {
	name string
	err  error
}

func (p *rejectPlugin) Name() string { return p.name }
func (p *rejectPlugin) ModifyRoute(modifier RouteModifier, properties any) any { return nil }
func (p *rejectPlugin) ModifyCall(ctx any, rc *RouteContext, done func(error)) { done(p.err) }

// silentPlugin never calls done — a plugin programming error.
type silentPlugin struct{}

func (silentPlugin) Name() string                                      { return "silent" }
func (silentPlugin) ModifyRoute(modifier RouteModifier, properties any) any { return nil }
func (silentPlugin) ModifyCall(ctx any, rc *RouteContext, done func(error)) {}

func TestRunPlugins_AllAccept(t *testing.T) {
	route := &Route{Plugins: []Plugin{&acceptPlugin{name: "a"}, &acceptPlugin{name: "b"}}}
	route.pluginCtxs = make([]any, len(route.Plugins))
	rc := &RouteContext{Route: route}

	require.NoError(t, runPlugins(route, rc))
}

func TestRunPlugins_FirstRejectionWins(t *testing.T) {
	rejectErr := BadRequest("nope")
	route := &Route{Plugins: []Plugin{
		&rejectPlugin{name: "a", err: rejectErr},
		&acceptPlugin{name: "b"},
	}}
	route.pluginCtxs = make([]any, len(route.Plugins))
	rc := &RouteContext{Route: route}

	err := runPlugins(route, rc)
	assert.Same(t, rejectErr, err)
}

func TestRunPlugins_RegistrationOrder(t *testing.T) {
	var ran []string
	order := func(name string) Plugin {
		return &orderPlugin{name: name, ran: &ran}
	}
	route := &Route{Plugins: []Plugin{order("first"), order("second")}}
	route.pluginCtxs = make([]any, len(route.Plugins))
	rc := &RouteContext{Route: route}

	require.NoError(t, runPlugins(route, rc))
	assert.Equal(t, []string{"first", "second"}, ran)
}

type orderPlugin struct {
	name string
	ran  *[]string
}

func (p *orderPlugin) Name() string { return p.name }
func (p *orderPlugin) ModifyRoute(modifier RouteModifier, properties any) any { return nil }
func (p *orderPlugin) ModifyCall(ctx any, rc *RouteContext, done func(error)) {
	*p.ran = append(*p.ran, p.name)
	done(nil)
}

func TestRunPlugins_SilentPluginIsInternalError(t *testing.T) {
	route := &Route{Plugins: []Plugin{silentPlugin{}}}
	route.pluginCtxs = make([]any, len(route.Plugins))
	rc := &RouteContext{Route: route}

	err := runPlugins(route, rc)
	require.Error(t, err)
	de := asDispatchError(err)
	assert.Equal(t, KindInternal, de.Kind)
}

func TestLookupPlugin(t *testing.T) {
	p := &acceptPlugin{name: "findme"}
	route := &Route{Plugins: []Plugin{p}}

	assert.Same(t, Plugin(p), route.LookupPlugin("findme"))
	assert.Nil(t, route.LookupPlugin("missing"))
}

func TestRouteModifier_AddArg(t *testing.T) {
	route := &Route{}
	rm := &routeModifier{route: route}

	idx := rm.AddArg("token", ArgString, nil)
	require.Len(t, route.Args, 1)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "token", route.Args[0].Name)
	assert.Equal(t, Internal, route.Args[0].Visibility)
}

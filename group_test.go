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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivaas-dev/dispatchcore/task"
)

func TestJoinPath(t *testing.T) {
	cases := []struct{ prefix, path, want string }{
		{"", "/x", "/x"},
		{"/api", "", "/api"},
		{"/api/", "/x", "/api/x"},
		{"/api", "/x", "/api/x"},
		{"/api", "x", "/api/x"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, joinPath(c.prefix, c.path))
	}
}

func TestGroup_PrefixesRoutesAndAppliesPlugins(t *testing.T) {
	rt := New()
	var ran []string
	g := rt.Group("/api", &orderPlugin{name: "group-plugin", ran: &ran})

	g.Handle("ping", MethodGET, 0, "/ping", nil, func(rc *RouteContext) *task.Task[Result] {
		return task.Finished[Result](Result{Value: map[string]string{"ok": "true"}})
	})
	rt.Freeze()

	var got Response
	rt.Dispatch(context.Background(), nil, &Request{Method: "GET", URI: "/api/ping"}, func(r Response) { got = r })

	require.Equal(t, 200, got.Status)
	assert.Equal(t, []string{"group-plugin"}, ran)
}

func TestGroup_NestedInheritsPrefixAndPlugins(t *testing.T) {
	rt := New()
	var ran []string
	api := rt.Group("/api", &orderPlugin{name: "outer", ran: &ran})
	v1 := api.Group("/v1", &orderPlugin{name: "inner", ran: &ran})

	v1.Handle("ping", MethodGET, 0, "/ping", nil, func(rc *RouteContext) *task.Task[Result] {
		return task.Finished[Result](Result{Value: map[string]string{"ok": "true"}})
	})
	rt.Freeze()

	var got Response
	rt.Dispatch(context.Background(), nil, &Request{Method: "GET", URI: "/api/v1/ping"}, func(r Response) { got = r })

	require.Equal(t, 200, got.Status)
	assert.Equal(t, []string{"outer", "inner"}, ran)
}

func TestRoutes_Introspection(t *testing.T) {
	rt := New()
	rt.Handle("users.get", MethodGET, 1, "/users/{id}", []Arg{
		{Name: "id", Type: ArgInt64, IsPath: true, Visibility: Public},
	}, func(rc *RouteContext) *task.Task[Result] { return nil })

	routes := rt.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "users.get", routes[0].Name)
	assert.Equal(t, []string{"id"}, routes[0].ArgNames)
}

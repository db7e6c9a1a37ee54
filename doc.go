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

// Package dispatchcore is the request routing and dispatch core of a
// lightweight RPC/HTTP framework.
//
// It compiles route declarations into a per-method segment tree, matches
// incoming requests (path, query, body, and an integer API version) against
// that tree, binds typed arguments into handler calls, runs a pluggable
// lifecycle-listener and plugin pipeline around the call, and completes the
// response through a Task — a single-shot deferred result with map/then/catch
// combinators.
//
// # Scope
//
// This package owns routing, argument binding, plugins, and Task. HTTP
// framing and socket management are external collaborators, consumed only
// through the Transport contract in transport.go; a reference net/http
// adapter lives in the nethttp subpackage. JSON/form codec internals are
// likewise collaborators behind the Reader contract in arg.go and the Writer
// contract in route.go.
//
// # Quick start
//
//	r := dispatchcore.New()
//	r.Handle("users.get", dispatchcore.MethodGET, 0, "/users/{id}",
//	    []dispatchcore.Arg{{Name: "id", Type: dispatchcore.ArgInt64, IsPath: true}},
//	    func(ctx *dispatchcore.RouteContext) *task.Task[dispatchcore.Result] {
//	        id, _ := ctx.Args[0].(int64)
//	        return task.Finished(dispatchcore.Result{Value: map[string]any{"id": id}})
//	    },
//	)
//	r.Freeze()
package dispatchcore

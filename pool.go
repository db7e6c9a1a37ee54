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

import "sync"

// contextPool recycles RouteContext values across calls (spec §9 supplement,
// grounded on router/pool.go's globalContextPool). A RouteContext is
// acquired after a route match and released once the handler's Task reaches
// a terminal state and the response has been written, since a handler may
// legitimately retain rc.Args until then.
var contextPool = sync.Pool{
	New: func() any {
		return &RouteContext{}
	},
}

// acquireContext retrieves a RouteContext from the pool, panicking on pool
// corruption rather than silently misbehaving — mirroring the teacher's
// getContextFromGlobalPool, since a non-RouteContext value in this pool can
// only mean something else wrote to it.
func acquireContext() *RouteContext {
	rc, ok := contextPool.Get().(*RouteContext)
	if !ok {
		panic("dispatchcore: pool corruption - contextPool returned non-RouteContext type")
	}
	return rc
}

// releaseContext clears rc and returns it to the pool.
func releaseContext(rc *RouteContext) {
	rc.reset()
	contextPool.Put(rc)
}

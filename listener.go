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

import "context"

// Listener is the per-call observability hook set (spec §4.6, §5). The
// dispatch controller calls OnStart exactly once per call, immediately
// followed, eventually, by exactly one of OnSucceed or OnFail — including
// for failures raised before the handler ever runs (binding errors, plugin
// rejections), so a Listener always sees a balanced start/end pair.
//
// This mirrors the teacher's ObservabilityRecorder (router/observability.go)
// lifecycle shape — enrich-context-at-start, single terminal event — cut
// down to the three events spec §4.6 actually names, since request
// exclusion and response-writer wrapping are net/http concerns that belong
// in the nethttp adapter, not the core.
type Listener interface {
	// OnStart is called once routing has produced a matched Route, before
	// argument binding. It returns an enriched context threaded through the
	// rest of the call, and the CallID recorded on the RouteContext and
	// handed back to OnSucceed/OnFail.
	OnStart(ctx context.Context, route *Route) (context.Context, string)

	// OnSucceed is called when the handler's Task finishes successfully.
	OnSucceed(ctx context.Context, callID string, route *Route, result Result)

	// OnFail is called exactly once per call that does not reach OnSucceed,
	// whether the failure originated in binding, a plugin rejection, or the
	// handler's Task.
	OnFail(ctx context.Context, callID string, route *Route, err error)
}

// NoopListener discards every event. It is the Router's default Listener
// (spec §5: a Listener is optional infrastructure, not a hard dependency).
type NoopListener struct{}

func (NoopListener) OnStart(ctx context.Context, route *Route) (context.Context, string) {
	return ctx, ""
}

func (NoopListener) OnSucceed(ctx context.Context, callID string, route *Route, result Result) {}

func (NoopListener) OnFail(ctx context.Context, callID string, route *Route, err error) {}

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
	"fmt"
	"strconv"
	"strings"

	"github.com/rivaas-dev/dispatchcore/task"
)

// Dispatch resolves and serves one call against a frozen Router (spec §4.6).
// transport is the opaque handle Listener/handler code may need to reach
// back into the driving transport; it is never interpreted by the core.
func (rt *Router) Dispatch(ctx context.Context, transport any, req *Request, respond Respond) {
	if !rt.frozen.Load() {
		respond(errorResponse(Internal(ErrRoutesNotFrozen)))
		return
	}

	version := detectVersion(req.Headers)

	method, ok := ParseMethod(req.Method)
	if !ok {
		rt.defaultHandler(transport, req, respond)
		return
	}

	path, rawQuery := splitQuery(req.URI)
	route, params := match(rt.trees[method], version, path, 0)
	if route == nil {
		rt.defaultHandler(transport, req, respond)
		return
	}

	ctx, callID := rt.listener.OnStart(ctx, route)

	rc := acquireContext()
	rc.Transport = transport
	rc.Route = route
	rc.CallID = callID
	rc.Version = version
	rc.Headers = req.Headers
	rc.ResponseHeaders = NewHeader()
	rc.RawQuery = rawQuery

	if err := bindArgs(rc, rawQuery, params, req.ContentType, req.Body); err != nil {
		rt.fail(ctx, rc, err, respond)
		return
	}

	if err := runPlugins(route, rc); err != nil {
		rt.fail(ctx, rc, err, respond)
		return
	}

	t := rt.invokeHandler(route, rc)
	t.SetHandler(func(result Result, err error) {
		if err != nil {
			rt.fail(ctx, rc, err, respond)
			return
		}
		rt.succeed(ctx, rc, result, respond)
	})
}

// invokeHandler calls route.Handler, recovering a synchronous panic into a
// failed Task instead of crashing the dispatching goroutine — grounded on
// the teacher's recovery middleware (middleware/recovery), generalized from
// an HTTP middleware wrapping ServeHTTP to wrapping the one call site that
// can run arbitrary handler code.
func (rt *Router) invokeHandler(route *Route, rc *RouteContext) (t *task.Task[Result]) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("dispatchcore: handler panicked", "route", route.Name, "panic", r)
			t = task.Failed[Result](Internal(fmt.Errorf("handler panic: %v", r)))
		}
	}()
	return route.Handler(rc)
}

// fail reports a call's terminal failure, whatever stage raised it (spec
// §4.6: "any exception raised before the handler runs ... is reported as a
// failure ... so the listener still observes exactly one terminal event per
// request"). OnStart has always already fired by the time fail can be
// called, so this alone is sufficient to balance it.
func (rt *Router) fail(ctx context.Context, rc *RouteContext, err error, respond Respond) {
	de := asDispatchError(err)
	if de.Kind == KindInternal {
		rt.logger.Error("dispatchcore: internal error", "route", rc.Route.Name, "error", de)
	}
	respond(errorResponse(de))
	rt.listener.OnFail(ctx, rc.CallID, rc.Route, de)
	releaseContext(rc)
}

// succeed writes a handler's successful Result to the response sink (spec
// §4.6 step 7: raw bytes pass through verbatim, otherwise the route's
// Writer serializes Result.Value).
func (rt *Router) succeed(ctx context.Context, rc *RouteContext, result Result, respond Respond) {
	body := result.Raw
	contentType := ""
	if body == nil {
		var err error
		body, err = rc.Route.Writer.Write(result.Value)
		if err != nil {
			rt.fail(ctx, rc, Internal(err), respond)
			return
		}
		contentType = rc.Route.Writer.ContentType()
	}

	if contentType != "" && rc.ResponseHeaders.Get("Content-Type") == "" {
		rc.ResponseHeaders.Set("Content-Type", contentType)
	}

	respond(Response{Status: 200, Headers: rc.ResponseHeaders, Body: body})
	rt.listener.OnSucceed(ctx, rc.CallID, rc.Route, result)
	releaseContext(rc)
}

// detectVersion implements spec §4.6 step 1: Accept header first if it
// parses as a non-negative integer, else API-VERSION, else 0.
func detectVersion(headers Header) int64 {
	if v, ok := parseNonNegativeInt(headers.Get("Accept")); ok {
		return v
	}
	if v, ok := parseNonNegativeInt(headers.Get("API-VERSION")); ok {
		return v
	}
	return 0
}

// parseNonNegativeInt implements spec §6.2's version header grammar: the
// value MUST parse as a non-negative integer, so "0" is well-formed and
// distinct from an absent/malformed header. Only a negative value or a
// parse failure counts as malformed.
func parseNonNegativeInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// splitQuery splits a request URI into its path and raw query components,
// dropping the leading '?'. It does not unescape either part — the matcher
// consumes raw path bytes and the binder unescapes the query itself.
func splitQuery(uri string) (path, rawQuery string) {
	if i := strings.IndexByte(uri, '?'); i != -1 {
		return uri[:i], uri[i+1:]
	}
	return uri, ""
}

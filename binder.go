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
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// bindArgs fills rc.Args from query string, path captures, and body, in the
// order spec §4.3 prescribes, then runs checkArgs. rawQuery is the part of
// the request URI after '?' (without the '?'); pathParams is the matcher's
// reverse-depth-order capture list (spec §4.2).
func bindArgs(rc *RouteContext, rawQuery string, pathParams []string, contentType string, body []byte) error {
	route := rc.Route
	rc.Args = make([]any, len(route.Args))

	var parseErr error

	bindQuery(route, rc.Args, rawQuery, &parseErr)
	bindPath(route, rc.Args, pathParams, &parseErr)
	bindBody(route, rc.Args, contentType, body, &parseErr)

	return checkArgs(route, rc.Args, parseErr)
}

// bindQuery implements spec §4.3 step 2.
func bindQuery(route *Route, values []any, rawQuery string, parseErr *error) {
	if rawQuery == "" {
		return
	}

	for _, fragment := range strings.Split(rawQuery, "&") {
		if fragment == "" {
			continue
		}
		eq := strings.IndexByte(fragment, '=')
		if eq == -1 {
			if *parseErr == nil {
				*parseErr = BadRequest("malformed query fragment %q: missing '='", fragment)
			}
			continue
		}

		rawName, rawValue := fragment[:eq], fragment[eq+1:]
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			if *parseErr == nil {
				*parseErr = BadRequest("malformed query parameter name %q: %v", rawName, err)
			}
			continue
		}
		h := nameHash(name)

		for i := range route.Args {
			arg := &route.Args[i]
			if arg.Visibility != Public || arg.IsPath || arg.Type == ArgBodyContent {
				continue
			}
			if nameHash(arg.Name) != h {
				continue
			}

			if rawValue == "" {
				continue // empty value string: leave the slot null
			}
			value, err := url.QueryUnescape(rawValue)
			if err != nil {
				if *parseErr == nil {
					*parseErr = BadRequest("malformed query value for %q: %v", arg.Name, err)
				}
				continue
			}

			v, err := readPrimitive(value, arg)
			if err != nil && arg.Reader != nil {
				// Retry treating the value as URL-encoded JSON (spec §4.3
				// step 2: "retry by treating the string as URL-encoded
				// JSON").
				if v2, err2 := readViaReader(arg.Reader, json.RawMessage(value)); err2 == nil {
					v, err = v2, nil
				}
			}
			if err != nil {
				if *parseErr == nil {
					*parseErr = err
				}
				continue
			}
			values[i] = v
		}
	}
}

// bindPath implements spec §4.3 step 3. pathParams is in reverse-depth
// order (deepest capture first); route.captures is in declaration
// (shallow-to-deep) order, so index i of pathParams targets
// captures[len-i-1].
func bindPath(route *Route, values []any, pathParams []string, parseErr *error) {
	n := len(pathParams)
	for i, raw := range pathParams {
		seg := route.captures[n-i-1]
		arg := &route.Args[seg.ArgIndex]

		decoded, err := url.PathUnescape(raw)
		if err != nil {
			if *parseErr == nil {
				*parseErr = BadRequest("malformed path segment %q for %q: %v", raw, arg.Name, err)
			}
			continue
		}

		v, err := readPrimitive(decoded, arg)
		if err != nil {
			if *parseErr == nil {
				*parseErr = err
			}
			continue
		}
		values[seg.ArgIndex] = v
	}
}

// bindBody implements spec §4.3 step 4.
func bindBody(route *Route, values []any, contentType string, body []byte, parseErr *error) {
	if route.BodyArgIndex >= 0 {
		values[route.BodyArgIndex] = body
		return
	}

	if strings.HasPrefix(contentType, "application/json") {
		bindJSONBody(route, values, body, parseErr)
		return
	}

	bindFormBody(route, values, body, parseErr)
}

func bindJSONBody(route *Route, values []any, body []byte, parseErr *error) {
	if len(body) == 0 {
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if *parseErr == nil {
			*parseErr = BadRequest("invalid JSON body: %v", err)
		}
		return
	}

	for fieldName, raw := range fields {
		h := nameHash(fieldName)
		if string(raw) == "null" {
			continue // a null value leaves the slot null
		}

		for i := range route.Args {
			arg := &route.Args[i]
			if arg.Visibility != Public || arg.Type == ArgBodyContent {
				continue
			}
			if nameHash(arg.Name) != h {
				continue
			}

			v, err := decodeJSONField(raw, arg)
			if err != nil {
				if *parseErr == nil {
					*parseErr = err
				}
				continue
			}
			values[i] = v
		}
	}
}

func decodeJSONField(raw json.RawMessage, arg *Arg) (any, error) {
	if arg.Type == ArgUserReader {
		v, err := readViaReader(arg.Reader, raw)
		if err != nil {
			return nil, BadRequest("invalid value for %q: %v", arg.Name, err)
		}
		return v, nil
	}

	// Primitive types: unmarshal the JSON scalar into a Go value, then run
	// it through the same string-path coercion table so enum/bool/char
	// validation stays in one place.
	var s string
	switch {
	case len(raw) > 0 && raw[0] == '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, BadRequest("invalid string value for %q: %v", arg.Name, err)
		}
	default:
		s = string(raw)
	}

	v, err := readPrimitive(s, arg)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func bindFormBody(route *Route, values []any, body []byte, parseErr *error) {
	if len(body) == 0 {
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		if *parseErr == nil {
			*parseErr = BadRequest("invalid form body: %v", err)
		}
		return
	}

	for fieldName, vals := range form {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		h := nameHash(fieldName)
		for i := range route.Args {
			arg := &route.Args[i]
			if arg.Visibility != Public || arg.IsPath || arg.Type == ArgBodyContent {
				continue
			}
			if nameHash(arg.Name) != h {
				continue
			}
			v, err := readPrimitive(vals[0], arg)
			if err != nil {
				if *parseErr == nil {
					*parseErr = err
				}
				continue
			}
			values[i] = v
		}
	}
}

// checkArgs implements spec §4.3 step 5. It is idempotent: running it
// twice over an already-populated Args array is a no-op, since it only
// ever assigns a default into a still-nil slot (spec §8 "Idempotent check").
func checkArgs(route *Route, values []any, parseErr error) error {
	for i := range route.Args {
		arg := &route.Args[i]
		if values[i] != nil || arg.Visibility != Public {
			continue
		}
		if arg.Optional {
			values[i] = arg.Default
			continue
		}
		if parseErr != nil {
			return BadRequest("Request to %s is missing required query parameter %q of type %s (%v)",
				route.Name, arg.Name, arg.Type, parseErr)
		}
		return BadRequest("Request to %s is missing required query parameter %q of type %s",
			route.Name, arg.Name, arg.Type)
	}
	return nil
}

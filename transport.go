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

// Request is the transport-agnostic shape of an inbound call (spec §6.1).
// A concrete transport (e.g. the nethttp adapter) builds one of these from
// whatever wire representation it owns and hands it to Router.Dispatch.
type Request struct {
	// Method is the wire HTTP method string ("GET", "POST", ...).
	Method string
	// URI is the request target as received: path plus an optional
	// '?'-prefixed query string, still percent-encoded.
	URI string
	// Headers are the request's headers, folded to this package's
	// single-value-per-key Header shape.
	Headers Header
	// ContentType is the request's declared Content-Type, possibly with
	// parameters (charset, boundary, ...); bindBody switches on its prefix.
	ContentType string
	// Body is the fully buffered request body. Streaming bodies are an
	// explicit Non-goal (spec §1): the driving transport is responsible for
	// reading the body to completion before calling Dispatch.
	Body []byte
}

// Response is what a dispatch eventually produces for the transport to
// write back (spec §6.1, §7).
type Response struct {
	Status  int
	Headers Header
	Body    []byte
}

// Respond is the callback a transport passes to Dispatch to receive the
// Response once dispatch completes. It is called exactly once per Dispatch
// call, synchronously if the handler's Task was already terminal, or later
// on whatever goroutine finishes that Task otherwise.
type Respond func(Response)

// DefaultHandler is invoked when no route matches the request (unknown
// method, or no path/version match) — spec §4.6 steps 2-3: "delegate to a
// default handler that is expected to produce a 404/405-shaped response."
// A Router built with New uses a default that responds with a bare 404 and
// no body; WithDefaultHandler replaces it.
type DefaultHandler func(transport any, req *Request, respond Respond)

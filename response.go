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

import json "github.com/goccy/go-json"

// errorBody is the wire shape of every error response (spec §7): a single
// "error" field carrying the message, never the wrapped Cause — an Internal
// error's Cause is for the Listener and logs only, never the client.
type errorBody struct {
	Error string `json:"error"`
}

// statusFor resolves an error's HTTP status via ErrorType (spec §7 table),
// grounded on the teacher's errors.Simple.determineStatus, which checks the
// interface and defers to it rather than switching on a concrete type.
func statusFor(e *Error) int {
	var typed ErrorType = e
	return typed.HTTPStatus()
}

// messageFor returns the text placed in the response body. An Internal
// error never leaks its message or Cause to the client (spec §7: "the
// detail is logged but never returned in the response body").
func messageFor(e *Error) string {
	if e.Kind == KindInternal {
		return "internal server error"
	}
	return e.Message
}

// errorResponse renders a dispatch Error into the wire Response (spec §7).
func errorResponse(e *Error) Response {
	body, err := json.Marshal(errorBody{Error: messageFor(e)})
	if err != nil {
		// Marshaling a one-field struct of a string cannot fail in practice;
		// fall back to a literal so a Response is always produced.
		body = []byte(`{"error":"internal server error"}`)
	}
	headers := NewHeader()
	headers.Set("Content-Type", "application/json")
	return Response{Status: statusFor(e), Headers: headers, Body: body}
}

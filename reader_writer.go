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
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
)

// JSONDecoder is the token stream a Reader decodes an ArgUserReader value
// from (spec §3, §4.3). It is goccy/go-json's Decoder — a drop-in,
// allocation-lighter replacement for encoding/json's — rather than a
// bespoke type, since the Reader/Writer contract only needs to name the
// wire format, not reinvent it (spec §1: "JSON/binary codec internals ...
// only the Reader/Writer contracts matter").
type JSONDecoder = json.Decoder

// defaultJSONWriter serializes a handler's Result.Value with goccy/go-json.
// It is the Route.Writer used when a route doesn't override one.
type defaultJSONWriter struct{}

func (defaultJSONWriter) Write(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (defaultJSONWriter) ContentType() string { return "application/json" }

// readViaReader implements the JSON string-wrapping fallback from spec
// §4.3: if the current token is a JSON string, the reader gets first crack
// at the raw token (some readers — e.g. a base64 blob reader — want the
// literal string); only if that fails do we unmarshal the string's
// contents and hand the reader a *nested* decoder over those bytes.
//
// Open question (spec §9): the nested parse reads directly from the
// unmarshaled string's bytes — after ordinary JSON escape processing —
// rather than re-scanning the original escaped source. We document that
// choice here rather than leaving it to reader implementations to guess.
func readViaReader(reader Reader, raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	isString := len(trimmed) > 0 && trimmed[0] == '"'

	v, err := reader.FromJSON(json.NewDecoder(bytes.NewReader(raw)))
	if err == nil {
		return v, nil
	}
	if !isString {
		return nil, err
	}

	var inner string
	if uerr := json.Unmarshal(raw, &inner); uerr != nil {
		return nil, err // propagate the original error, not the unwrap failure
	}
	return reader.FromJSON(json.NewDecoder(strings.NewReader(inner)))
}

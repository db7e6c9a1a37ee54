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
	"strconv"
	"time"
)

// Visibility controls whether an Arg is ever read from the wire.
type Visibility int

const (
	// Public args are bound from path/query/body per §4.3.
	Public Visibility = iota
	// Internal args are injected by a Plugin (§4.4) and never read from the wire.
	Internal
)

// ArgType is the tagged type enum the spec's design notes (§9) call for in
// place of reflected class-token dispatch. UserReader and Enum carry extra
// data via the Arg's Reader/EnumValues fields.
type ArgType int

const (
	ArgInt32 ArgType = iota
	ArgInt64
	ArgFloat32
	ArgFloat64
	ArgBool
	ArgChar
	ArgString
	ArgDateTime
	ArgEnum
	ArgUserReader
	// ArgBodyContent receives the raw, unparsed request body buffer.
	ArgBodyContent
)

// String returns the simple name used in BadRequest messages (§4.3 checkArgs).
func (t ArgType) String() string {
	switch t {
	case ArgInt32:
		return "int32"
	case ArgInt64:
		return "int64"
	case ArgFloat32:
		return "float32"
	case ArgFloat64:
		return "float64"
	case ArgBool:
		return "bool"
	case ArgChar:
		return "char"
	case ArgString:
		return "string"
	case ArgDateTime:
		return "datetime"
	case ArgEnum:
		return "enum"
	case ArgUserReader:
		return "object"
	case ArgBodyContent:
		return "bodyContent"
	default:
		return "unknown"
	}
}

// Reader lets an Arg of type ArgUserReader decode itself from JSON, and
// provides the string-wrapping fallback path described in §4.3: the binder
// first calls FromJSON over the raw JSON token, and when that fails and the
// token is a string, calls FromJSON again over a fresh token stream on the
// string's contents (see readViaReader).
type Reader interface {
	// FromJSON decodes one JSON value from dec (positioned on the value's
	// first token) and returns the bound Go value.
	FromJSON(dec *JSONDecoder) (any, error)
	// FromString decodes a query/path/url-encoded string form of the value.
	// Used for query-string and path-segment binding of ArgUserReader args.
	FromString(s string) (any, error)
}

// Arg is one logical parameter of a Route (spec §3).
type Arg struct {
	Name       string
	Type       ArgType
	Reader     Reader // only used when Type == ArgUserReader, or as a fallback for primitives (§4.3 step 2)
	Visibility Visibility
	Optional   bool
	Default    any
	IsPath     bool
	// EnumValues lists the accepted literal names when Type == ArgEnum.
	EnumValues []string
}

// readPrimitive coerces a wire string into the Arg's declared primitive
// type, per spec §4.3. Failure is always a BadRequest.
func readPrimitive(s string, arg *Arg) (any, error) {
	switch arg.Type {
	case ArgInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, BadRequest("invalid int32 value %q for %q: %v", s, arg.Name, err)
		}
		return int32(v), nil
	case ArgInt64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, BadRequest("invalid int64 value %q for %q: %v", s, arg.Name, err)
		}
		return v, nil
	case ArgFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, BadRequest("invalid float32 value %q for %q: %v", s, arg.Name, err)
		}
		return float32(v), nil
	case ArgFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, BadRequest("invalid float64 value %q for %q: %v", s, arg.Name, err)
		}
		return v, nil
	case ArgBool:
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, BadRequest("invalid bool value %q for %q: must be \"true\" or \"false\"", s, arg.Name)
		}
	case ArgChar:
		if len([]rune(s)) != 1 {
			return nil, BadRequest("invalid char value %q for %q: must be exactly one character", s, arg.Name)
		}
		return []rune(s)[0], nil
	case ArgString:
		return s, nil
	case ArgDateTime:
		v, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, BadRequest("invalid datetime value %q for %q: %v", s, arg.Name, err)
		}
		return v, nil
	case ArgEnum:
		for _, v := range arg.EnumValues {
			if v == s {
				return s, nil
			}
		}
		return nil, BadRequest("invalid enum value %q for %q: must be one of %v", s, arg.Name, arg.EnumValues)
	case ArgUserReader:
		if arg.Reader == nil {
			return nil, BadRequest("no reader configured for %q", arg.Name)
		}
		return arg.Reader.FromString(s)
	default:
		return nil, BadRequest("unsupported argument type for %q", arg.Name)
	}
}

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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPrimitive_Table(t *testing.T) {
	cases := []struct {
		name string
		arg  Arg
		in   string
		want any
	}{
		{"int32", Arg{Name: "n", Type: ArgInt32}, "42", int32(42)},
		{"int64", Arg{Name: "n", Type: ArgInt64}, "42", int64(42)},
		{"float32", Arg{Name: "n", Type: ArgFloat32}, "1.5", float32(1.5)},
		{"float64", Arg{Name: "n", Type: ArgFloat64}, "1.5", float64(1.5)},
		{"bool-true", Arg{Name: "n", Type: ArgBool}, "true", true},
		{"bool-false", Arg{Name: "n", Type: ArgBool}, "false", false},
		{"char", Arg{Name: "n", Type: ArgChar}, "x", 'x'},
		{"string", Arg{Name: "n", Type: ArgString}, "hello", "hello"},
		{"enum-valid", Arg{Name: "n", Type: ArgEnum, EnumValues: []string{"a", "b"}}, "b", "b"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := readPrimitive(c.in, &c.arg)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestReadPrimitive_DateTime(t *testing.T) {
	arg := Arg{Name: "t", Type: ArgDateTime}
	got, err := readPrimitive("2024-01-15T10:30:00Z", &arg)
	require.NoError(t, err)
	want, _ := time.Parse(time.RFC3339, "2024-01-15T10:30:00Z")
	assert.Equal(t, want, got)
}

func TestReadPrimitive_Failures(t *testing.T) {
	cases := []struct {
		name string
		arg  Arg
		in   string
	}{
		{"bad int32", Arg{Name: "n", Type: ArgInt32}, "nope"},
		{"bad bool", Arg{Name: "n", Type: ArgBool}, "yes"},
		{"multi-rune char", Arg{Name: "n", Type: ArgChar}, "xy"},
		{"empty char", Arg{Name: "n", Type: ArgChar}, ""},
		{"bad enum", Arg{Name: "n", Type: ArgEnum, EnumValues: []string{"a", "b"}}, "c"},
		{"bad datetime", Arg{Name: "n", Type: ArgDateTime}, "not-a-date"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := readPrimitive(c.in, &c.arg)
			require.Error(t, err)
			assert.Equal(t, KindBadRequest, asDispatchError(err).Kind)
		})
	}
}

func TestReadPrimitive_UserReaderDelegatesToFromString(t *testing.T) {
	reader := &fakeReader{fromString: func(s string) (any, error) { return "wrapped:" + s, nil }}
	arg := Arg{Name: "obj", Type: ArgUserReader, Reader: reader}

	got, err := readPrimitive("value", &arg)
	require.NoError(t, err)
	assert.Equal(t, "wrapped:value", got)
}

type fakeReader struct {
	fromString func(string) (any, error)
	fromJSON   func(*JSONDecoder) (any, error)
}

func (f *fakeReader) FromString(s string) (any, error) { return f.fromString(s) }
func (f *fakeReader) FromJSON(dec *JSONDecoder) (any, error) {
	if f.fromJSON == nil {
		return nil, assertNever{}
	}
	return f.fromJSON(dec)
}

type assertNever struct{}

func (assertNever) Error() string { return "fromJSON should not have been called" }

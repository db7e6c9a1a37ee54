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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// newTestRoute builds a bare Route for tree/matcher tests without going
// through Router.Handle, since these tests exercise buildTree/match in
// isolation.
func newTestRoute(t *testing.T, name string, version int64, path string, args []Arg) *Route {
	t.Helper()
	r := &Route{Name: name, Version: version, Path: path, Args: args, Writer: defaultJSONWriter{}, BodyArgIndex: -1}
	r.Segments = parseSegments(path, r.Args)
	if len(r.Segments) > 0 {
		last := r.Segments[len(r.Segments)-1]
		if !last.Capture {
			r.nameHash = nameHash(last.Name)
		}
	}
	for _, seg := range r.Segments {
		if seg.Capture {
			r.captures = append(r.captures, seg)
		}
	}
	return r
}

type TreeSuite struct {
	suite.Suite
}

func TestTreeSuite(t *testing.T) {
	suite.Run(t, new(TreeSuite))
}

func (s *TreeSuite) TestVersionPrecedence() {
	r1 := newTestRoute(s.T(), "users.v1", 1, "/users/{id}", []Arg{{Name: "id", Type: ArgInt64, IsPath: true, Visibility: Public}})
	r2 := newTestRoute(s.T(), "users.v2", 2, "/users/{id}", []Arg{{Name: "id", Type: ArgInt64, IsPath: true, Visibility: Public}})

	tree := buildTree([]*Route{r1, r2}, 0)

	route, params := match(tree, 1, "/users/42", 0)
	require.NotNil(s.T(), route)
	s.Equal("users.v1", route.Name)
	s.Equal([]string{"42"}, params)

	route, params = match(tree, 5, "/users/42", 0)
	require.NotNil(s.T(), route)
	s.Equal("users.v2", route.Name)
	s.Equal([]string{"42"}, params)
}

func (s *TreeSuite) TestLiteralBeatsWildcard() {
	literal := newTestRoute(s.T(), "users.me", 0, "/users/me", nil)
	wildcard := newTestRoute(s.T(), "users.id", 0, "/users/{id}", []Arg{{Name: "id", Type: ArgString, IsPath: true, Visibility: Public}})

	tree := buildTree([]*Route{literal, wildcard}, 0)

	route, params := match(tree, 0, "/users/me", 0)
	require.NotNil(s.T(), route)
	s.Equal("users.me", route.Name)
	s.Empty(params)

	route, params = match(tree, 0, "/users/123", 0)
	require.NotNil(s.T(), route)
	s.Equal("users.id", route.Name)
	s.Equal([]string{"123"}, params)
}

func (s *TreeSuite) TestNoMatchReturnsNil() {
	r := newTestRoute(s.T(), "items.list", 0, "/items", nil)
	tree := buildTree([]*Route{r}, 0)

	route, _ := match(tree, 0, "/nope", 0)
	s.Nil(route)
}

func (s *TreeSuite) TestVersionTooHighDoesNotMatch() {
	r := newTestRoute(s.T(), "users.v3", 3, "/users/{id}", []Arg{{Name: "id", Type: ArgInt64, IsPath: true, Visibility: Public}})
	tree := buildTree([]*Route{r}, 0)

	route, _ := match(tree, 1, "/users/42", 0)
	s.Nil(route, "requesting a lower version than any registered route must not match")
}

func (s *TreeSuite) TestReverseDepthParamOrder() {
	r := newTestRoute(s.T(), "nested", 0, "/a/{x}/b/{y}", []Arg{
		{Name: "x", Type: ArgString, IsPath: true, Visibility: Public},
		{Name: "y", Type: ArgString, IsPath: true, Visibility: Public},
	})
	tree := buildTree([]*Route{r}, 0)

	route, params := match(tree, 0, "/a/1/b/2", 0)
	require.NotNil(s.T(), route)
	s.Equal([]string{"2", "1"}, params, "params must be deepest-capture-first")
}

func TestNameHashDeterministic(t *testing.T) {
	assert.Equal(t, nameHash("users"), nameHash("users"))
}

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

// match walks url one segment at a time starting at byte offset start,
// resolving against node, and returns the matched Route plus the raw
// (still percent-encoded) captured segment strings in reverse depth order
// — deepest capture first (spec §4.2). It never allocates when there are
// no captures.
func match(n *treeNode, version int64, url string, start int) (*Route, []string) {
	var params []string
	r := matchNode(n, version, url, start, &params)
	return r, params
}

func matchNode(n *treeNode, version int64, url string, start int, params *[]string) *Route {
	for start < len(url) && url[start] == '/' {
		start++
	}

	segStart := start
	segEnd := segStart
	for segEnd < len(url) {
		c := url[segEnd]
		if c == '/' || c == '?' {
			break
		}
		segEnd++
	}
	segment := url[segStart:segEnd]
	isTerminal := segEnd >= len(url) || url[segEnd] == '?'
	h := nameHash(segment)

	if isTerminal {
		for i, lh := range n.localLiteralHashes {
			if lh == h && n.localLiterals[i].Version <= version {
				return n.localLiterals[i]
			}
		}
		for _, r := range n.localWildcards {
			if r.Version <= version {
				*params = append(*params, segment)
				return r
			}
		}
		return nil
	}

	childIdx := -1
	for i, ch := range n.childHashes {
		if ch == h {
			childIdx = i
			break
		}
	}
	if childIdx != -1 {
		if r := matchNode(n.children[childIdx], version, url, segEnd+1, params); r != nil {
			return r
		}
	}

	if n.wildcardChild != nil {
		if r := matchNode(n.wildcardChild, version, url, segEnd+1, params); r != nil {
			*params = append(*params, segment)
			return r
		}
	}

	return nil
}

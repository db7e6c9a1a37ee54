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

import "sort"

// treeNode is a recursive SegmentTree node (spec §3). It mirrors the
// teacher's radix `node` type (router/radix.go) — per-segment children as
// parallel slices for fast linear scan, plus a single wildcard child — but
// carries version-sorted endpoint arrays instead of a single handler slot,
// since a node here can terminate more than one route (one per version).
type treeNode struct {
	// localLiterals/localLiteralHashes: routes terminating here with a
	// literal final segment, descending-sorted by Version, hash arrays
	// index-aligned with the route arrays (invariant iii, spec §3).
	localLiterals      []*Route
	localLiteralHashes []uint64

	// localWildcards: routes terminating here with a captured final
	// segment, also descending-sorted by Version.
	localWildcards []*Route

	// children: per-segment-name-hash children, for routes continuing with
	// a literal at this depth. Parallel arrays for scan speed, grounded on
	// the teacher's edge{label,node} slice-of-pairs layout.
	childHashes []uint64
	children    []*treeNode

	// wildcardChild aggregates every route that continues with a capture
	// at this depth.
	wildcardChild *treeNode
}

// buildTree partitions routes per spec §4.1 and recurses. It is called once
// per HTTP method at Freeze() time; the resulting tree is never mutated
// again (invariant iv).
func buildTree(routes []*Route, depth int) *treeNode {
	n := &treeNode{}
	if len(routes) == 0 {
		return n
	}

	var endpointLiterals, endpointWildcards, continuing []*Route
	for _, r := range routes {
		if len(r.Segments) == depth+1 {
			if r.Segments[depth].Capture {
				endpointWildcards = append(endpointWildcards, r)
			} else {
				endpointLiterals = append(endpointLiterals, r)
			}
		} else if len(r.Segments) > depth+1 {
			continuing = append(continuing, r)
		}
		// Below the root, routes shorter than depth+1 cannot occur: buildTree
		// only ever recurses into routes that reached this depth as
		// "continuing". At the root, a route whose path has no segments
		// (such as "/") is not placed in the tree and never matches.
	}

	sortByVersionDesc(endpointLiterals)
	sortByVersionDesc(endpointWildcards)

	n.localLiterals = endpointLiterals
	n.localLiteralHashes = make([]uint64, len(endpointLiterals))
	for i, r := range endpointLiterals {
		n.localLiteralHashes[i] = r.nameHash
	}
	n.localWildcards = endpointWildcards

	// Group literal-continuations by their current segment's name; collect
	// every capture-continuation into one wildcard group (spec §4.1 step 2).
	childGroups := make(map[string][]*Route)
	var childOrder []string
	var wildcardGroup []*Route

	for _, r := range continuing {
		seg := r.Segments[depth]
		if seg.Capture {
			wildcardGroup = append(wildcardGroup, r)
			continue
		}
		if _, ok := childGroups[seg.Name]; !ok {
			childOrder = append(childOrder, seg.Name)
		}
		childGroups[seg.Name] = append(childGroups[seg.Name], r)
	}

	for _, name := range childOrder {
		n.childHashes = append(n.childHashes, nameHash(name))
		n.children = append(n.children, buildTree(childGroups[name], depth+1))
	}

	if len(wildcardGroup) > 0 {
		n.wildcardChild = buildTree(wildcardGroup, depth+1)
	}

	return n
}

// sortByVersionDesc sorts routes by descending Version so the matcher's
// first version-compatible hit is also the highest one (spec §4.1
// invariant i). sort.SliceStable preserves registration order among routes
// sharing a version, matching the teacher's general preference for stable,
// deterministic route ordering.
func sortByVersionDesc(routes []*Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Version > routes[j].Version
	})
}

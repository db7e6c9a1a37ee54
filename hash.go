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

import "github.com/cespare/xxhash/v2"

// nameHash hashes a segment or field identifier (spec §4.1). Collisions are
// permitted — the matcher and binder only use the hash to prune candidates,
// never as the sole proof of equality beyond what §4.1 documents as a known
// limitation. xxhash is used here, rather than hashing by hand, because the
// teacher's own dependency set already pulls it in for exactly this kind of
// high-throughput short-string hashing.
func nameHash(name string) uint64 {
	return xxhash.Sum64String(name)
}

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

// Package examplemetrics is the worked example spec §5 describes: "the
// MetricStore example used by an external consumer serializes all mutating
// operations under a single coarse lock." It is a minimal, dependency-free
// Listener that keeps per-route success/failure counters, demonstrating the
// discipline external Listener implementations are expected to follow
// without mandating OTelListener's tracing/Prometheus stack.
package examplemetrics

import (
	"context"
	"sync"

	"github.com/rivaas-dev/dispatchcore"
)

// Counts is a snapshot of one route's tallies.
type Counts struct {
	Succeeded int64
	Failed    int64
}

// Store is a Listener that tallies calls per route name under one mutex.
// Real deployments needing finer-grained throughput should reach for
// OTelListener instead; this exists to document the minimum viable external
// consumer, not to compete with it.
type Store struct {
	mu     sync.Mutex
	counts map[string]Counts
}

// New builds an empty Store.
func New() *Store {
	return &Store{counts: make(map[string]Counts)}
}

func (s *Store) OnStart(ctx context.Context, route *dispatchcore.Route) (context.Context, string) {
	return ctx, ""
}

func (s *Store) OnSucceed(ctx context.Context, callID string, route *dispatchcore.Route, result dispatchcore.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts[route.Name]
	c.Succeeded++
	s.counts[route.Name] = c
}

func (s *Store) OnFail(ctx context.Context, callID string, route *dispatchcore.Route, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts[route.Name]
	c.Failed++
	s.counts[route.Name] = c
}

// Snapshot returns a copy of every route's current tallies.
func (s *Store) Snapshot() map[string]Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counts, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

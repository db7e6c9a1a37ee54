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

// Package ratelimit is a Plugin producing spec §7's TooManyRequests (429)
// outcome once a caller-defined key exceeds its request budget within a
// fixed time window. Only the current window's count is checked; the
// preceding window's count that Store reports is not used by Plugin.
//
// Grounded on middleware/ratelimit's Store abstraction (GetCounts/Incr over
// a keyed sliding window, per its stores_test.go) and its documented
// X-RateLimit-* response headers, adapted from an HTTP middleware chain
// onto the Plugin.ModifyCall contract.
package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rivaas-dev/dispatchcore"
)

// Store tracks per-key request counts across a rolling window.
type Store interface {
	// GetCounts returns the count in the current window, the count in the
	// immediately preceding window, and the current window's start (unix
	// seconds), without mutating state.
	GetCounts(ctx context.Context, key string, window time.Duration) (curr, prev int, windowStart int64, err error)
	// Incr records one request against key in the current window.
	Incr(ctx context.Context, key string, window time.Duration) error
}

type windowEntry struct {
	currStart int64
	curr      int
	prev      int
}

// InMemoryStore is a process-local Store backed by one mutex-guarded map,
// suitable for a single-instance Router (spec §5's concurrency model has no
// concept of a distributed store; a Redis-backed Store is a straightforward
// implementation of the same interface for multi-instance deployments).
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

// NewInMemoryStore builds an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]*windowEntry)}
}

func (s *InMemoryStore) rollover(key string, window time.Duration) *windowEntry {
	windowNanos := window.Nanoseconds()
	start := (time.Now().UnixNano() / windowNanos) * windowNanos

	e, ok := s.entries[key]
	if !ok {
		e = &windowEntry{currStart: start}
		s.entries[key] = e
		return e
	}
	if e.currStart == start {
		return e
	}
	if e.currStart == start-windowNanos {
		e.prev = e.curr
	} else {
		e.prev = 0
	}
	e.curr = 0
	e.currStart = start
	return e
}

func (s *InMemoryStore) GetCounts(_ context.Context, key string, window time.Duration) (int, int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.rollover(key, window)
	return e.curr, e.prev, e.currStart / int64(time.Second), nil
}

func (s *InMemoryStore) Incr(_ context.Context, key string, window time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.rollover(key, window)
	e.curr++
	return nil
}

type config struct {
	store   Store
	limit   int
	window  time.Duration
	keyFunc func(rc *dispatchcore.RouteContext) string
}

// Option configures a Plugin.
type Option func(*config)

// WithStore overrides the backing Store (default: a fresh InMemoryStore).
func WithStore(store Store) Option {
	return func(c *config) { c.store = store }
}

// WithLimit sets the maximum requests allowed per window (required).
func WithLimit(limit int) Option {
	return func(c *config) { c.limit = limit }
}

// WithWindow sets the window duration (default: one second).
func WithWindow(window time.Duration) Option {
	return func(c *config) { c.window = window }
}

// WithKeyFunc overrides the per-call rate-limit key (default: a single
// global key, i.e. one shared budget across every caller — callers that
// want per-client limiting must supply a KeyFunc, since the core's
// transport-agnostic RouteContext has no built-in notion of client
// identity).
func WithKeyFunc(f func(rc *dispatchcore.RouteContext) string) Option {
	return func(c *config) { c.keyFunc = f }
}

// Plugin enforces a request budget per key per window.
type Plugin struct {
	cfg config
}

// New builds a Plugin. WithLimit is required.
func New(opts ...Option) *Plugin {
	cfg := config{
		window:  time.Second,
		keyFunc: func(*dispatchcore.RouteContext) string { return "global" },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.store == nil {
		cfg.store = NewInMemoryStore()
	}
	return &Plugin{cfg: cfg}
}

func (p *Plugin) Name() string { return "ratelimit" }

func (p *Plugin) ModifyRoute(modifier dispatchcore.RouteModifier, properties any) any {
	return nil
}

func (p *Plugin) ModifyCall(_ any, rc *dispatchcore.RouteContext, done func(error)) {
	key := p.cfg.keyFunc(rc)
	ctx := context.Background()

	curr, _, windowStart, err := p.cfg.store.GetCounts(ctx, key, p.cfg.window)
	if err != nil {
		done(dispatchcore.Internal(err))
		return
	}

	reset := windowStart + int64(p.cfg.window.Seconds())
	rc.ResponseHeaders.Set("X-RateLimit-Limit", strconv.Itoa(p.cfg.limit))
	rc.ResponseHeaders.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

	if curr >= p.cfg.limit {
		rc.ResponseHeaders.Set("X-RateLimit-Remaining", "0")
		done(dispatchcore.TooManyRequests("rate limit exceeded for %q", key))
		return
	}

	if err := p.cfg.store.Incr(ctx, key, p.cfg.window); err != nil {
		done(dispatchcore.Internal(err))
		return
	}
	rc.ResponseHeaders.Set("X-RateLimit-Remaining", strconv.Itoa(p.cfg.limit-curr-1))
	done(nil)
}

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

// Package task implements the single-shot deferred-result abstraction
// handlers use to express completion (spec §3, §4.5). A Task moves through
// states Waiting -> Finished or Waiting -> Error exactly once; installing a
// handler after it has gone terminal fires that handler immediately with
// the cached outcome.
//
// There is no direct analogue for this in the teacher repository — the
// router package there completes requests synchronously within
// http.Handler — so the combinator surface here is grounded in ordinary Go
// concurrency idiom (a mutex-guarded state machine with a single callback
// slot) rather than transliterated from any one source file. See
// DESIGN.md for the reasoning.
package task

import (
	"log/slog"
	"sync"
)

type state int

const (
	waiting state = iota
	finished
	errored
)

// Handler is the terminal callback a Task fires exactly once, synchronously,
// with whichever of (value, error) actually occurred.
type Handler[T any] func(value T, err error)

// Task is a single-shot deferred result of type T (spec §3).
//
// Thread safety: finish/fail, SetHandler, and the combinators are all safe
// for concurrent use. Only one handler slot exists at a time — map/then/
// always are the sanctioned way to compose because they each install their
// own handler internally; calling SetHandler yourself after a combinator
// has claimed the slot replaces it, which is almost never what you want.
type Task[T any] struct {
	mu      sync.Mutex
	st      state
	value   T
	err     error
	handler Handler[T]
}

// New returns a Task in the Waiting state.
func New[T any]() *Task[T] {
	return &Task[T]{}
}

// Finished returns an already-terminal Task carrying value v. Useful for
// handlers that complete synchronously.
func Finished[T any](v T) *Task[T] {
	t := &Task[T]{st: finished, value: v}
	return t
}

// Failed returns an already-terminal Task carrying error err.
func Failed[T any](err error) *Task[T] {
	t := &Task[T]{st: errored, err: err}
	return t
}

// Finish transitions the Task to Finished. Calling Finish or Fail on a Task
// that is no longer Waiting is a programmer error (spec §3 invariant) and
// panics rather than silently doing nothing, so the bug surfaces where it
// was introduced instead of downstream.
func (t *Task[T]) Finish(v T) {
	t.complete(finished, v, nil)
}

// Fail transitions the Task to Error.
func (t *Task[T]) Fail(err error) {
	var zero T
	t.complete(errored, zero, err)
}

func (t *Task[T]) complete(st state, v T, err error) {
	t.mu.Lock()
	if t.st != waiting {
		t.mu.Unlock()
		panic("task: finish/fail called on a non-Waiting task")
	}
	t.st = st
	t.value = v
	t.err = err
	h := t.handler
	t.mu.Unlock()

	if h != nil {
		runHandler(h, v, err)
	}
}

// SetHandler installs the terminal handler. If the Task is already
// terminal, h fires synchronously, immediately, with the cached outcome
// (spec §3 invariant, §4.5 "installing a handler after a terminal state
// must invoke it synchronously once with the cached outcome").
//
// Exactly one handler slot exists; a second call to SetHandler replaces
// the first (spec §4.5 "Exactly one terminal handler slot per Task").
func (t *Task[T]) SetHandler(h Handler[T]) {
	t.mu.Lock()
	if t.st == waiting {
		t.handler = h
		t.mu.Unlock()
		return
	}
	st, v, err := t.st, t.value, t.err
	t.mu.Unlock()

	if st != waiting {
		runHandler(h, v, err)
	}
}

// runHandler invokes h, catching and logging any panic so a misbehaving
// handler can never corrupt the caller's event loop (spec §4.5, §7
// propagation policy: "Exceptions raised inside Task terminal handlers are
// caught and logged").
func runHandler[T any](h Handler[T], v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Error("task: terminal handler panicked", "panic", r)
		}
	}()
	h(v, err)
}

// OnFinish installs a handler that runs f only on success (spec §4.5).
func (t *Task[T]) OnFinish(f func(T)) {
	t.SetHandler(func(v T, err error) {
		if err == nil {
			f(v)
		}
	})
}

// OnFail installs a handler that runs f only on failure.
func (t *Task[T]) OnFail(f func(error)) {
	t.SetHandler(func(_ T, err error) {
		if err != nil {
			f(err)
		}
	})
}

// Map returns a new Task[U]; on success it runs f(v) (recovering any panic
// as a failure of the new task), and on failure it forwards the error
// verbatim (spec §4.5).
func Map[T, U any](t *Task[T], f func(T) (U, error)) *Task[U] {
	out := New[U]()
	t.SetHandler(func(v T, err error) {
		if err != nil {
			out.Fail(err)
			return
		}
		completeFrom(out, f, v)
	})
	return out
}

// completeFrom runs f(v) and finishes or fails out with the result,
// recovering a panic in f as a failure. out is always Waiting when this is
// called, and is completed exactly once.
func completeFrom[T, U any](out *Task[U], f func(T) (U, error), v T) {
	defer func() {
		if r := recover(); r != nil {
			out.Fail(panicToErr(r))
		}
	}()
	u, err := f(v)
	if err != nil {
		out.Fail(err)
		return
	}
	out.Finish(u)
}

// MapBoth is the two-leg form of Map: both the success and failure legs
// produce U, and either leg's error fails the new task (spec §4.5).
func MapBoth[T, U any](t *Task[T], onOK func(T) (U, error), onErr func(error) (U, error)) *Task[U] {
	out := New[U]()
	t.SetHandler(func(v T, err error) {
		if err != nil {
			completeFrom(out, onErr, err)
			return
		}
		completeFrom(out, onOK, v)
	})
	return out
}

// Catch is Map(identity, f) — recovers a failure into a value.
func Catch[T any](t *Task[T], f func(error) (T, error)) *Task[T] {
	return MapBoth(t, func(v T) (T, error) { return v, nil }, f)
}

// Then chains asynchronously: f constructs the next Task from a successful
// result. A panic while constructing that inner Task fails the outer one;
// the inner Task's own outcome propagates verbatim (spec §4.5).
func Then[T, U any](t *Task[T], f func(T) *Task[U]) *Task[U] {
	out := New[U]()
	t.SetHandler(func(v T, err error) {
		if err != nil {
			out.Fail(err)
			return
		}
		inner := safeConstruct(f, v, out)
		if inner == nil {
			return // construction panicked; out already failed
		}
		inner.SetHandler(func(u U, err error) {
			if err != nil {
				out.Fail(err)
			} else {
				out.Finish(u)
			}
		})
	})
	return out
}

func safeConstruct[T, U any](f func(T) *Task[U], v T, out *Task[U]) (inner *Task[U]) {
	defer func() {
		if r := recover(); r != nil {
			out.Fail(panicToErr(r))
			inner = nil
		}
	}()
	return f(v)
}

// ThenBoth is the two-leg form of Then.
func ThenBoth[T, U any](t *Task[T], onOK func(T) *Task[U], onErr func(error) *Task[U]) *Task[U] {
	out := New[U]()
	t.SetHandler(func(v T, err error) {
		var inner *Task[U]
		if err != nil {
			inner = safeConstruct(func(e error) *Task[U] { return onErr(e) }, err, out)
		} else {
			inner = safeConstruct(onOK, v, out)
		}
		if inner == nil {
			return
		}
		inner.SetHandler(func(u U, err error) {
			if err != nil {
				out.Fail(err)
			} else {
				out.Finish(u)
			}
		})
	})
	return out
}

// Always runs f with the outcome, then forwards that same outcome — unless
// f itself panics, in which case the resulting task fails with that panic
// (spec §4.5).
func Always[T any](t *Task[T], f func(T, error)) *Task[T] {
	out := New[T]()
	t.SetHandler(func(v T, err error) {
		if perr := safeRun(f, v, err); perr != nil {
			out.Fail(perr)
			return
		}
		if err != nil {
			out.Fail(err)
		} else {
			out.Finish(v)
		}
	})
	return out
}

func safeRun[T any](f func(T, error), v T, err error) (panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr = panicToErr(r)
		}
	}()
	f(v, err)
	return nil
}

func panicToErr(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicError{r}
}

type panicError struct{ v any }

func (p *panicError) Error() string { return "task: panic recovered" }

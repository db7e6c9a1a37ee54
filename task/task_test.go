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

package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishFiresHandlerSynchronously(t *testing.T) {
	tk := New[int]()

	var got int
	var gotErr error
	tk.SetHandler(func(v int, err error) {
		got, gotErr = v, err
	})

	tk.Finish(42)

	assert.Equal(t, 42, got)
	assert.NoError(t, gotErr)
}

func TestFailFiresHandlerSynchronously(t *testing.T) {
	tk := New[int]()
	sentinel := errors.New("boom")

	var gotErr error
	tk.SetHandler(func(_ int, err error) { gotErr = err })
	tk.Fail(sentinel)

	assert.ErrorIs(t, gotErr, sentinel)
}

func TestHandlerInstalledAfterTerminalFiresImmediately(t *testing.T) {
	tk := Finished[string]("done")

	var got string
	tk.SetHandler(func(v string, _ error) { got = v })
	assert.Equal(t, "done", got)

	// Installing again re-fires with the same cached outcome (spec: task
	// monotonicity — result/error never change after termination).
	var got2 string
	tk.SetHandler(func(v string, _ error) { got2 = v })
	assert.Equal(t, "done", got2)
}

func TestFinishTwiceIsAProgrammerError(t *testing.T) {
	tk := New[int]()
	tk.Finish(1)
	assert.Panics(t, func() { tk.Finish(2) })
}

func TestFailAfterFinishIsAProgrammerError(t *testing.T) {
	tk := New[int]()
	tk.Finish(1)
	assert.Panics(t, func() { tk.Fail(errors.New("late")) })
}

func TestMapIdentityPreservesOutcome(t *testing.T) {
	tk := Finished[int](7)
	mapped := Map(tk, func(v int) (int, error) { return v, nil })

	var got int
	mapped.SetHandler(func(v int, err error) {
		require.NoError(t, err)
		got = v
	})
	assert.Equal(t, 7, got)
}

func TestMapForwardsFailure(t *testing.T) {
	sentinel := errors.New("upstream failed")
	tk := Failed[int](sentinel)
	mapped := Map(tk, func(v int) (string, error) { return "unreached", nil })

	var gotErr error
	mapped.SetHandler(func(_ string, err error) { gotErr = err })
	assert.ErrorIs(t, gotErr, sentinel)
}

func TestMapCatchesPanicAsFailure(t *testing.T) {
	tk := Finished[int](1)
	mapped := Map(tk, func(int) (int, error) { panic("kaboom") })

	var gotErr error
	mapped.SetHandler(func(_ int, err error) { gotErr = err })
	assert.Error(t, gotErr)
}

func TestThenChainsAsynchronously(t *testing.T) {
	tk := Finished[int](3)
	chained := Then(tk, func(v int) *Task[int] {
		return Finished(v * 2)
	})

	var got int
	chained.SetHandler(func(v int, err error) {
		require.NoError(t, err)
		got = v
	})
	assert.Equal(t, 6, got)
}

func TestThenIdentityPreservesOutcome(t *testing.T) {
	tk := Finished[int](9)
	chained := Then(tk, func(v int) *Task[int] { return Finished(v) })

	var got int
	chained.SetHandler(func(v int, err error) { got = v })
	assert.Equal(t, 9, got)
}

func TestThenPropagatesInnerFailure(t *testing.T) {
	sentinel := errors.New("inner failed")
	tk := Finished[int](1)
	chained := Then(tk, func(int) *Task[int] { return Failed[int](sentinel) })

	var gotErr error
	chained.SetHandler(func(_ int, err error) { gotErr = err })
	assert.ErrorIs(t, gotErr, sentinel)
}

func TestThenConstructionPanicFailsOuter(t *testing.T) {
	tk := Finished[int](1)
	chained := Then(tk, func(int) *Task[int] { panic("construction exploded") })

	var gotErr error
	chained.SetHandler(func(_ int, err error) { gotErr = err })
	assert.Error(t, gotErr)
}

func TestCatchRecoversFailure(t *testing.T) {
	tk := Failed[int](errors.New("boom"))
	recovered := Catch(tk, func(error) (int, error) { return -1, nil })

	var got int
	recovered.SetHandler(func(v int, err error) {
		require.NoError(t, err)
		got = v
	})
	assert.Equal(t, -1, got)
}

func TestAlwaysRunsThenForwardsSuccess(t *testing.T) {
	tk := Finished[int](5)
	var sideEffect bool
	always := Always(tk, func(v int, err error) {
		sideEffect = true
		assert.Equal(t, 5, v)
		assert.NoError(t, err)
	})

	var got int
	always.SetHandler(func(v int, err error) {
		require.NoError(t, err)
		got = v
	})
	assert.True(t, sideEffect)
	assert.Equal(t, 5, got)
}

func TestAlwaysRunsThenForwardsFailure(t *testing.T) {
	sentinel := errors.New("failed")
	tk := Failed[int](sentinel)
	var sideEffect bool
	always := Always(tk, func(_ int, err error) {
		sideEffect = true
		assert.ErrorIs(t, err, sentinel)
	})

	var gotErr error
	always.SetHandler(func(_ int, err error) { gotErr = err })
	assert.True(t, sideEffect)
	assert.ErrorIs(t, gotErr, sentinel)
}

func TestAlwaysHandlerPanicFailsResult(t *testing.T) {
	tk := Finished[int](1)
	always := Always(tk, func(int, error) { panic("side effect exploded") })

	var gotErr error
	always.SetHandler(func(_ int, err error) { gotErr = err })
	assert.Error(t, gotErr)
}

func TestOnFinishOnlyRunsOnSuccess(t *testing.T) {
	tk := Failed[int](errors.New("nope"))
	called := false
	tk.OnFinish(func(int) { called = true })
	assert.False(t, called)
}

func TestOnFailOnlyRunsOnFailure(t *testing.T) {
	tk := Finished[int](1)
	called := false
	tk.OnFail(func(error) { called = true })
	assert.False(t, called)
}

func TestOnFinishReplacesEarlierHandler(t *testing.T) {
	tk := New[int]()
	first := false
	second := false
	tk.OnFail(func(error) { first = true })
	tk.OnFinish(func(int) { second = true })
	tk.Finish(1)

	assert.False(t, first)
	assert.True(t, second)
}

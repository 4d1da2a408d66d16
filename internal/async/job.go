// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"fmt"
)

// Job is an Operation with a single (value, error) result. The completion
// callback receives exactly one of a value or a non-nil error; when the work
// fails the value passed is the zero T.
type Job[T any] struct {
	run  func(ctx context.Context) (T, error)
	done func(h *Handle, value T, err error)

	// Written by Run on the worker goroutine, read by Finish on the UI
	// goroutine after the completion post.
	value T
	err   error
}

// NewJob creates a job. run executes on the worker goroutine; done executes on
// the UI goroutine unless the job is cancelled first. done may be nil.
func NewJob[T any](run func(ctx context.Context) (T, error), done func(h *Handle, value T, err error)) *Job[T] {
	if run == nil {
		panic("async: NewJob called with nil run function")
	}
	return &Job[T]{run: run, done: done}
}

// Run implements Operation.
func (j *Job[T]) Run(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			j.value = zero
			j.err = fmt.Errorf("async: job panicked: %v", rec)
		}
	}()

	j.value, j.err = j.run(ctx)
	if j.err != nil {
		var zero T
		j.value = zero
	}
}

// Finish implements Operation.
func (j *Job[T]) Finish(h *Handle) {
	if j.done != nil {
		j.done(h, j.value, j.err)
	}
}

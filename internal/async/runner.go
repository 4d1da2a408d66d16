// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/golang/glog"
)

// =============================================================================
// RUNNER
// =============================================================================

// started tracks operations between Start and their completion callback, so
// that starting the same operation twice is caught.
var started sync.Map

// Runner starts operations on worker goroutines and delivers their completion
// through a Dispatcher.
type Runner struct {
	dispatcher Dispatcher
	semaphore  chan struct{} // nil = one goroutine per operation, unbounded
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewRunner creates a runner that gives every operation its own worker
// goroutine.
func NewRunner(d Dispatcher) *Runner {
	return NewRunnerWithLimit(d, 0)
}

// NewRunnerWithLimit creates a runner that runs at most maxConcurrent
// operations at once. Additional workers wait for a free slot before calling
// Run. maxConcurrent <= 0 means unbounded.
func NewRunnerWithLimit(d Dispatcher, maxConcurrent int) *Runner {
	if d == nil {
		panic("async: nil dispatcher")
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		dispatcher: d,
		ctx:        ctx,
		cancel:     cancel,
	}
	if maxConcurrent > 0 {
		r.semaphore = make(chan struct{}, maxConcurrent)
	}
	return r
}

// Start launches op on a worker goroutine and returns its Handle. Start must
// be called on the UI goroutine. Starting an operation that is already in
// flight is a programming error and panics.
func (r *Runner) Start(op Operation) *Handle {
	if op == nil {
		panic("async: Start called with nil operation")
	}
	if reflect.TypeOf(op).Kind() != reflect.Pointer {
		panic(fmt.Sprintf("async: operation %T must be a pointer", op))
	}
	if _, loaded := started.LoadOrStore(op, struct{}{}); loaded {
		panic(fmt.Sprintf("async: operation %T started twice", op))
	}

	s := newOpState(op)
	glog.V(1).Infof("async: starting operation %d (%T)", s.id, op)

	r.wg.Add(1)
	go r.work(s, op)

	return s.handle
}

// work is the worker goroutine. It only touches op through Run and never
// reads the shared opState fields.
func (r *Runner) work(s *opState, op Operation) {
	defer r.wg.Done()

	if r.semaphore != nil {
		select {
		case r.semaphore <- struct{}{}:
			defer func() { <-r.semaphore }()
		case <-r.ctx.Done():
			// Runner closed while queued; Run still executes and observes ctx.
		}
	}

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				glog.Errorf("async: operation %T panicked: %v", op, rec)
			}
		}()
		op.Run(r.ctx)
	}()

	r.dispatcher.Post(func() {
		started.Delete(op)
		s.complete()
	})
}

// Wait blocks until every worker goroutine started by this runner has
// returned. Completion callbacks may still be queued on the dispatcher.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close cancels the context handed to Run. It is intended for process
// shutdown; per-operation cancellation goes through Handle.
func (r *Runner) Close() {
	r.cancel()
}

// Start runs op on a fresh unbounded runner bound to d.
func Start(d Dispatcher, op Operation) *Handle {
	return NewRunner(d).Start(op)
}

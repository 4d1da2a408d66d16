// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"sync/atomic"

	"github.com/golang/glog"
)

// =============================================================================
// OPERATION
// =============================================================================

// Operation is one unit of background work.
//
// Run executes on a dedicated worker goroutine and must only write the
// operation's own result fields; it never touches UI state. Finish executes on
// the UI goroutine after Run has returned and reports the result, typically by
// calling a completion callback supplied by the caller. Finish is skipped when
// the operation was cancelled through its Handle.
//
// Operations must be pointer types: a started operation is tracked by identity
// until its completion callback has run.
type Operation interface {
	Run(ctx context.Context)
	Finish(h *Handle)
}

// opState is the per-operation record shared between a Handle and the
// completion callback. Both finished and handle are read and written only on
// the UI goroutine. The worker goroutine never touches them.
type opState struct {
	id       uint64
	op       Operation
	handle   *Handle
	finished bool
}

var nextOpID atomic.Uint64

func newOpState(op Operation) *opState {
	s := &opState{id: nextOpID.Add(1), op: op}
	s.handle = &Handle{state: s}
	return s
}

// complete is the UI-goroutine half of an operation. It is the only place
// where an operation is released.
func (s *opState) complete() {
	if !s.finished {
		s.finished = true
		glog.V(1).Infof("async: operation %d finished", s.id)
		s.op.Finish(s.handle)
	} else {
		glog.V(1).Infof("async: operation %d completed after cancel, result dropped", s.id)
	}

	// Finish may have released the handle itself.
	if s.handle != nil {
		s.handle.state = nil
		s.handle = nil
	}
	s.op = nil
}

// =============================================================================
// HANDLE
// =============================================================================

// Handle is the caller's capability over a started operation. There is exactly
// one Handle per operation. All methods must be called on the UI goroutine.
//
// A Handle whose owner no longer wants the result must be released; this is
// the equivalent of destroying it and implicitly cancels a pending operation.
type Handle struct {
	state *opState
}

// ID returns an identifier for logging, or 0 once the handle is detached.
func (h *Handle) ID() uint64 {
	if h == nil || h.state == nil {
		return 0
	}
	return h.state.id
}

// Pending reports whether the operation can still deliver its result.
func (h *Handle) Pending() bool {
	return h != nil && h.state != nil && !h.state.finished
}

// Cancel marks the operation finished so that its result is never delivered.
// The worker goroutine is not interrupted. Cancel returns false when there was
// nothing left to cancel (already delivered, cancelled, or released).
func (h *Handle) Cancel() bool {
	if !h.Pending() {
		return false
	}
	h.state.finished = true
	glog.V(1).Infof("async: operation %d cancelled", h.state.id)
	return true
}

// Release detaches the handle from its operation, cancelling it first if its
// result is still pending. Release is idempotent and safe on a nil Handle.
func (h *Handle) Release() {
	if h == nil || h.state == nil {
		return
	}
	h.Cancel()
	h.state.handle = nil
	h.state = nil
}

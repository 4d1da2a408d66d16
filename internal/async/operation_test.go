// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedOp blocks in Run until release is closed and counts Finish calls.
type gatedOp struct {
	release  chan struct{}
	ran      chan struct{}
	finished int
	onFinish func(h *Handle)
}

func newGatedOp() *gatedOp {
	return &gatedOp{release: make(chan struct{}), ran: make(chan struct{})}
}

func (o *gatedOp) Run(ctx context.Context) {
	<-o.release
	close(o.ran)
}

func (o *gatedOp) Finish(h *Handle) {
	o.finished++
	if o.onFinish != nil {
		o.onFinish(h)
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// =============================================================================
// DELIVERY
// =============================================================================

func TestStart_DeliversOnLoop(t *testing.T) {
	loop := NewLoop()
	op := newGatedOp()

	h := Start(loop, op)
	require.True(t, h.Pending())
	require.NotZero(t, h.ID())

	close(op.release)
	require.NoError(t, loop.Next(testContext(t)))

	assert.Equal(t, 1, op.finished)
	assert.False(t, h.Pending(), "handle should be detached after delivery")
	assert.Zero(t, h.ID())
	assert.False(t, h.Cancel(), "cancel after delivery has nothing to cancel")
}

func TestHandle_ReleaseBeforeCompletion(t *testing.T) {
	loop := NewLoop()
	op := newGatedOp()

	h := Start(loop, op)
	h.Release()
	assert.False(t, h.Pending())

	close(op.release)
	require.NoError(t, loop.Next(testContext(t)))

	select {
	case <-op.ran:
	default:
		t.Fatal("worker should run to completion after release")
	}
	assert.Equal(t, 0, op.finished, "released handle must suppress Finish")
}

func TestHandle_CancelBeforeCompletion(t *testing.T) {
	loop := NewLoop()
	op := newGatedOp()

	h := Start(loop, op)
	require.True(t, h.Cancel())
	require.False(t, h.Cancel(), "second cancel is a no-op")

	close(op.release)
	require.NoError(t, loop.Next(testContext(t)))

	assert.Equal(t, 0, op.finished)
	h.Release() // still safe after the operation is gone
}

func TestHandle_CancelAfterCompletionScheduled(t *testing.T) {
	loop := NewLoop()
	op := newGatedOp()

	h := Start(loop, op)
	close(op.release)
	<-op.ran

	require.Eventually(t, func() bool { return loop.Len() == 1 }, 2*time.Second, time.Millisecond,
		"completion callback should be queued")

	require.True(t, h.Cancel(), "result not yet delivered, cancel must still win")
	assert.Equal(t, 1, loop.RunPending())
	assert.Equal(t, 0, op.finished)
}

func TestHandle_ReleaseAfterDeliveryNoDoubleReport(t *testing.T) {
	loop := NewLoop()
	op := newGatedOp()

	h := Start(loop, op)
	close(op.release)
	require.NoError(t, loop.Next(testContext(t)))

	h.Release()
	h.Release()
	assert.Equal(t, 1, op.finished)
	assert.Equal(t, 0, loop.Len())
}

func TestFinish_MayReleaseOwnHandle(t *testing.T) {
	loop := NewLoop()
	op := newGatedOp()
	op.onFinish = func(h *Handle) {
		assert.False(t, h.Pending(), "operation is finished while Finish runs")
		h.Release()
	}

	h := Start(loop, op)
	close(op.release)
	require.NoError(t, loop.Next(testContext(t)))

	assert.Equal(t, 1, op.finished)
	assert.False(t, h.Pending())
}

func TestNilHandle(t *testing.T) {
	var h *Handle
	assert.False(t, h.Pending())
	assert.False(t, h.Cancel())
	assert.Zero(t, h.ID())
	h.Release()
}

// =============================================================================
// CONTRACT VIOLATIONS
// =============================================================================

func TestStart_TwicePanics(t *testing.T) {
	loop := NewLoop()
	runner := NewRunner(loop)
	op := newGatedOp()

	h := runner.Start(op)
	assert.Panics(t, func() { runner.Start(op) })

	h.Release()
	close(op.release)
	require.NoError(t, loop.Next(testContext(t)))
}

// sliceOp is a non-comparable value type.
type sliceOp []int

func (sliceOp) Run(context.Context) {}
func (sliceOp) Finish(*Handle)      {}

func TestStart_ValueOperationPanics(t *testing.T) {
	assert.PanicsWithValue(t, "async: operation async.sliceOp must be a pointer", func() {
		Start(NewLoop(), sliceOp{1})
	})
}

func TestStart_NilPanics(t *testing.T) {
	assert.Panics(t, func() { Start(NewLoop(), nil) })
	assert.Panics(t, func() { NewRunner(nil) })
}

// =============================================================================
// RUNNER
// =============================================================================

type countingOp struct {
	active    *atomic.Int32
	peak      *atomic.Int32
	hold      time.Duration
	delivered *atomic.Int32
}

func (o *countingOp) Run(ctx context.Context) {
	n := o.active.Add(1)
	for {
		p := o.peak.Load()
		if n <= p || o.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(o.hold)
	o.active.Add(-1)
}

func (o *countingOp) Finish(h *Handle) {
	o.delivered.Add(1)
}

func TestRunnerWithLimit_BoundsConcurrency(t *testing.T) {
	loop := NewLoop()
	runner := NewRunnerWithLimit(loop, 2)

	var active, peak, delivered atomic.Int32
	handles := make([]*Handle, 0, 6)
	for i := 0; i < 6; i++ {
		handles = append(handles, runner.Start(&countingOp{
			active: &active, peak: &peak, hold: 20 * time.Millisecond, delivered: &delivered,
		}))
	}

	ctx := testContext(t)
	for i := 0; i < 6; i++ {
		require.NoError(t, loop.Next(ctx))
	}
	runner.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int32(6), delivered.Load())
	for _, h := range handles {
		assert.False(t, h.Pending())
	}
}

func TestRunner_CloseCancelsRunContext(t *testing.T) {
	loop := NewLoop()
	runner := NewRunner(loop)

	var sawCancel atomic.Bool
	job := NewJob(func(ctx context.Context) (struct{}, error) {
		<-ctx.Done()
		sawCancel.Store(true)
		return struct{}{}, ctx.Err()
	}, nil)

	h := runner.Start(job)
	runner.Close()
	require.NoError(t, loop.Next(testContext(t)))
	runner.Wait()

	assert.True(t, sawCancel.Load())
	assert.False(t, h.Pending())
}

// =============================================================================
// LOOP
// =============================================================================

func TestLoop_RunPendingOrderAndDeferral(t *testing.T) {
	loop := NewLoop()
	var order []int

	loop.Post(func() {
		order = append(order, 1)
		loop.Post(func() { order = append(order, 3) })
	})
	loop.Post(func() { order = append(order, 2) })

	assert.Equal(t, 2, loop.RunPending())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, loop.RunPending())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestLoop_NextHonoursContext(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, loop.Next(ctx), context.DeadlineExceeded)
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{})
	loop.Post(func() {
		close(ran)
		cancel()
	})

	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
	<-ran
}

func TestIdleMsg_Run(t *testing.T) {
	ran := false
	Idle(func() { ran = true }).Run()
	if !ran {
		t.Error("Idle callback did not run")
	}
	IdleMsg{}.Run()
}

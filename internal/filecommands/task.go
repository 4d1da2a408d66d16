// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filecommands

import (
	"github.com/gobby/gobby-sub002/internal/document"
)

// Task is one interactive file command in progress. The owner calls Run once,
// right after construction. A task reports completion exactly once through
// the callback it was built with, unless the owner aborts it first.
type Task interface {
	// Run starts the first dialog or request. The task may finish before
	// Run returns.
	Run()

	// Abort dismisses any open dialog and drops the task without effect and
	// without a completion callback.
	Abort()
}

// =============================================================================
// TASK BASE
// =============================================================================

// taskBase holds the run/finish bookkeeping shared by all tasks.
type taskBase struct {
	started  bool
	done     bool
	finished func()
}

// begin marks the task started. Running a task twice is a programming error.
func (b *taskBase) begin() {
	if b.started {
		panic("filecommands: task run twice")
	}
	b.started = true
}

// complete marks the task done and notifies the owner. The owner may drop
// every reference to the task inside the callback, so callers must not touch
// task state after complete returns.
func (b *taskBase) complete() {
	if b.done {
		return
	}
	b.done = true
	fn := b.finished
	b.finished = nil
	if fn != nil {
		fn()
	}
}

// abandon marks the task done without notifying.
func (b *taskBase) abandon() {
	b.done = true
	b.finished = nil
}

// =============================================================================
// TARGET WATCH
// =============================================================================

// target tracks the document a task operates on. If the document leaves the
// folder before the task runs, the task is marked lost and later finishes
// without any dialog. If it leaves while the task is running, lostWhileRunning
// is called so the task can cancel.
type target struct {
	doc              *document.Document
	sub              *document.Subscription
	lost             bool
	running          bool
	lostWhileRunning func()
}

func (t *target) watch(folder *document.Folder, doc *document.Document, lostWhileRunning func()) {
	t.doc = doc
	t.lostWhileRunning = lostWhileRunning
	if doc == nil || !folder.Contains(doc) {
		t.lost = true
		return
	}
	t.sub = folder.OnDocumentRemoved(t.removed)
}

func (t *target) removed(doc *document.Document) {
	if doc != t.doc {
		return
	}
	t.unwatch()
	if !t.running {
		t.lost = true
		return
	}
	t.lostWhileRunning()
}

func (t *target) unwatch() {
	t.sub.Cancel()
	t.sub = nil
}

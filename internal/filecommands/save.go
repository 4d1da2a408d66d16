// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filecommands

import (
	"path/filepath"

	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
)

// =============================================================================
// SAVE
// =============================================================================

// SaveTask saves one document. A document with a stored location is saved
// there with its stored encoding and line endings. Otherwise, or when the
// dialog is forced (save-as), a save chooser is shown and the document is
// written as UTF-8 with LF line endings.
type SaveTask struct {
	taskBase
	target
	cmds        *FileCommands
	forceDialog bool
	chooser     dialog.FileChooser
}

func newSaveTask(c *FileCommands, doc *document.Document, forceDialog bool, finished func()) *SaveTask {
	t := &SaveTask{taskBase: taskBase{finished: finished}, cmds: c, forceDialog: forceDialog}
	t.watch(c.folder, doc, t.cancel)
	return t
}

// Run implements Task.
func (t *SaveTask) Run() {
	t.begin()
	if t.lost {
		t.finish()
		return
	}
	t.running = true

	if !t.forceDialog {
		if info, ok := t.cmds.store.Get(t.doc.Key()); ok && info.URI != "" {
			t.cmds.ops.SaveDocument(t.doc, info.URI, info.Encoding, info.EOL)
			t.finish()
			return
		}
	}

	name := t.doc.Title()
	if info, ok := t.cmds.store.Get(t.doc.Key()); ok && info.URI != "" {
		name = filepath.Base(info.URI)
	}

	t.chooser = t.cmds.dialogs.NewFileChooser()
	t.chooser.Present(dialog.FileRequest{
		Mode:          dialog.ModeSave,
		Title:         "Save Document",
		Folder:        t.cmds.chooserFolder(t.doc),
		SuggestedName: name,
	}, t.onResponse)
}

func (t *SaveTask) onResponse(resp dialog.FileResponse) {
	if t.done {
		return
	}
	t.chooser = nil

	if resp.Outcome == dialog.Accept && resp.Path != "" {
		t.cmds.rememberFolder(resp.Path)
		// TODO: take encoding and line endings from the chooser once it
		// offers them.
		t.cmds.ops.SaveDocument(t.doc, resp.Path, docinfo.DefaultEncoding, docinfo.LF)
	}
	t.finish()
}

// cancel ends the task when the document goes away during the dialog.
func (t *SaveTask) cancel() {
	glog.V(1).Infof("filecommands: %q closed while saving", t.doc.Title())
	t.finish()
}

func (t *SaveTask) teardown() {
	t.unwatch()
	if t.chooser != nil {
		t.chooser.Close()
		t.chooser = nil
	}
}

// finish tears down and notifies. t may be dropped by the owner once this
// returns.
func (t *SaveTask) finish() {
	t.teardown()
	t.complete()
}

// Abort implements Task.
func (t *SaveTask) Abort() {
	if t.done {
		return
	}
	t.teardown()
	t.abandon()
}

// =============================================================================
// SAVE ALL
// =============================================================================

// SaveAllTask saves every open document that supports file operations.
//
// The worklist is fixed when the task is created. Run first saves every
// document that has a stored location, then walks the rest one at a time
// through a SaveTask, so at most one dialog is open. A document closed
// before its turn is dropped from the worklist; closing the one being asked
// about cancels its dialog and moves on.
type SaveAllTask struct {
	taskBase
	cmds     *FileCommands
	worklist []*document.Document
	cursor   int
	child    *SaveTask
	sub      *document.Subscription
}

func newSaveAllTask(c *FileCommands, finished func()) *SaveAllTask {
	t := &SaveAllTask{taskBase: taskBase{finished: finished}, cmds: c}
	for _, doc := range c.folder.Documents() {
		if doc.Kind().SupportsFileOps() {
			t.worklist = append(t.worklist, doc)
		}
	}
	t.sub = c.folder.OnDocumentRemoved(t.removed)
	return t
}

// Run implements Task.
func (t *SaveAllTask) Run() {
	t.begin()

	pending := t.worklist[:0:0]
	for _, doc := range t.worklist {
		if info, ok := t.cmds.store.Get(doc.Key()); ok && info.URI != "" {
			t.cmds.ops.SaveDocument(doc, info.URI, info.Encoding, info.EOL)
			continue
		}
		pending = append(pending, doc)
	}
	t.worklist = pending

	t.next()
}

// next hands the element under the cursor to a child task, or finishes when
// the cursor reached the end.
func (t *SaveAllTask) next() {
	if t.done {
		return
	}
	if t.cursor >= len(t.worklist) {
		t.finish()
		return
	}

	doc := t.worklist[t.cursor]
	t.cursor++
	t.child = newSaveTask(t.cmds, doc, false, t.childFinished)
	t.child.Run()
}

func (t *SaveAllTask) childFinished() {
	t.child = nil
	t.next()
}

// removed drops a document that has not been reached yet. The document in
// progress is handled by the child, which finishes on its own.
func (t *SaveAllTask) removed(doc *document.Document) {
	for i := t.cursor; i < len(t.worklist); i++ {
		if t.worklist[i] == doc {
			t.worklist = append(t.worklist[:i:i], t.worklist[i+1:]...)
			return
		}
	}
}

// Remaining returns the number of documents not yet handed to a child.
func (t *SaveAllTask) Remaining() int {
	return len(t.worklist) - t.cursor
}

func (t *SaveAllTask) teardown() {
	t.sub.Cancel()
	t.sub = nil
	if t.child != nil {
		t.child.Abort()
		t.child = nil
	}
}

func (t *SaveAllTask) finish() {
	t.teardown()
	t.complete()
}

// Abort implements Task.
func (t *SaveAllTask) Abort() {
	if t.done {
		return
	}
	t.teardown()
	t.abandon()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filecommands

import (
	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/export"
)

// ExportHTMLTask asks for a location and exports a document as HTML there.
type ExportHTMLTask struct {
	taskBase
	target
	cmds    *FileCommands
	chooser dialog.FileChooser
}

func newExportHTMLTask(c *FileCommands, doc *document.Document, finished func()) *ExportHTMLTask {
	t := &ExportHTMLTask{taskBase: taskBase{finished: finished}, cmds: c}
	t.watch(c.folder, doc, t.finish)
	return t
}

// Run implements Task.
func (t *ExportHTMLTask) Run() {
	t.begin()
	if t.lost {
		t.finish()
		return
	}
	t.running = true

	t.chooser = t.cmds.dialogs.NewFileChooser()
	t.chooser.Present(dialog.FileRequest{
		Mode:          dialog.ModeExport,
		Title:         "Export As HTML",
		Folder:        t.cmds.chooserFolder(t.doc),
		SuggestedName: export.DefaultFilename(t.doc.Title()),
	}, t.onResponse)
}

func (t *ExportHTMLTask) onResponse(resp dialog.FileResponse) {
	if t.done {
		return
	}
	t.chooser = nil

	if resp.Outcome == dialog.Accept && resp.Path != "" {
		t.cmds.rememberFolder(resp.Path)
		t.cmds.ops.ExportHTML(t.doc, resp.Path)
	}
	t.finish()
}

func (t *ExportHTMLTask) teardown() {
	t.unwatch()
	if t.chooser != nil {
		t.chooser.Close()
		t.chooser = nil
	}
}

func (t *ExportHTMLTask) finish() {
	t.teardown()
	t.complete()
}

// Abort implements Task.
func (t *ExportHTMLTask) Abort() {
	if t.done {
		return
	}
	t.teardown()
	t.abandon()
}

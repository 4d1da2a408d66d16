// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filecommands

import (
	"fmt"

	"github.com/gobby/gobby-sub002/internal/browser"
	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/document"
)

// DefaultDocumentName is proposed by the new-document dialog.
const DefaultDocumentName = "New Document"

// NewTask asks for a document name, kind and location, then creates the
// document through the browser.
type NewTask struct {
	taskBase
	cmds   *FileCommands
	picker dialog.DocumentLocation
}

func newNewTask(c *FileCommands, finished func()) *NewTask {
	return &NewTask{taskBase: taskBase{finished: finished}, cmds: c}
}

// Run implements Task.
func (t *NewTask) Run() {
	t.begin()

	locations := browser.WritableLocations(t.cmds.browser)
	if len(locations) == 0 {
		t.complete()
		return
	}

	t.picker = t.cmds.dialogs.NewDocumentLocation()
	t.picker.Present(dialog.DocumentLocationRequest{
		Name:      DefaultDocumentName,
		Kind:      document.KindText,
		Locations: locations,
	}, t.onResponse)
}

func (t *NewTask) onResponse(resp dialog.DocumentLocationResponse) {
	if t.done {
		return
	}
	t.picker = nil

	if resp.Outcome == dialog.Accept {
		if err := t.cmds.browser.CreateDocument(resp.Location, resp.Name, resp.Kind); err != nil {
			t.cmds.status.Error(fmt.Sprintf("Failed to create document %q: %v", resp.Name, err))
		}
	}
	t.complete()
}

// Abort implements Task.
func (t *NewTask) Abort() {
	if t.done {
		return
	}
	if t.picker != nil {
		t.picker.Close()
		t.picker = nil
	}
	t.abandon()
}

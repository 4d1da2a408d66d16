// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filecommands

import (
	"fmt"
	"strings"

	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/operations"
)

// =============================================================================
// OPEN FILE
// =============================================================================

// OpenFileTask asks for a local file and opens it.
type OpenFileTask struct {
	taskBase
	cmds    *FileCommands
	chooser dialog.FileChooser
}

func newOpenFileTask(c *FileCommands, finished func()) *OpenFileTask {
	return &OpenFileTask{taskBase: taskBase{finished: finished}, cmds: c}
}

// Run implements Task.
func (t *OpenFileTask) Run() {
	t.begin()

	t.chooser = t.cmds.dialogs.NewFileChooser()
	t.chooser.Present(dialog.FileRequest{
		Mode:   dialog.ModeOpen,
		Title:  "Open File",
		Folder: t.cmds.lastFolder,
	}, t.onResponse)
}

func (t *OpenFileTask) onResponse(resp dialog.FileResponse) {
	if t.done {
		return
	}
	t.chooser = nil

	if resp.Outcome == dialog.Accept && resp.Path != "" {
		t.cmds.rememberFolder(resp.Path)
		t.cmds.ops.OpenFile(resp.Path)
	}
	t.complete()
}

// Abort implements Task.
func (t *OpenFileTask) Abort() {
	if t.done {
		return
	}
	if t.chooser != nil {
		t.chooser.Close()
		t.chooser = nil
	}
	t.abandon()
}

// =============================================================================
// OPEN LOCATION
// =============================================================================

// OpenLocationTask asks for a URI. Local paths and file URIs are opened as
// files; infinote URIs are subscribed to.
type OpenLocationTask struct {
	taskBase
	cmds  *FileCommands
	entry dialog.LocationEntry
}

func newOpenLocationTask(c *FileCommands, finished func()) *OpenLocationTask {
	return &OpenLocationTask{taskBase: taskBase{finished: finished}, cmds: c}
}

// Run implements Task.
func (t *OpenLocationTask) Run() {
	t.begin()

	t.entry = t.cmds.dialogs.NewLocationEntry()
	t.entry.Present(t.onResponse)
}

func (t *OpenLocationTask) onResponse(resp dialog.LocationResponse) {
	if t.done {
		return
	}
	t.entry = nil

	if resp.Outcome == dialog.Accept {
		t.open(strings.TrimSpace(resp.URI))
	}
	t.complete()
}

func (t *OpenLocationTask) open(uri string) {
	if uri == "" {
		t.cmds.status.Error("No location given")
		return
	}
	if _, err := operations.LocalPath(uri); err == nil {
		t.cmds.ops.OpenFile(uri)
		return
	}
	if _, err := operations.ParseSessionURI(uri); err != nil {
		t.cmds.status.Error(fmt.Sprintf("Cannot open %s: %v", uri, err))
		return
	}
	t.cmds.ops.SubscribePath(uri)
}

// Abort implements Task.
func (t *OpenLocationTask) Abort() {
	if t.done {
		return
	}
	if t.entry != nil {
		t.entry.Close()
		t.entry = nil
	}
	t.abandon()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobby/gobby-sub002/internal/browser"
	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/ui/styles"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyCtrlT = tea.KeyMsg{Type: tea.KeyCtrlT}
)

func typeText(d *Dialogs, s string) {
	for _, r := range s {
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func newTestDialogs() *Dialogs {
	return NewDialogs(styles.NewThemeNamed(styles.ThemeDark))
}

func TestInitialPath(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name string
		req  dialog.FileRequest
		want string
	}{
		{"open without folder", dialog.FileRequest{Mode: dialog.ModeOpen}, ""},
		{"open in folder", dialog.FileRequest{Mode: dialog.ModeOpen, Folder: "/home/a"}, "/home/a" + sep},
		{"open ignores name", dialog.FileRequest{Mode: dialog.ModeOpen, Folder: "/home/a", SuggestedName: "x"}, "/home/a" + sep},
		{"save in folder", dialog.FileRequest{Mode: dialog.ModeSave, Folder: "/home/a", SuggestedName: "notes.txt"}, filepath.Join("/home/a", "notes.txt")},
		{"export without folder", dialog.FileRequest{Mode: dialog.ModeExport, SuggestedName: "notes.xhtml"}, "notes.xhtml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, initialPath(tt.req))
		})
	}
}

func TestFileChooser_Accept(t *testing.T) {
	d := newTestDialogs()
	c := d.NewFileChooser()

	var got []dialog.FileResponse
	c.Present(dialog.FileRequest{Mode: dialog.ModeSave, Folder: "/tmp", SuggestedName: "a.txt"},
		func(r dialog.FileResponse) { got = append(got, r) })
	require.True(t, d.Active())
	assert.Contains(t, d.View(), "Save Document")

	typeText(d, "t")
	d.Update(keyEnter)

	require.Len(t, got, 1)
	assert.Equal(t, dialog.Accept, got[0].Outcome)
	assert.Equal(t, filepath.Join("/tmp", "a.txtt"), got[0].Path)
	assert.False(t, d.Active())

	d.Update(keyEnter)
	assert.Len(t, got, 1, "a dismissed chooser must not answer again")
}

func TestFileChooser_EmptyOrFolderIgnored(t *testing.T) {
	d := newTestDialogs()
	c := d.NewFileChooser()

	answered := false
	c.Present(dialog.FileRequest{Mode: dialog.ModeOpen, Folder: "/tmp"}, func(dialog.FileResponse) { answered = true })

	d.Update(keyEnter)
	assert.False(t, answered, "a folder path is not a file")
	assert.True(t, d.Active())
}

func TestFileChooser_RelativePathMadeAbsolute(t *testing.T) {
	d := newTestDialogs()
	var got []dialog.FileResponse
	d.NewFileChooser().Present(dialog.FileRequest{Mode: dialog.ModeOpen},
		func(r dialog.FileResponse) { got = append(got, r) })

	typeText(d, "notes.txt")
	d.Update(keyEnter)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(wd, "notes.txt"), got[0].Path)
}

func TestFileChooser_Cancel(t *testing.T) {
	d := newTestDialogs()
	c := d.NewFileChooser()

	var got dialog.FileResponse
	c.Present(dialog.FileRequest{Mode: dialog.ModeOpen}, func(r dialog.FileResponse) { got = r })
	d.Update(keyEsc)

	assert.Equal(t, dialog.Cancel, got.Outcome)
	assert.False(t, d.Active())
}

func TestFileChooser_CloseSuppressesAnswer(t *testing.T) {
	d := newTestDialogs()
	c := d.NewFileChooser()

	answered := false
	c.Present(dialog.FileRequest{Mode: dialog.ModeOpen}, func(dialog.FileResponse) { answered = true })
	c.Close()

	assert.False(t, d.Active())
	d.Update(keyEsc)
	assert.False(t, answered)
}

func TestFileChooser_PresentTwicePanics(t *testing.T) {
	d := newTestDialogs()
	c := d.NewFileChooser()
	c.Present(dialog.FileRequest{}, func(dialog.FileResponse) {})
	assert.Panics(t, func() { c.Present(dialog.FileRequest{}, func(dialog.FileResponse) {}) })
}

func TestDialogs_CloseOfReplacedDialogKeepsNewOne(t *testing.T) {
	d := newTestDialogs()
	first := d.NewFileChooser()
	second := d.NewLocationEntry()

	first.Present(dialog.FileRequest{}, func(dialog.FileResponse) {})
	second.Present(func(dialog.LocationResponse) {})
	first.Close()

	assert.True(t, d.Active())
	assert.Contains(t, d.View(), "Open Location")
}

func TestDialogs_AnswerMayPresentNext(t *testing.T) {
	d := newTestDialogs()
	first := d.NewFileChooser()
	second := d.NewFileChooser()

	first.Present(dialog.FileRequest{Mode: dialog.ModeSave, SuggestedName: "a"}, func(dialog.FileResponse) {
		second.Present(dialog.FileRequest{Mode: dialog.ModeExport, SuggestedName: "b"}, func(dialog.FileResponse) {})
	})
	d.Update(keyEnter)

	require.True(t, d.Active())
	assert.Contains(t, d.View(), "Export As HTML")
}

func TestLocationEntry(t *testing.T) {
	d := newTestDialogs()
	e := d.NewLocationEntry()

	var got dialog.LocationResponse
	e.Present(func(r dialog.LocationResponse) { got = r })
	typeText(d, "infinote://example.org/notes")
	d.Update(keyEnter)

	assert.Equal(t, dialog.Accept, got.Outcome)
	assert.Equal(t, "infinote://example.org/notes", got.URI)
}

func TestDocumentLocation(t *testing.T) {
	d := newTestDialogs()
	p := d.NewDocumentLocation()

	locs := []browser.Location{
		{Host: "alpha", Path: "/", Writable: true},
		{Host: "beta", Path: "/docs", Writable: true},
	}
	var got dialog.DocumentLocationResponse
	p.Present(dialog.DocumentLocationRequest{Name: "New Document", Kind: document.KindText, Locations: locs},
		func(r dialog.DocumentLocationResponse) { got = r })

	d.Update(keyDown)
	d.Update(keyDown)
	d.Update(keyUp)
	d.Update(keyDown)
	d.Update(keyCtrlT)
	assert.Contains(t, d.View(), "Kind: Chat")
	d.Update(keyEnter)

	assert.Equal(t, dialog.Accept, got.Outcome)
	assert.Equal(t, "New Document", got.Name)
	assert.Equal(t, document.KindChat, got.Kind)
	assert.Equal(t, locs[1], got.Location)
}

func TestDocumentLocation_BlankNameIgnored(t *testing.T) {
	d := newTestDialogs()
	p := d.NewDocumentLocation()

	answered := false
	p.Present(dialog.DocumentLocationRequest{
		Name:      "   ",
		Locations: []browser.Location{{Host: "alpha", Path: "/", Writable: true}},
	}, func(dialog.DocumentLocationResponse) { answered = true })

	d.Update(keyEnter)
	assert.False(t, answered)
	d.Update(keyEsc)
	assert.True(t, answered)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/ui/styles"
	"github.com/gobby/gobby-sub002/internal/util"
)

// dialogWidth is the input width of every dialog.
const dialogWidth = 56

// dialogKeys are shared by all dialogs.
var dialogKeys = struct {
	Accept     key.Binding
	Cancel     key.Binding
	Up         key.Binding
	Down       key.Binding
	ToggleKind key.Binding
}{
	Accept:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "previous location")),
	Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "next location")),
	ToggleKind: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("C-t", "text/chat")),
}

// modal is a dialog currently owning the keyboard.
type modal interface {
	update(msg tea.KeyMsg) tea.Cmd
	view(t *styles.Theme) string
}

// =============================================================================
// DIALOG HOST
// =============================================================================

// Dialogs hosts at most one modal dialog at a time and implements
// dialog.Factory. Presenting a dialog replaces the visible one; the replaced
// dialog stays unanswered until its owner closes it.
type Dialogs struct {
	theme  *styles.Theme
	active modal
}

var _ dialog.Factory = (*Dialogs)(nil)

// NewDialogs creates an empty dialog host.
func NewDialogs(theme *styles.Theme) *Dialogs {
	return &Dialogs{theme: theme}
}

// SetTheme switches the styles used by new dialogs and View.
func (d *Dialogs) SetTheme(theme *styles.Theme) {
	d.theme = theme
}

// Active reports whether a dialog is shown.
func (d *Dialogs) Active() bool {
	return d.active != nil
}

// Update routes a key to the shown dialog.
func (d *Dialogs) Update(msg tea.KeyMsg) tea.Cmd {
	if d.active == nil {
		return nil
	}
	return d.active.update(msg)
}

// View renders the shown dialog, or "" when none is.
func (d *Dialogs) View() string {
	if d.active == nil {
		return ""
	}
	return d.theme.Dialog.Render(d.active.view(d.theme))
}

// NewFileChooser implements dialog.Factory.
func (d *Dialogs) NewFileChooser() dialog.FileChooser {
	return &fileChooser{host: d}
}

// NewLocationEntry implements dialog.Factory.
func (d *Dialogs) NewLocationEntry() dialog.LocationEntry {
	return &locationEntry{host: d}
}

// NewDocumentLocation implements dialog.Factory.
func (d *Dialogs) NewDocumentLocation() dialog.DocumentLocation {
	return &documentLocation{host: d}
}

func (d *Dialogs) show(m modal) {
	d.active = m
}

// dismiss hides m. It reports false when m was not shown, so a dialog closed
// by its owner never answers afterwards.
func (d *Dialogs) dismiss(m modal) bool {
	if d.active != m {
		return false
	}
	d.active = nil
	return true
}

func (d *Dialogs) newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Width = dialogWidth
	ti.Prompt = "> "
	ti.PromptStyle = d.theme.InputPrompt
	ti.TextStyle = d.theme.InputText
	ti.PlaceholderStyle = d.theme.InputPlaceholder
	ti.Cursor.Style = d.theme.InputCursor
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return ti
}

func hint(t *styles.Theme, bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return t.DialogHint.Render(strings.Join(parts, "  "))
}

// =============================================================================
// FILE CHOOSER
// =============================================================================

type fileChooser struct {
	host      *Dialogs
	req       dialog.FileRequest
	input     textinput.Model
	respond   func(dialog.FileResponse)
	presented bool
}

func (c *fileChooser) Present(req dialog.FileRequest, respond func(dialog.FileResponse)) {
	if c.presented {
		panic("ui: file chooser presented twice")
	}
	c.presented = true
	c.req = req
	c.respond = respond
	c.input = c.host.newInput("path/to/file")
	c.input.SetValue(initialPath(req))
	c.input.CursorEnd()
	c.host.show(c)
}

func (c *fileChooser) Close() {
	c.host.dismiss(c)
}

func (c *fileChooser) update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, dialogKeys.Cancel):
		c.finish(dialog.Cancel, "")
	case key.Matches(msg, dialogKeys.Accept):
		path := strings.TrimSpace(c.input.Value())
		if path == "" || strings.HasSuffix(path, string(filepath.Separator)) {
			return nil
		}
		abs, err := filepath.Abs(util.ExpandHome(path))
		if err != nil {
			return nil
		}
		c.finish(dialog.Accept, abs)
	default:
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return cmd
	}
	return nil
}

func (c *fileChooser) finish(outcome dialog.Outcome, path string) {
	if !c.host.dismiss(c) {
		return
	}
	c.respond(dialog.FileResponse{Outcome: outcome, Path: path})
}

func (c *fileChooser) view(t *styles.Theme) string {
	title := c.req.Title
	if title == "" {
		title = chooserTitle(c.req.Mode)
	}
	parts := []string{t.DialogTitle.Render(title)}
	if c.req.Folder != "" {
		parts = append(parts, t.DialogLabel.Render("in "+util.TruncatePathLeft(c.req.Folder, dialogWidth-3)))
	}
	parts = append(parts, c.input.View(), hint(t, dialogKeys.Accept, dialogKeys.Cancel))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func chooserTitle(mode dialog.ChooserMode) string {
	switch mode {
	case dialog.ModeSave:
		return "Save Document"
	case dialog.ModeExport:
		return "Export As HTML"
	default:
		return "Open File"
	}
}

// initialPath is the text the chooser starts with: the folder for open,
// the folder joined with the suggested name for save and export.
func initialPath(req dialog.FileRequest) string {
	if req.Mode == dialog.ModeOpen || req.SuggestedName == "" {
		if req.Folder == "" {
			return ""
		}
		return strings.TrimSuffix(req.Folder, string(filepath.Separator)) + string(filepath.Separator)
	}
	if req.Folder == "" {
		return req.SuggestedName
	}
	return filepath.Join(req.Folder, req.SuggestedName)
}

// =============================================================================
// LOCATION ENTRY
// =============================================================================

type locationEntry struct {
	host      *Dialogs
	input     textinput.Model
	respond   func(dialog.LocationResponse)
	presented bool
}

func (e *locationEntry) Present(respond func(dialog.LocationResponse)) {
	if e.presented {
		panic("ui: location entry presented twice")
	}
	e.presented = true
	e.respond = respond
	e.input = e.host.newInput("infinote://host/path or a local file")
	e.host.show(e)
}

func (e *locationEntry) Close() {
	e.host.dismiss(e)
}

func (e *locationEntry) update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, dialogKeys.Cancel):
		e.finish(dialog.Cancel, "")
	case key.Matches(msg, dialogKeys.Accept):
		e.finish(dialog.Accept, e.input.Value())
	default:
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return cmd
	}
	return nil
}

func (e *locationEntry) finish(outcome dialog.Outcome, uri string) {
	if !e.host.dismiss(e) {
		return
	}
	e.respond(dialog.LocationResponse{Outcome: outcome, URI: uri})
}

func (e *locationEntry) view(t *styles.Theme) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		t.DialogTitle.Render("Open Location"),
		e.input.View(),
		hint(t, dialogKeys.Accept, dialogKeys.Cancel),
	)
}

// =============================================================================
// DOCUMENT LOCATION
// =============================================================================

type documentLocation struct {
	host      *Dialogs
	req       dialog.DocumentLocationRequest
	input     textinput.Model
	kind      document.Kind
	selected  int
	respond   func(dialog.DocumentLocationResponse)
	presented bool
}

func (l *documentLocation) Present(req dialog.DocumentLocationRequest, respond func(dialog.DocumentLocationResponse)) {
	if l.presented {
		panic("ui: document location presented twice")
	}
	l.presented = true
	l.req = req
	l.respond = respond
	l.kind = req.Kind
	l.input = l.host.newInput("document name")
	l.input.SetValue(req.Name)
	l.input.CursorEnd()
	l.host.show(l)
}

func (l *documentLocation) Close() {
	l.host.dismiss(l)
}

func (l *documentLocation) update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, dialogKeys.Cancel):
		l.finish(dialog.DocumentLocationResponse{Outcome: dialog.Cancel})
	case key.Matches(msg, dialogKeys.Accept):
		name := strings.TrimSpace(l.input.Value())
		if name == "" || len(l.req.Locations) == 0 {
			return nil
		}
		l.finish(dialog.DocumentLocationResponse{
			Outcome:  dialog.Accept,
			Name:     name,
			Kind:     l.kind,
			Location: l.req.Locations[l.selected],
		})
	case key.Matches(msg, dialogKeys.Up):
		if l.selected > 0 {
			l.selected--
		}
	case key.Matches(msg, dialogKeys.Down):
		if l.selected < len(l.req.Locations)-1 {
			l.selected++
		}
	case key.Matches(msg, dialogKeys.ToggleKind):
		if l.kind == document.KindText {
			l.kind = document.KindChat
		} else {
			l.kind = document.KindText
		}
	default:
		var cmd tea.Cmd
		l.input, cmd = l.input.Update(msg)
		return cmd
	}
	return nil
}

func (l *documentLocation) finish(resp dialog.DocumentLocationResponse) {
	if !l.host.dismiss(l) {
		return
	}
	l.respond(resp)
}

func (l *documentLocation) view(t *styles.Theme) string {
	parts := []string{
		t.DialogTitle.Render("New Document"),
		l.input.View(),
		t.DialogLabel.Render("Kind: " + l.kind.String()),
		t.DialogLabel.Render("Location:"),
	}
	for i, loc := range l.req.Locations {
		entry := util.PadRight(loc.String(), dialogWidth-2)
		if i == l.selected {
			parts = append(parts, t.DialogSelected.Render(entry))
		} else {
			parts = append(parts, t.DialogChoice.Render(entry))
		}
	}
	parts = append(parts, hint(t, dialogKeys.Accept, dialogKeys.Up, dialogKeys.Down, dialogKeys.ToggleKind, dialogKeys.Cancel))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

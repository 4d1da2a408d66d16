// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/gobby/gobby-sub002/internal/filecommands"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the window's keyboard bindings. It implements help.KeyMap.
type KeyMap struct {
	New          key.Binding
	Open         key.Binding
	OpenLocation key.Binding
	Save         key.Binding
	SaveAs       key.Binding
	SaveAll      key.Binding
	ExportHTML   key.Binding
	NextDoc      key.Binding
	PrevDoc      key.Binding
	CloseDoc     key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new"),
		),
		Open: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "open"),
		),
		OpenLocation: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "open location"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		SaveAs: key.NewBinding(
			key.WithKeys("alt+s"),
			key.WithHelp("M-s", "save as"),
		),
		SaveAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "save all"),
		),
		ExportHTML: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export html"),
		),
		NextDoc: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next document"),
		),
		PrevDoc: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous document"),
		),
		CloseDoc: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("C-w", "close document"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("C-q", "quit"),
		),
	}
}

// Command returns the binding that starts cmd.
func (k KeyMap) Command(cmd filecommands.Command) (key.Binding, bool) {
	switch cmd {
	case filecommands.CommandNew:
		return k.New, true
	case filecommands.CommandOpen:
		return k.Open, true
	case filecommands.CommandOpenLocation:
		return k.OpenLocation, true
	case filecommands.CommandSave:
		return k.Save, true
	case filecommands.CommandSaveAs:
		return k.SaveAs, true
	case filecommands.CommandSaveAll:
		return k.SaveAll, true
	case filecommands.CommandExportHTML:
		return k.ExportHTML, true
	default:
		return key.Binding{}, false
	}
}

// WithSensitivity returns a copy with file command bindings disabled where
// s says the command cannot start. Disabled bindings drop out of the help.
func (k KeyMap) WithSensitivity(s filecommands.Sensitivity) KeyMap {
	k.New.SetEnabled(s.New)
	k.Open.SetEnabled(s.Open)
	k.OpenLocation.SetEnabled(s.OpenLocation)
	k.Save.SetEnabled(s.Save)
	k.SaveAs.SetEnabled(s.SaveAs)
	k.SaveAll.SetEnabled(s.SaveAll)
	k.ExportHTML.SetEnabled(s.ExportHTML)
	return k
}

// ShortHelp returns bindings for the one-line help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Save, k.NextDoc, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.OpenLocation},
		{k.Save, k.SaveAs, k.SaveAll, k.ExportHTML},
		{k.NextDoc, k.PrevDoc, k.CloseDoc},
		{k.Help, k.Quit},
	}
}

// commandOrder lists file commands in menu order.
var commandOrder = []filecommands.Command{
	filecommands.CommandNew,
	filecommands.CommandOpen,
	filecommands.CommandOpenLocation,
	filecommands.CommandSave,
	filecommands.CommandSaveAs,
	filecommands.CommandSaveAll,
	filecommands.CommandExportHTML,
}

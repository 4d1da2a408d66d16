// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dialog declares the modal dialogs that file commands drive.
//
// A dialog is presented once with a response callback. The callback fires at
// most once, on the UI goroutine, carrying an Outcome and the chosen value.
// Close dismisses a presented dialog without firing the callback; file
// commands use it when the document they target goes away.
package dialog

import (
	"github.com/gobby/gobby-sub002/internal/browser"
	"github.com/gobby/gobby-sub002/internal/document"
)

// Outcome is how a dialog was dismissed.
type Outcome int

const (
	// Accept means the user confirmed a choice.
	Accept Outcome = iota
	// Cancel means the user pressed cancel.
	Cancel
	// Close means the dialog was closed without an answer.
	Close
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Cancel:
		return "cancel"
	case Close:
		return "close"
	default:
		return "unknown"
	}
}

// =============================================================================
// FILE CHOOSER
// =============================================================================

// ChooserMode selects the purpose of a file chooser.
type ChooserMode int

const (
	ModeOpen ChooserMode = iota
	ModeSave
	ModeExport
)

// FileRequest describes what a file chooser should offer.
type FileRequest struct {
	Mode          ChooserMode
	Title         string
	Folder        string // initial directory, may be empty
	SuggestedName string // proposed file name for save/export
}

// FileResponse is the answer of a file chooser.
type FileResponse struct {
	Outcome Outcome
	Path    string
}

// FileChooser asks for a local file path.
type FileChooser interface {
	Present(req FileRequest, respond func(FileResponse))
	Close()
}

// =============================================================================
// LOCATION ENTRY
// =============================================================================

// LocationResponse is the answer of a location entry dialog.
type LocationResponse struct {
	Outcome Outcome
	URI     string
}

// LocationEntry asks for a URI to open.
type LocationEntry interface {
	Present(respond func(LocationResponse))
	Close()
}

// =============================================================================
// DOCUMENT LOCATION
// =============================================================================

// DocumentLocationRequest describes the new-document dialog.
type DocumentLocationRequest struct {
	Name      string // proposed document name
	Kind      document.Kind
	Locations []browser.Location // writable choices, at least one
}

// DocumentLocationResponse is the answer of the new-document dialog.
type DocumentLocationResponse struct {
	Outcome  Outcome
	Name     string
	Kind     document.Kind
	Location browser.Location
}

// DocumentLocation asks for a document name, kind and target location.
type DocumentLocation interface {
	Present(req DocumentLocationRequest, respond func(DocumentLocationResponse))
	Close()
}

// =============================================================================
// FACTORY
// =============================================================================

// Factory creates fresh dialogs. Each dialog is presented at most once.
type Factory interface {
	NewFileChooser() FileChooser
	NewLocationEntry() LocationEntry
	NewDocumentLocation() DocumentLocation
}

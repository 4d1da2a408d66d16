// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document holds the open documents of a gobby window.
//
// Documents and the Folder that lists them belong to the UI goroutine; none of
// the types here are safe for concurrent use.
package document

import (
	"github.com/google/uuid"
)

// Kind is the closed set of document kinds a folder can show.
type Kind int

const (
	// KindText is a collaboratively edited text buffer.
	KindText Kind = iota
	// KindChat is a chat session view.
	KindChat
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindChat:
		return "Chat"
	default:
		return "Unknown"
	}
}

// SupportsFileOps reports whether save and export apply to this kind.
func (k Kind) SupportsFileOps() bool {
	return k == KindText
}

// ParseKind maps a display name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "Text", "text":
		return KindText, true
	case "Chat", "chat":
		return KindChat, true
	}
	return 0, false
}

// Document is one open session view.
type Document struct {
	key      string
	title    string
	kind     Kind
	language string
	content  string
	modified bool
}

// New creates a document with a fresh key.
func New(title string, kind Kind) *Document {
	return &Document{
		key:   uuid.New().String(),
		title: title,
		kind:  kind,
	}
}

// NewWithKey creates a document with a caller-chosen key, for sessions whose
// identity is known from the browser (host and path).
func NewWithKey(key, title string, kind Kind) *Document {
	if key == "" {
		key = uuid.New().String()
	}
	return &Document{key: key, title: title, kind: kind}
}

// Key is the stable identifier under which document info is stored.
func (d *Document) Key() string { return d.key }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// SetTitle renames the document.
func (d *Document) SetTitle(title string) { d.title = title }

// Kind returns the document kind.
func (d *Document) Kind() Kind { return d.kind }

// Language is the highlighting hint (a chroma lexer name), possibly empty.
func (d *Document) Language() string { return d.language }

// SetLanguage sets the highlighting hint.
func (d *Document) SetLanguage(lang string) { d.language = lang }

// Content returns the current buffer text.
func (d *Document) Content() string { return d.content }

// SetContent replaces the buffer text and marks the document modified.
func (d *Document) SetContent(text string) {
	d.content = text
	d.modified = true
}

// Modified reports unsaved changes.
func (d *Document) Modified() bool { return d.modified }

// SetModified sets the unsaved-changes flag.
func (d *Document) SetModified(modified bool) { d.modified = modified }

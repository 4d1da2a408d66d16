// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"
	"time"

	"github.com/gobby/gobby-sub002/internal/document"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a document into a file format.
type Exporter interface {
	// Export renders doc and returns the file content.
	Export(doc *document.Document) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type of the rendered content.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures rendering.
type Options struct {
	// Style is the chroma style name. Default: "github"
	Style string

	// LineNumbers prefixes every line with its number.
	LineNumbers bool

	// TabWidth is the tab stop in the rendered text. Default: 8
	TabWidth int

	// IncludeFooter appends an "exported on" line.
	IncludeFooter bool

	// Now returns the export time for the footer. Default: time.Now
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		Style:         "github",
		LineNumbers:   false,
		TabWidth:      8,
		IncludeFooter: true,
		Now:           time.Now,
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// DefaultFilename proposes a file name for exporting a document titled title.
func DefaultFilename(title string) string {
	return sanitizeFilename(strings.TrimSpace(title)) + ".xhtml"
}

// maxFilenameRunes caps the proposed name, extension excluded.
const maxFilenameRunes = 100

// sanitizeFilename maps path separators, reserved punctuation and control
// characters to safe ones. An empty title becomes "document".
func sanitizeFilename(s string) string {
	if runes := []rune(s); len(runes) > maxFilenameRunes {
		s = string(runes[:maxFilenameRunes])
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r), r < 32, r == 127:
			return '-'
		}
		return r
	}, s)

	if s == "" {
		return "document"
	}
	return s
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders documents into static files.
//
// The only format is XHTML: a self-contained page with the document text
// syntax-highlighted by chroma using inline styles, so the file can be opened
// or mailed without any stylesheet.
//
// # Key Types
//
//   - Exporter: renders a document to bytes
//   - HTMLExporter: XHTML renderer
//   - Options: highlighting style, line numbers, footer
//
// # Usage
//
//	exporter := export.NewHTMLExporter(nil)
//	data, err := exporter.Export(doc)
//	name := export.DefaultFilename(doc.Title()) // "notes.xhtml"
package export

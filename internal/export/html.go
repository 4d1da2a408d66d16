// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/gobby/gobby-sub002/internal/document"
)

// ErrNotExportable is returned for documents without text content.
var ErrNotExportable = errors.New("document kind cannot be exported")

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders a text document as a standalone XHTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a document to XHTML.
func (e *HTMLExporter) Export(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}
	if !doc.Kind().SupportsFileOps() {
		return nil, fmt.Errorf("%w: %s", ErrNotExportable, doc.Kind())
	}

	title := html.EscapeString(doc.Title())

	var sb strings.Builder

	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<!DOCTYPE html PUBLIC \"-//W3C//DTD XHTML 1.0 Strict//EN\" \"http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd\">\n")
	sb.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta http-equiv=\"Content-Type\" content=\"text/html; charset=UTF-8\" />\n")
	sb.WriteString("    <meta name=\"generator\" content=\"gobby\" />\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", title))
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString(fmt.Sprintf("    <h1>%s</h1>\n", title))
	sb.WriteString("    <div class=\"document\">\n")
	sb.WriteString(e.renderBody(doc))
	sb.WriteString("    </div>\n")

	if e.options.IncludeFooter && e.options.Now != nil {
		sb.WriteString(fmt.Sprintf("    <p class=\"footer\">Exported from gobby on %s</p>\n",
			formatTimestamp(e.options.Now())))
	}

	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for XHTML.
func (e *HTMLExporter) FileExtension() string {
	return ".xhtml"
}

// MimeType returns the MIME type for XHTML.
func (e *HTMLExporter) MimeType() string {
	return "application/xhtml+xml"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// renderBody highlights the document text, falling back to an escaped <pre>
// block when highlighting fails.
func (e *HTMLExporter) renderBody(doc *document.Document) string {
	content := doc.Content()
	if highlighted, err := e.highlight(content, doc.Language()); err == nil {
		return highlighted
	}
	return "<pre>" + html.EscapeString(content) + "</pre>\n"
}

func (e *HTMLExporter) highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil && language == "" {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(e.options.Style)
	if style == nil {
		style = chromaStyles.Fallback
	}

	tabWidth := e.options.TabWidth
	if tabWidth <= 0 {
		tabWidth = 8
	}

	formatter := chromahtml.New(
		chromahtml.Standalone(false),
		chromahtml.WithClasses(false),
		chromahtml.WithLineNumbers(e.options.LineNumbers),
		chromahtml.TabWidth(tabWidth),
	)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return buf.String(), nil
}

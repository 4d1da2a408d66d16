// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docinfo remembers where documents were last saved.
//
// Each entry is keyed by the document's stable key and records the file URI,
// the character encoding and the line ending style, so that a later Save can
// write to the same place without asking.
package docinfo

import (
	"fmt"
	"strings"
	"sync"
)

// =============================================================================
// EOL STYLE
// =============================================================================

// EOLStyle is a line ending convention.
type EOLStyle int

const (
	// LF is "\n", the default.
	LF EOLStyle = iota
	// CRLF is "\r\n".
	CRLF
	// CR is "\r".
	CR
)

// String returns the lowercase name used in config and storage.
func (e EOLStyle) String() string {
	switch e {
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	case CR:
		return "cr"
	default:
		return fmt.Sprintf("eol(%d)", int(e))
	}
}

// Sequence returns the line terminator.
func (e EOLStyle) Sequence() string {
	switch e {
	case CRLF:
		return "\r\n"
	case CR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseEOLStyle parses "lf", "crlf" or "cr" (case-insensitive).
func ParseEOLStyle(s string) (EOLStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lf", "":
		return LF, nil
	case "crlf":
		return CRLF, nil
	case "cr":
		return CR, nil
	}
	return LF, fmt.Errorf("unknown line ending style %q", s)
}

// DetectEOL returns the style of the first line break in text, or LF when
// there is none.
func DetectEOL(text string) EOLStyle {
	i := strings.IndexAny(text, "\r\n")
	if i < 0 || text[i] == '\n' {
		return LF
	}
	if i+1 < len(text) && text[i+1] == '\n' {
		return CRLF
	}
	return CR
}

// Convert normalizes every line break in text to style.
func Convert(text string, style EOLStyle) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	if style == LF {
		return normalized
	}
	return strings.ReplaceAll(normalized, "\n", style.Sequence())
}

// =============================================================================
// INFO AND STORE
// =============================================================================

// DefaultEncoding is used when a document has never been saved.
const DefaultEncoding = "UTF-8"

// Info is the save metadata of one document.
type Info struct {
	URI      string
	Encoding string
	EOL      EOLStyle
}

// Store looks up and records document info by document key.
type Store interface {
	Get(key string) (Info, bool)
	Set(key string, info Info) error
	Delete(key string) error
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu    sync.RWMutex
	infos map[string]Info
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{infos: make(map[string]Info)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (Info, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.infos[key]
	return info, ok
}

// Set implements Store.
func (s *MemoryStore) Set(key string, info Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos[key] = info
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.infos, key)
	return nil
}

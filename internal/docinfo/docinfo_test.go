// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docinfo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEOLStyle(t *testing.T) {
	tests := []struct {
		in   string
		want EOLStyle
	}{
		{"lf", LF},
		{"CRLF", CRLF},
		{" cr ", CR},
		{"", LF},
	}
	for _, tt := range tests {
		got, err := ParseEOLStyle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, got, mustParse(t, got.String()), "round trip through String")
	}

	_, err := ParseEOLStyle("lfcr")
	assert.Error(t, err)
}

func mustParse(t *testing.T, s string) EOLStyle {
	t.Helper()
	e, err := ParseEOLStyle(s)
	require.NoError(t, err)
	return e
}

func TestDetectEOL(t *testing.T) {
	assert.Equal(t, LF, DetectEOL("no breaks"))
	assert.Equal(t, LF, DetectEOL("a\nb\r\n"))
	assert.Equal(t, CRLF, DetectEOL("a\r\nb\n"))
	assert.Equal(t, CR, DetectEOL("a\rb"))
	assert.Equal(t, CR, DetectEOL("trailing\r"))
}

func TestConvert(t *testing.T) {
	mixed := "one\r\ntwo\rthree\nfour"
	assert.Equal(t, "one\ntwo\nthree\nfour", Convert(mixed, LF))
	assert.Equal(t, "one\r\ntwo\r\nthree\r\nfour", Convert(mixed, CRLF))
	assert.Equal(t, "one\rtwo\rthree\rfour", Convert(mixed, CR))
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok := s.Get("doc-1")
	assert.False(t, ok)

	info := Info{URI: "/tmp/a.txt", Encoding: "ISO-8859-1", EOL: CRLF}
	require.NoError(t, s.Set("doc-1", info))

	got, ok := s.Get("doc-1")
	require.True(t, ok)
	assert.Equal(t, info, got)

	updated := Info{URI: "/tmp/b.txt", Encoding: DefaultEncoding, EOL: LF}
	require.NoError(t, s.Set("doc-1", updated))
	got, ok = s.Get("doc-1")
	require.True(t, ok)
	assert.Equal(t, updated, got)

	require.NoError(t, s.Delete("doc-1"))
	_, ok = s.Get("doc-1")
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "docinfo.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", Info{URI: "/tmp/c.txt", Encoding: "UTF-8", EOL: CR}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, Info{URI: "/tmp/c.txt", Encoding: "UTF-8", EOL: CR}, got)
}

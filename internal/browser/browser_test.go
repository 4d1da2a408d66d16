// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package browser

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
)

func TestWritableLocations(t *testing.T) {
	ro := Location{Host: "a", Path: "/", Writable: false}
	rw := Location{Host: "b", Path: "/docs", Writable: true}
	d := NewDirectory(document.NewFolder(), ro, rw)

	assert.Equal(t, []Location{rw}, WritableLocations(d))
	assert.Nil(t, WritableLocations(nil))

	require.True(t, d.RemoveLocation(rw))
	assert.Empty(t, WritableLocations(d))
	assert.False(t, d.RemoveLocation(rw))
}

func TestDirectory_CreateDocument(t *testing.T) {
	folder := document.NewFolder()
	rw := Location{Host: "gobby.example", Path: "/docs", Writable: true}
	d := NewDirectory(folder, rw)

	require.NoError(t, d.CreateDocument(rw, "notes", document.KindText))
	require.Equal(t, 1, folder.Len())
	doc := folder.Current()
	assert.Equal(t, "notes", doc.Title())
	assert.Equal(t, "gobby.example/docs/notes", doc.Key())

	assert.Error(t, d.CreateDocument(rw, "  ", document.KindText))
	assert.Error(t, d.CreateDocument(rw, "a/b", document.KindText))
	assert.ErrorIs(t, d.CreateDocument(Location{Host: "x", Path: "/", Writable: true}, "n", document.KindText), ErrNoSuchLocation)

	ro := Location{Host: "gobby.example", Path: "/ro"}
	d.AddLocation(ro)
	assert.ErrorIs(t, d.CreateDocument(ro, "n", document.KindText), ErrReadOnlyLocation)
}

func TestDirectory_CreateDocumentTwiceRejected(t *testing.T) {
	folder := document.NewFolder()
	rw := Location{Host: "gobby.example", Path: "/docs", Writable: true}
	d := NewDirectory(folder, rw)

	require.NoError(t, d.CreateDocument(rw, "notes", document.KindText))
	first := folder.Current()

	err := d.CreateDocument(rw, "notes", document.KindText)
	assert.ErrorIs(t, err, ErrDocumentExists)
	assert.Equal(t, 1, folder.Len())
	assert.Same(t, first, folder.Current())

	folder.Remove(first)
	require.NoError(t, d.CreateDocument(rw, "notes", document.KindText), "closed documents may be created again")
}

func TestDirectory_CreateDocumentForgetsStaleInfo(t *testing.T) {
	folder := document.NewFolder()
	store := docinfo.NewMemoryStore()
	rw := Location{Host: "gobby.example", Path: "/docs", Writable: true}
	d := NewDirectory(folder, rw)
	d.SetInfoStore(store)

	key := "gobby.example/docs/notes"
	require.NoError(t, store.Set(key, docinfo.Info{URI: "/home/u/notes.txt", Encoding: "UTF-8"}))
	require.NoError(t, store.Set("gobby.example/docs/other", docinfo.Info{URI: "/home/u/other.txt"}))

	require.NoError(t, d.CreateDocument(rw, "notes", document.KindText))

	_, ok := store.Get(key)
	assert.False(t, ok)
	_, ok = store.Get("gobby.example/docs/other")
	assert.True(t, ok)
}

func TestDirectory_Subscribe(t *testing.T) {
	folder := document.NewFolder()
	d := NewDirectory(folder)
	addr := async.Address{Host: "gobby.example", IP: net.ParseIP("192.0.2.1"), Port: 6523}

	require.NoError(t, d.Subscribe(addr, "/docs/notes"))
	require.NoError(t, d.Subscribe(addr, "/docs/notes"))

	assert.Equal(t, 1, folder.Len(), "second subscription reuses the open view")
	assert.Equal(t, "notes", folder.Current().Title())
	assert.Len(t, d.Subscriptions(), 2)

	assert.Error(t, d.Subscribe(addr, "/"))
}

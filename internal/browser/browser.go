// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package browser models the document browser: the places on connected
// servers where documents can be created, and subscription to remote
// sessions. The collaboration protocol itself lives outside this repository;
// Directory is the local stand-in used by the client.
package browser

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
)

// ErrNoSuchLocation is returned when a location is not (or no longer) known.
var ErrNoSuchLocation = errors.New("no such browser location")

// ErrReadOnlyLocation is returned for creation in a read-only location.
var ErrReadOnlyLocation = errors.New("browser location is read-only")

// ErrDocumentExists is returned when a document of that name is already open
// in the location.
var ErrDocumentExists = errors.New("document already open")

// Location is a directory node on a connected server.
type Location struct {
	Host     string
	Path     string
	Writable bool
}

// String returns "host:/path".
func (l Location) String() string {
	return l.Host + ":" + l.Path
}

// Browser lists locations and creates documents in them.
type Browser interface {
	Locations() []Location
	CreateDocument(loc Location, name string, kind document.Kind) error
}

// Connector subscribes to a session at a resolved address.
type Connector interface {
	Subscribe(addr async.Address, path string) error
}

// WritableLocations filters b's locations to those accepting new documents.
func WritableLocations(b Browser) []Location {
	if b == nil {
		return nil
	}
	var out []Location
	for _, loc := range b.Locations() {
		if loc.Writable {
			out = append(out, loc)
		}
	}
	return out
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Subscription records one session subscription.
type Subscription struct {
	Addr async.Address
	Path string
}

// Directory is an in-process Browser and Connector. Created documents and
// subscribed sessions are opened in the folder as local documents. It must
// be used on the UI goroutine.
type Directory struct {
	folder        *document.Folder
	infos         docinfo.Store
	locations     []Location
	subscriptions []Subscription
}

// NewDirectory creates a directory over folder with the given locations.
func NewDirectory(folder *document.Folder, locations ...Location) *Directory {
	return &Directory{folder: folder, locations: append([]Location(nil), locations...)}
}

// SetInfoStore makes document creation forget save info left under the new
// document's key by an earlier document of the same name.
func (d *Directory) SetInfoStore(store docinfo.Store) {
	d.infos = store
}

// Locations implements Browser.
func (d *Directory) Locations() []Location {
	return append([]Location(nil), d.locations...)
}

// AddLocation makes loc available.
func (d *Directory) AddLocation(loc Location) {
	d.locations = append(d.locations, loc)
}

// RemoveLocation drops loc, as when its server disconnects.
func (d *Directory) RemoveLocation(loc Location) bool {
	for i, l := range d.locations {
		if l == loc {
			d.locations = append(d.locations[:i:i], d.locations[i+1:]...)
			return true
		}
	}
	return false
}

// CreateDocument implements Browser.
func (d *Directory) CreateDocument(loc Location, name string, kind document.Kind) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("document name is empty")
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("document name %q must not contain '/'", name)
	}

	known := false
	for _, l := range d.locations {
		if l == loc {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrNoSuchLocation, loc)
	}
	if !loc.Writable {
		return fmt.Errorf("%w: %s", ErrReadOnlyLocation, loc)
	}

	key := loc.Host + path.Join(loc.Path, name)
	if d.folder.Lookup(key) != nil {
		return fmt.Errorf("%w: %s in %s", ErrDocumentExists, name, loc)
	}
	if d.infos != nil {
		if err := d.infos.Delete(key); err != nil {
			return fmt.Errorf("forget stale info for %s: %w", key, err)
		}
	}

	doc := document.NewWithKey(key, name, kind)
	d.folder.Add(doc)
	d.folder.SetCurrent(doc)
	glog.Infof("browser: created %s document %q in %s", kind, name, loc)
	return nil
}

// Subscribe implements Connector. It records the subscription and opens a
// local view of the session.
func (d *Directory) Subscribe(addr async.Address, sessionPath string) error {
	if sessionPath == "" || sessionPath == "/" {
		return errors.New("no session path to subscribe to")
	}

	d.subscriptions = append(d.subscriptions, Subscription{Addr: addr, Path: sessionPath})

	key := addr.Host + sessionPath
	if existing := d.folder.Lookup(key); existing != nil {
		d.folder.SetCurrent(existing)
		return nil
	}
	doc := document.NewWithKey(key, path.Base(sessionPath), document.KindText)
	d.folder.Add(doc)
	d.folder.SetCurrent(doc)
	glog.Infof("browser: subscribed to %s at %s", sessionPath, addr)
	return nil
}

// Subscriptions returns the subscriptions made so far.
func (d *Directory) Subscriptions() []Subscription {
	return append([]Subscription(nil), d.subscriptions...)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filecommands

import (
	"testing"

	"github.com/gobby/gobby-sub002/internal/browser"
	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
)

// =============================================================================
// FAKE DIALOGS
// =============================================================================

type fakeChooser struct {
	req     dialog.FileRequest
	respond func(dialog.FileResponse)
	closed  bool
}

func (c *fakeChooser) Present(req dialog.FileRequest, respond func(dialog.FileResponse)) {
	c.req = req
	c.respond = respond
}

func (c *fakeChooser) Close() { c.closed = true }

func (c *fakeChooser) accept(path string) {
	c.respond(dialog.FileResponse{Outcome: dialog.Accept, Path: path})
}

func (c *fakeChooser) cancel() {
	c.respond(dialog.FileResponse{Outcome: dialog.Cancel})
}

type fakeEntry struct {
	respond func(dialog.LocationResponse)
	closed  bool
}

func (e *fakeEntry) Present(respond func(dialog.LocationResponse)) { e.respond = respond }
func (e *fakeEntry) Close()                                         { e.closed = true }

type fakePicker struct {
	req     dialog.DocumentLocationRequest
	respond func(dialog.DocumentLocationResponse)
	closed  bool
}

func (p *fakePicker) Present(req dialog.DocumentLocationRequest, respond func(dialog.DocumentLocationResponse)) {
	p.req = req
	p.respond = respond
}

func (p *fakePicker) Close() { p.closed = true }

type fakeDialogs struct {
	choosers []*fakeChooser
	entries  []*fakeEntry
	pickers  []*fakePicker
}

func (d *fakeDialogs) NewFileChooser() dialog.FileChooser {
	c := &fakeChooser{}
	d.choosers = append(d.choosers, c)
	return c
}

func (d *fakeDialogs) NewLocationEntry() dialog.LocationEntry {
	e := &fakeEntry{}
	d.entries = append(d.entries, e)
	return e
}

func (d *fakeDialogs) NewDocumentLocation() dialog.DocumentLocation {
	p := &fakePicker{}
	d.pickers = append(d.pickers, p)
	return p
}

func (d *fakeDialogs) presented() int {
	return len(d.choosers) + len(d.entries) + len(d.pickers)
}

func (d *fakeDialogs) lastChooser(t *testing.T) *fakeChooser {
	t.Helper()
	if len(d.choosers) == 0 {
		t.Fatal("no file chooser presented")
	}
	return d.choosers[len(d.choosers)-1]
}

// =============================================================================
// FAKE OPERATIONS
// =============================================================================

type saveCall struct {
	doc      *document.Document
	uri      string
	encoding string
	eol      docinfo.EOLStyle
}

type exportCall struct {
	doc *document.Document
	uri string
}

type fakeOps struct {
	saves      []saveCall
	exports    []exportCall
	opens      []string
	subscribes []string
}

func (o *fakeOps) SaveDocument(doc *document.Document, uri, encoding string, eol docinfo.EOLStyle) {
	o.saves = append(o.saves, saveCall{doc: doc, uri: uri, encoding: encoding, eol: eol})
}

func (o *fakeOps) ExportHTML(doc *document.Document, uri string) {
	o.exports = append(o.exports, exportCall{doc: doc, uri: uri})
}

func (o *fakeOps) SubscribePath(uri string) { o.subscribes = append(o.subscribes, uri) }
func (o *fakeOps) OpenFile(path string)     { o.opens = append(o.opens, path) }

func (o *fakeOps) calls() int {
	return len(o.saves) + len(o.exports) + len(o.opens) + len(o.subscribes)
}

type fakeStatus struct {
	infos  []string
	errors []string
}

func (s *fakeStatus) Info(msg string)  { s.infos = append(s.infos, msg) }
func (s *fakeStatus) Error(msg string) { s.errors = append(s.errors, msg) }

// =============================================================================
// FIXTURE
// =============================================================================

var testLocation = browser.Location{Host: "localhost", Path: "/docs", Writable: true}

type fixture struct {
	folder   *document.Folder
	dir      *browser.Directory
	store    *docinfo.MemoryStore
	dialogs  *fakeDialogs
	ops      *fakeOps
	status   *fakeStatus
	cmds     *FileCommands
	finished []Command
}

func newFixture(t *testing.T, locations ...browser.Location) *fixture {
	t.Helper()
	f := &fixture{
		folder:  document.NewFolder(),
		store:   docinfo.NewMemoryStore(),
		dialogs: &fakeDialogs{},
		ops:     &fakeOps{},
		status:  &fakeStatus{},
	}
	f.dir = browser.NewDirectory(f.folder, locations...)
	f.dir.SetInfoStore(f.store)
	f.cmds = New(Config{
		Folder:        f.folder,
		Browser:       f.dir,
		Operations:    f.ops,
		Store:         f.store,
		Dialogs:       f.dialogs,
		Status:        f.status,
		InitialFolder: "/home/user",
	})
	f.cmds.OnTaskFinished(func(c Command) { f.finished = append(f.finished, c) })
	return f
}

func (f *fixture) open(title string, kind document.Kind) *document.Document {
	doc := document.New(title, kind)
	f.folder.Add(doc)
	return doc
}

func (f *fixture) openSaved(title, uri string) *document.Document {
	doc := f.open(title, document.KindText)
	_ = f.store.Set(doc.Key(), docinfo.Info{URI: uri, Encoding: "ISO-8859-1", EOL: docinfo.CRLF})
	return doc
}

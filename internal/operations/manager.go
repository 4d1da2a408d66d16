// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/browser"
	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/export"
	"github.com/gobby/gobby-sub002/internal/util"
)

// DefaultService is the SRV service name looked up for infinote hosts.
const DefaultService = "infinote"

// Config wires a Manager to its collaborators. Runner, Folder and Store are
// required.
type Config struct {
	Runner    *async.Runner
	Folder    *document.Folder
	Store     docinfo.Store
	Exporter  export.Exporter   // nil: HTML exporter with default options
	Connector browser.Connector // nil: SubscribePath reports an error
	Resolver  async.Resolver    // nil: system resolver
	Status    StatusReporter    // nil: LogStatus
	Service   string            // SRV service, default DefaultService
	FileMode  os.FileMode       // mode for written files, default 0644
}

// Manager implements Operations on top of the async runner.
//
// Manager must be used on the UI goroutine. Results arriving after Close are
// dropped.
type Manager struct {
	cfg     Config
	pending map[*async.Handle]string
	closed  bool
}

var _ Operations = (*Manager)(nil)

// NewManager creates a manager.
func NewManager(cfg Config) *Manager {
	if cfg.Runner == nil || cfg.Folder == nil || cfg.Store == nil {
		panic("operations: Runner, Folder and Store are required")
	}
	if cfg.Exporter == nil {
		cfg.Exporter = export.NewHTMLExporter(nil)
	}
	if cfg.Status == nil {
		cfg.Status = LogStatus{}
	}
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0644
	}
	return &Manager{cfg: cfg, pending: make(map[*async.Handle]string)}
}

// Pending returns the number of requests still in flight.
func (m *Manager) Pending() int {
	return len(m.pending)
}

// Close releases every in-flight request. Their workers finish in the
// background without reporting.
func (m *Manager) Close() {
	m.closed = true
	for h, what := range m.pending {
		glog.V(1).Infof("operations: dropping %s", what)
		h.Release()
	}
	m.pending = make(map[*async.Handle]string)
}

func (m *Manager) track(h *async.Handle, what string) {
	m.pending[h] = what
}

func (m *Manager) forget(h *async.Handle) {
	delete(m.pending, h)
}

// =============================================================================
// SAVE
// =============================================================================

// SaveDocument writes doc's content to uri with the given encoding and line
// endings. On success the document info is recorded and the modified flag is
// cleared, unless the document changed or closed in the meantime.
func (m *Manager) SaveDocument(doc *document.Document, uri, encodingName string, eol docinfo.EOLStyle) {
	if m.closed || doc == nil {
		return
	}

	path, err := LocalPath(uri)
	if err != nil {
		m.cfg.Status.Error(fmt.Sprintf("Failed to save %s: %v", doc.Title(), err))
		return
	}
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		m.cfg.Status.Error(fmt.Sprintf("Failed to save %s: %v", doc.Title(), err))
		return
	}

	snapshot := doc.Content()
	text := docinfo.Convert(snapshot, eol)
	mode := m.cfg.FileMode

	job := async.NewJob(func(ctx context.Context) (int, error) {
		data, err := encodeText(enc, text)
		if err != nil {
			return 0, err
		}
		if err := util.AtomicWriteFile(path, data, mode); err != nil {
			return 0, err
		}
		return len(data), nil
	}, func(h *async.Handle, n int, err error) {
		m.forget(h)
		if err != nil {
			m.cfg.Status.Error(fmt.Sprintf("Failed to save %s: %v", doc.Title(), err))
			return
		}

		info := docinfo.Info{URI: path, Encoding: encodingName, EOL: eol}
		if err := m.cfg.Store.Set(doc.Key(), info); err != nil {
			glog.Warningf("operations: recording info for %s: %v", doc.Key(), err)
		}
		if m.cfg.Folder.Contains(doc) && doc.Content() == snapshot {
			doc.SetModified(false)
		}
		m.cfg.Status.Info(fmt.Sprintf("Saved %s to %s (%d bytes)", doc.Title(), path, n))
	})

	m.track(m.cfg.Runner.Start(job), "save "+path)
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportHTML renders doc and writes the page to uri.
func (m *Manager) ExportHTML(doc *document.Document, uri string) {
	if m.closed || doc == nil {
		return
	}

	path, err := LocalPath(uri)
	if err != nil {
		m.cfg.Status.Error(fmt.Sprintf("Failed to export %s: %v", doc.Title(), err))
		return
	}
	data, err := m.cfg.Exporter.Export(doc)
	if err != nil {
		m.cfg.Status.Error(fmt.Sprintf("Failed to export %s: %v", doc.Title(), err))
		return
	}

	title := doc.Title()
	mode := m.cfg.FileMode
	job := async.NewJob(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, util.AtomicWriteFile(path, data, mode)
	}, func(h *async.Handle, _ struct{}, err error) {
		m.forget(h)
		if err != nil {
			m.cfg.Status.Error(fmt.Sprintf("Failed to export %s: %v", title, err))
			return
		}
		m.cfg.Status.Info(fmt.Sprintf("Exported %s to %s", title, path))
	})

	m.track(m.cfg.Runner.Start(job), "export "+path)
}

// =============================================================================
// OPEN
// =============================================================================

type loadedFile struct {
	text     string
	encoding string
	eol      docinfo.EOLStyle
}

// OpenFile loads a local file into a new text document and makes it current.
// A file that is already open is only brought to front.
func (m *Manager) OpenFile(uri string) {
	if m.closed {
		return
	}

	path, err := LocalPath(uri)
	if err != nil {
		m.cfg.Status.Error(fmt.Sprintf("Failed to open %s: %v", uri, err))
		return
	}
	if doc := m.findOpen(path); doc != nil {
		m.cfg.Folder.SetCurrent(doc)
		m.cfg.Status.Info(fmt.Sprintf("%s is already open", path))
		return
	}

	job := async.NewJob(func(ctx context.Context) (loadedFile, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return loadedFile{}, err
		}
		text, enc, err := decodeText(data)
		if err != nil {
			return loadedFile{}, err
		}
		eol := docinfo.DetectEOL(text)
		return loadedFile{text: docinfo.Convert(text, docinfo.LF), encoding: enc, eol: eol}, nil
	}, func(h *async.Handle, f loadedFile, err error) {
		m.forget(h)
		if err != nil {
			m.cfg.Status.Error(fmt.Sprintf("Failed to open %s: %v", path, err))
			return
		}
		if doc := m.findOpen(path); doc != nil {
			m.cfg.Folder.SetCurrent(doc)
			return
		}

		doc := document.New(filepath.Base(path), document.KindText)
		doc.SetLanguage(languageFor(path))
		doc.SetContent(f.text)
		doc.SetModified(false)

		info := docinfo.Info{URI: path, Encoding: f.encoding, EOL: f.eol}
		if err := m.cfg.Store.Set(doc.Key(), info); err != nil {
			glog.Warningf("operations: recording info for %s: %v", doc.Key(), err)
		}
		m.cfg.Folder.Add(doc)
		m.cfg.Folder.SetCurrent(doc)
		m.cfg.Status.Info(fmt.Sprintf("Opened %s (%s, %s)", path, f.encoding, f.eol))
	})

	m.track(m.cfg.Runner.Start(job), "open "+path)
}

// findOpen returns the open document last saved to or loaded from path.
func (m *Manager) findOpen(path string) *document.Document {
	for _, doc := range m.cfg.Folder.Documents() {
		if info, ok := m.cfg.Store.Get(doc.Key()); ok && info.URI == path {
			return doc
		}
	}
	return nil
}

// languageFor guesses the highlighting language from the file name.
func languageFor(path string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// =============================================================================
// SUBSCRIBE
// =============================================================================

// SubscribePath opens uri. Local files are loaded with OpenFile; infinote
// URIs are resolved and handed to the connector.
func (m *Manager) SubscribePath(uri string) {
	if m.closed {
		return
	}

	if _, err := LocalPath(uri); err == nil {
		m.OpenFile(uri)
		return
	}

	session, err := ParseSessionURI(uri)
	if err != nil {
		m.cfg.Status.Error(fmt.Sprintf("Cannot open %s: %v", uri, err))
		return
	}
	if m.cfg.Connector == nil {
		m.cfg.Status.Error(fmt.Sprintf("Cannot open %s: no connection available", uri))
		return
	}

	job := async.NewResolve(m.cfg.Resolver, session.Host, m.cfg.Service,
		func(h *async.Handle, addrs []async.Address, err error) {
			m.forget(h)
			if err != nil {
				m.cfg.Status.Error(fmt.Sprintf("Could not resolve %s: %v", session.Host, err))
				return
			}
			addr := addrs[0]
			glog.V(1).Infof("operations: %s resolved to %s", session.Host, addr)
			if err := m.cfg.Connector.Subscribe(addr, session.Path); err != nil {
				m.cfg.Status.Error(fmt.Sprintf("Failed to subscribe to %s: %v", uri, err))
				return
			}
			m.cfg.Status.Info(fmt.Sprintf("Subscribed to %s on %s", session.Path, addr))
		})

	m.track(m.cfg.Runner.Start(job), "resolve "+session.Host)
}

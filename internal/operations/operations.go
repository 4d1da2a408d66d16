// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package operations carries out the requests file commands make: saving,
// exporting, opening local files and subscribing to remote sessions.
//
// Every request is fire-and-forget. The blocking part runs as an async job and
// the outcome is reported through a StatusReporter; callers never learn
// whether a request succeeded.
package operations

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/util"
)

var (
	// ErrUnknownEncoding is reported when a save names an encoding that
	// cannot be looked up.
	ErrUnknownEncoding = errors.New("unknown character encoding")

	// ErrUnsupportedURI is reported for URIs that are neither local files
	// nor infinote sessions.
	ErrUnsupportedURI = errors.New("unsupported URI")
)

// SchemeInfinote is the URI scheme of remote sessions.
const SchemeInfinote = "infinote"

// Operations accepts file requests. All methods are called on the UI
// goroutine and return immediately.
type Operations interface {
	SaveDocument(doc *document.Document, uri, encoding string, eol docinfo.EOLStyle)
	ExportHTML(doc *document.Document, uri string)
	SubscribePath(uri string)
	OpenFile(path string)
}

// =============================================================================
// STATUS REPORTING
// =============================================================================

// StatusReporter shows the outcome of a request to the user.
type StatusReporter interface {
	Info(msg string)
	Error(msg string)
}

// LogStatus reports to the log. It is used by headless commands.
type LogStatus struct{}

// Info implements StatusReporter.
func (LogStatus) Info(msg string) { glog.Info(msg) }

// Error implements StatusReporter.
func (LogStatus) Error(msg string) { glog.Error(msg) }

// =============================================================================
// URI HELPERS
// =============================================================================

// LocalPath turns a file URI or a plain path into a local file path.
// Plain paths must be absolute or start with "~" or "."; "~/" is expanded.
// Anything else, other URI schemes included, yields ErrUnsupportedURI.
func LocalPath(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsupportedURI)
	}
	if !strings.Contains(uri, "://") {
		if !filepath.IsAbs(uri) && !strings.HasPrefix(uri, "~") && !strings.HasPrefix(uri, ".") {
			return "", fmt.Errorf("%w: %q is neither a path nor a URI", ErrUnsupportedURI, uri)
		}
		return filepath.Clean(util.ExpandHome(uri)), nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedURI, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURI, u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote file host %s", ErrUnsupportedURI, u.Host)
	}
	return filepath.Clean(u.Path), nil
}

// SessionURI is a parsed infinote://host[:port]/path location.
type SessionURI struct {
	Host string // host with optional port, as typed
	Path string // session path, always starting with "/"
}

// ParseSessionURI parses an infinote URI.
func ParseSessionURI(uri string) (SessionURI, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return SessionURI{}, fmt.Errorf("%w: %v", ErrUnsupportedURI, err)
	}
	if u.Scheme != SchemeInfinote {
		return SessionURI{}, fmt.Errorf("%w: %s", ErrUnsupportedURI, u.Scheme)
	}
	if u.Host == "" {
		return SessionURI{}, fmt.Errorf("%w: missing host", ErrUnsupportedURI)
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	return SessionURI{Host: u.Host, Path: p}, nil
}

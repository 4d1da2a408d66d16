// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/browser"
	"github.com/gobby/gobby-sub002/internal/config"
	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/export"
	"github.com/gobby/gobby-sub002/internal/operations"
)

// =============================================================================
// APPLICATION CORE
// =============================================================================

// App is the application core shared by the window and headless commands:
// the open documents, where they were saved, and the operations on them.
type App struct {
	Config  *config.Config
	Folder  *document.Folder
	Store   docinfo.Store
	Runner  *async.Runner
	Browser *browser.Directory
	Ops     *operations.Manager

	closeStore func() error
}

// NewApp wires the core to dispatcher d, the UI goroutine. A nil store
// opens the SQLite database named in the config.
func NewApp(cfg *config.Config, d async.Dispatcher, store docinfo.Store, status operations.StatusReporter) (*App, error) {
	app := &App{Config: cfg, Folder: document.NewFolder()}

	if store == nil {
		sqlite, err := docinfo.OpenSQLite(cfg.Storage.DocInfoPath)
		if err != nil {
			return nil, fmt.Errorf("document info: %w", err)
		}
		store = sqlite
		app.closeStore = sqlite.Close
	}
	app.Store = store

	app.Runner = async.NewRunnerWithLimit(d, cfg.Async.MaxWorkers)
	app.Browser = browser.NewDirectory(app.Folder, browserLocations(cfg)...)
	app.Browser.SetInfoStore(store)
	app.Ops = operations.NewManager(operations.Config{
		Runner:    app.Runner,
		Folder:    app.Folder,
		Store:     store,
		Exporter:  export.NewHTMLExporter(exportOptions(cfg)),
		Connector: app.Browser,
		Status:    status,
		Service:   cfg.Network.Service,
	})
	glog.V(1).Infof("cli: core ready (workers %d, docinfo %s)", cfg.Async.MaxWorkers, cfg.Storage.DocInfoPath)
	return app, nil
}

// Close drops pending results, stops workers and closes the store. Call it
// on the UI goroutine.
func (a *App) Close() error {
	a.Ops.Close()
	a.Runner.Close()
	if a.closeStore != nil {
		return a.closeStore()
	}
	return nil
}

func exportOptions(cfg *config.Config) *export.Options {
	opts := export.DefaultOptions()
	opts.Style = cfg.Export.Style
	opts.LineNumbers = cfg.Export.LineNumbers
	opts.IncludeFooter = cfg.Export.Footer
	opts.TabWidth = cfg.Editor.TabWidth
	return opts
}

func browserLocations(cfg *config.Config) []browser.Location {
	locs := make([]browser.Location, 0, len(cfg.Browser.Locations))
	for _, l := range cfg.Browser.Locations {
		locs = append(locs, browser.Location{Host: l.Host, Path: l.Path, Writable: l.Writable})
	}
	return locs
}

// LoadConfig loads the config file at path, or the default one when path
// is empty. A broken default file is logged and the defaults are used.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		glog.Warningf("cli: using default configuration: %v", err)
	}
	return cfg, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package filecommands implements the new, open, save and export commands.
//
// Each command runs as a Task that drives one or more dialogs and then hands
// a request to Operations. FileCommands holds at most one active task; it
// clears its slot before telling observers a task finished, so a finishing
// task is never referenced again.
//
// Everything in this package runs on the UI goroutine.
package filecommands

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/browser"
	"github.com/gobby/gobby-sub002/internal/dialog"
	"github.com/gobby/gobby-sub002/internal/docinfo"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/operations"
)

// ErrCommandUnavailable is returned when a command is started while it is
// not enabled.
var ErrCommandUnavailable = errors.New("command not available")

// Command identifies a file command.
type Command int

const (
	CommandNew Command = iota
	CommandOpen
	CommandOpenLocation
	CommandSave
	CommandSaveAs
	CommandSaveAll
	CommandExportHTML
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandNew:
		return "new"
	case CommandOpen:
		return "open"
	case CommandOpenLocation:
		return "open-location"
	case CommandSave:
		return "save"
	case CommandSaveAs:
		return "save-as"
	case CommandSaveAll:
		return "save-all"
	case CommandExportHTML:
		return "export-html"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Sensitivity tells which commands can currently be started.
type Sensitivity struct {
	New          bool
	Open         bool
	OpenLocation bool
	Save         bool
	SaveAs       bool
	SaveAll      bool
	ExportHTML   bool
}

// Enabled reports whether cmd can be started.
func (s Sensitivity) Enabled(cmd Command) bool {
	switch cmd {
	case CommandNew:
		return s.New
	case CommandOpen:
		return s.Open
	case CommandOpenLocation:
		return s.OpenLocation
	case CommandSave:
		return s.Save
	case CommandSaveAs:
		return s.SaveAs
	case CommandSaveAll:
		return s.SaveAll
	case CommandExportHTML:
		return s.ExportHTML
	default:
		return false
	}
}

// Config wires FileCommands to its collaborators. All fields except Status
// and InitialFolder are required.
type Config struct {
	Folder     *document.Folder
	Browser    browser.Browser
	Operations operations.Operations
	Store      docinfo.Store
	Dialogs    dialog.Factory
	Status     operations.StatusReporter

	// InitialFolder is where file choosers open until a file was chosen.
	InitialFolder string
}

// FileCommands starts file command tasks and owns the active one.
type FileCommands struct {
	folder  *document.Folder
	browser browser.Browser
	ops     operations.Operations
	store   docinfo.Store
	dialogs dialog.Factory
	status  operations.StatusReporter

	lastFolder string

	task      Task
	command   Command
	observers []func(Command)
}

// New creates FileCommands.
func New(cfg Config) *FileCommands {
	if cfg.Folder == nil || cfg.Browser == nil || cfg.Operations == nil || cfg.Store == nil || cfg.Dialogs == nil {
		panic("filecommands: incomplete config")
	}
	status := cfg.Status
	if status == nil {
		status = operations.LogStatus{}
	}
	return &FileCommands{
		folder:     cfg.Folder,
		browser:    cfg.Browser,
		ops:        cfg.Operations,
		store:      cfg.Store,
		dialogs:    cfg.Dialogs,
		status:     status,
		lastFolder: cfg.InitialFolder,
	}
}

// =============================================================================
// STATE
// =============================================================================

// Active reports whether a task is running.
func (c *FileCommands) Active() bool {
	return c.task != nil
}

// ActiveCommand returns the command of the running task.
func (c *FileCommands) ActiveCommand() (Command, bool) {
	return c.command, c.task != nil
}

// LastFolder returns the folder file choosers open in.
func (c *FileCommands) LastFolder() string {
	return c.lastFolder
}

// OnTaskFinished registers fn to run after a task finished. The task is no
// longer active when fn runs, so fn may start another command.
func (c *FileCommands) OnTaskFinished(fn func(Command)) {
	c.observers = append(c.observers, fn)
}

// Sensitivity computes which commands are enabled.
func (c *FileCommands) Sensitivity() Sensitivity {
	haveLocation := len(browser.WritableLocations(c.browser)) > 0
	current := c.folder.Current()
	currentOK := current != nil && current.Kind().SupportsFileOps()

	anyOK := false
	for _, doc := range c.folder.Documents() {
		if doc.Kind().SupportsFileOps() {
			anyOK = true
			break
		}
	}

	return Sensitivity{
		New:          haveLocation,
		Open:         haveLocation,
		OpenLocation: haveLocation,
		Save:         currentOK,
		SaveAs:       currentOK,
		SaveAll:      anyOK,
		ExportHTML:   currentOK,
	}
}

// Close aborts the running task, if any.
func (c *FileCommands) Close() {
	if c.task == nil {
		return
	}
	t := c.task
	c.task = nil
	glog.V(1).Infof("filecommands: aborting %s", c.command)
	t.Abort()
}

// =============================================================================
// COMMANDS
// =============================================================================

// New asks for a name and location and creates a document there.
func (c *FileCommands) New() error {
	return c.start(CommandNew, func(done func()) Task {
		return newNewTask(c, done)
	})
}

// Open asks for a local file and opens it.
func (c *FileCommands) Open() error {
	return c.start(CommandOpen, func(done func()) Task {
		return newOpenFileTask(c, done)
	})
}

// OpenLocation asks for a URI and opens it.
func (c *FileCommands) OpenLocation() error {
	return c.start(CommandOpenLocation, func(done func()) Task {
		return newOpenLocationTask(c, done)
	})
}

// Save saves the current document, asking for a location if it has none.
func (c *FileCommands) Save() error {
	doc := c.folder.Current()
	return c.start(CommandSave, func(done func()) Task {
		return newSaveTask(c, doc, false, done)
	})
}

// SaveAs asks for a location and saves the current document there.
func (c *FileCommands) SaveAs() error {
	doc := c.folder.Current()
	return c.start(CommandSaveAs, func(done func()) Task {
		return newSaveTask(c, doc, true, done)
	})
}

// SaveAll saves every open document that supports it.
func (c *FileCommands) SaveAll() error {
	return c.start(CommandSaveAll, func(done func()) Task {
		return newSaveAllTask(c, done)
	})
}

// ExportHTML asks for a location and exports the current document as HTML.
func (c *FileCommands) ExportHTML() error {
	doc := c.folder.Current()
	return c.start(CommandExportHTML, func(done func()) Task {
		return newExportHTMLTask(c, doc, done)
	})
}

// start replaces the active task with a new one and runs it.
func (c *FileCommands) start(cmd Command, build func(done func()) Task) error {
	if !c.Sensitivity().Enabled(cmd) {
		return fmt.Errorf("%w: %s", ErrCommandUnavailable, cmd)
	}

	c.Close()

	var task Task
	task = build(func() { c.taskFinished(task, cmd) })
	c.task = task
	c.command = cmd

	glog.V(1).Infof("filecommands: running %s", cmd)
	task.Run()
	return nil
}

// taskFinished releases the task slot before anyone is notified.
func (c *FileCommands) taskFinished(task Task, cmd Command) {
	if c.task == task {
		c.task = nil
	}
	glog.V(1).Infof("filecommands: %s finished", cmd)

	observers := slices.Clone(c.observers)
	for _, fn := range observers {
		fn(cmd)
	}
}

// rememberFolder makes the folder of path the starting point of the next
// file chooser.
func (c *FileCommands) rememberFolder(path string) {
	c.lastFolder = filepath.Dir(path)
}

// chooserFolder returns the folder a chooser for doc should open in: the
// folder doc was saved to, else the last used folder.
func (c *FileCommands) chooserFolder(doc *document.Document) string {
	if doc != nil {
		if info, ok := c.store.Get(doc.Key()); ok && info.URI != "" {
			if path, err := operations.LocalPath(info.URI); err == nil {
				return filepath.Dir(path)
			}
		}
	}
	return c.lastFolder
}

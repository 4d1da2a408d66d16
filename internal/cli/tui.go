// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	goflag "flag"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/config"
	"github.com/gobby/gobby-sub002/internal/filecommands"
	"github.com/gobby/gobby-sub002/internal/ui"
	"github.com/gobby/gobby-sub002/internal/ui/styles"
)

// =============================================================================
// TERMINAL WINDOW
// =============================================================================

// RunTUI starts the window and blocks until it quits.
func RunTUI(cfg *config.Config, args Args) error {
	if err := RequiresTTY("start the editor"); err != nil {
		return err
	}
	// Log output on stderr would draw over the window.
	if f := goflag.Lookup("stderrthreshold"); f != nil {
		_ = f.Value.Set("FATAL")
	}

	theme := styles.NewThemeNamed(cfg.UI.Theme)
	dialogs := ui.NewDialogs(theme)
	status := ui.NewStatusBar(theme)

	// The program needs the model and the model needs the core, so posts go
	// through a dispatcher that is bound once the program exists. Nothing
	// posts before the program runs.
	var dispatcher *async.ProgramDispatcher
	post := async.DispatcherFunc(func(fn func()) { dispatcher.Post(fn) })

	app, err := NewApp(cfg, post, nil, status)
	if err != nil {
		return err
	}

	commands := filecommands.New(filecommands.Config{
		Folder:        app.Folder,
		Browser:       app.Browser,
		Operations:    app.Ops,
		Store:         app.Store,
		Dialogs:       dialogs,
		Status:        status,
		InitialFolder: cfg.Editor.StartFolder,
	})

	model := ui.New(ui.Config{
		Folder:     app.Folder,
		Commands:   commands,
		Dialogs:    dialogs,
		Status:     status,
		Theme:      theme,
		Pending:    app.Ops.Pending,
		TitleWidth: cfg.UI.TitleWidth,
		TabWidth:   cfg.Editor.TabWidth,
		ShowHelp:   cfg.UI.ShowHelp,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	dispatcher = async.NewProgramDispatcher(program)

	if len(args.Positional) > 0 {
		files := make([]string, 0, len(args.Positional))
		for _, f := range args.Positional {
			abs, err := filepath.Abs(f)
			if err != nil {
				return NewCommandError("editor", "open", f, err)
			}
			files = append(files, abs)
		}
		dispatcher.Post(func() {
			for _, f := range files {
				app.Ops.OpenFile(f)
			}
		})
	}

	if path, err := configPath(args); err == nil {
		watcher, err := config.Watch(path, config.DefaultDebounce, func(c *config.Config, err error) {
			program.Send(ui.ConfigReloadedMsg{Config: c, Err: err})
		})
		if err != nil {
			glog.Warningf("cli: not watching %s: %v", path, err)
		} else {
			defer watcher.Close()
		}
	}

	_, runErr := program.Run()

	// Closing the core posts nothing; the program is gone by now.
	commands.Close()
	if err := app.Close(); err != nil {
		glog.Warningf("cli: closing: %v", err)
	}
	if runErr != nil {
		return fmt.Errorf("editor: %w", runErr)
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package ui is the terminal window of gobby.

Model is the root bubbletea model. Its Update loop is the UI goroutine of the
application: async completions posted through async.ProgramDispatcher arrive
as async.IdleMsg and run there, so documents, the folder and file commands
are only ever touched from Update.

# Components

  - Dialogs: hosts one modal dialog at a time and implements dialog.Factory
    with textinput-based file chooser, location entry and new-document dialogs
  - StatusBar: implements operations.StatusReporter, shows the running
    command and a spinner while operations are pending
  - KeyMap: bubbles key bindings; file command bindings follow
    filecommands.Sensitivity and disabled ones drop out of the help line
  - help overlay: markdown rendered by glamour

# Wiring

Dialogs and StatusBar are created first because file commands need them:

	theme := styles.NewThemeNamed(cfg.UI.Theme)
	dialogs := ui.NewDialogs(theme)
	status := ui.NewStatusBar(theme)
	cmds := filecommands.New(filecommands.Config{Dialogs: dialogs, Status: status, ...})
	model := ui.New(ui.Config{Commands: cmds, Dialogs: dialogs, Status: status, ...})
*/
package ui

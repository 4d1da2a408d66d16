// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	tea "github.com/charmbracelet/bubbletea"
)

// IdleMsg carries a posted callback into a bubbletea program. The root model
// must call Run when it receives one in Update.
type IdleMsg struct {
	fn func()
}

// Idle wraps fn as an IdleMsg.
func Idle(fn func()) IdleMsg {
	return IdleMsg{fn: fn}
}

// Run executes the posted callback.
func (m IdleMsg) Run() {
	if m.fn != nil {
		m.fn()
	}
}

// ProgramDispatcher makes a bubbletea program's Update loop the UI goroutine.
type ProgramDispatcher struct {
	program *tea.Program
}

// NewProgramDispatcher wraps p.
func NewProgramDispatcher(p *tea.Program) *ProgramDispatcher {
	return &ProgramDispatcher{program: p}
}

// Post sends fn to the program as an IdleMsg. Once the program has exited the
// message is dropped.
func (d *ProgramDispatcher) Post(fn func()) {
	go d.program.Send(Idle(fn))
}

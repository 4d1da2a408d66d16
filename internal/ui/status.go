// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/ui/styles"
	"github.com/gobby/gobby-sub002/internal/util"
)

// InfoTimeout is how long an info message stays in the status bar. Errors
// stay until replaced.
const InfoTimeout = 5 * time.Second

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar shows the last message of file operations, the running command
// and a spinner while async operations are pending. It implements
// operations.StatusReporter; call it on the UI goroutine only.
type StatusBar struct {
	theme *styles.Theme
	now   func() time.Time

	message string
	isError bool
	at      time.Time

	command string
	pending int
	frame   int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, now: time.Now}
}

// Info shows an informational message.
func (s *StatusBar) Info(msg string) {
	glog.Info(msg)
	s.set(msg, false)
}

// Error shows an error message.
func (s *StatusBar) Error(msg string) {
	glog.Error(msg)
	s.set(msg, true)
}

func (s *StatusBar) set(msg string, isError bool) {
	s.message = msg
	s.isError = isError
	s.at = s.now()
}

// Message returns the visible message and whether it is an error. Info
// messages expire after InfoTimeout.
func (s *StatusBar) Message() (string, bool) {
	if s.message == "" {
		return "", false
	}
	if !s.isError && s.now().Sub(s.at) > InfoTimeout {
		return "", false
	}
	return s.message, s.isError
}

// SetTheme switches the styles used by View.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetCommand records the running file command; empty when idle.
func (s *StatusBar) SetCommand(name string) {
	s.command = name
}

// SetPending records how many async operations are in flight.
func (s *StatusBar) SetPending(n int) {
	s.pending = n
}

// Tick advances the spinner.
func (s *StatusBar) Tick() {
	s.frame = (s.frame + 1) % len(styles.PendingSpinner)
}

// View renders the bar at the given width.
func (s *StatusBar) View(width int) string {
	t := s.theme

	var right []string
	if s.command != "" {
		right = append(right, t.StatusCommand.Render(s.command))
	}
	if s.pending > 0 {
		right = append(right, t.StatusPending.Render(styles.PendingSpinner[s.frame]+" "+pendingLabel(s.pending)))
	}
	rightText := strings.Join(right, "  ")

	inner := width - t.StatusBar.GetHorizontalPadding()
	if inner < 1 {
		inner = 1
	}
	room := inner - lipgloss.Width(rightText) - 1
	if room < 0 {
		room = 0
	}

	var left string
	if msg, isError := s.Message(); msg != "" {
		if isError {
			left = t.StatusError.Render(util.TruncateWidth(styles.StatusIndicators.Error+" "+msg, room))
		} else {
			left = t.StatusInfo.Render(util.TruncateWidth(styles.StatusIndicators.Info+" "+msg, room))
		}
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(rightText)
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + rightText)
}

func pendingLabel(n int) string {
	if n == 1 {
		return "1 operation"
	}
	return fmt.Sprintf("%d operations", n)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/config"
	"github.com/gobby/gobby-sub002/internal/document"
	"github.com/gobby/gobby-sub002/internal/filecommands"
	"github.com/gobby/gobby-sub002/internal/ui/styles"
	"github.com/gobby/gobby-sub002/internal/util"
)

// tickInterval drives the pending spinner and info message expiry.
const tickInterval = 200 * time.Millisecond

// =============================================================================
// MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a config reloaded from disk. A non-nil Err keeps
// the current settings and reports the error.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// MODEL
// =============================================================================

// Config wires the window to the application core. Folder, Commands,
// Dialogs and Status are required; Dialogs and Status must be the ones
// Commands was built with.
type Config struct {
	Folder   *document.Folder
	Commands *filecommands.FileCommands
	Dialogs  *Dialogs
	Status   *StatusBar
	Theme    *styles.Theme

	// Pending reports in-flight async operations. May be nil.
	Pending func() int

	// OnQuit runs on the UI goroutine before the program quits.
	OnQuit func()

	TitleWidth int
	TabWidth   int
	ShowHelp   bool
}

// Model is the root bubbletea model of the gobby window. Its Update loop is
// the UI goroutine: async completions arrive as async.IdleMsg.
type Model struct {
	folder   *document.Folder
	commands *filecommands.FileCommands
	dialogs  *Dialogs
	status   *StatusBar
	theme    *styles.Theme
	pending  func() int
	onQuit   func()

	keys KeyMap
	help help.Model

	width      int
	height     int
	titleWidth int
	tabWidth   int
	showKeys   bool
	helpOpen   bool
	quitting   bool
}

// New creates the window model.
func New(cfg Config) Model {
	if cfg.Folder == nil || cfg.Commands == nil || cfg.Dialogs == nil || cfg.Status == nil {
		panic("ui: New needs Folder, Commands, Dialogs and Status")
	}
	theme := cfg.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	if cfg.TitleWidth <= 0 {
		cfg.TitleWidth = 24
	}
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = 8
	}

	h := help.New()
	h.Styles.ShortKey = theme.KeyEnabled
	h.Styles.FullKey = theme.KeyEnabled

	return Model{
		folder:     cfg.Folder,
		commands:   cfg.Commands,
		dialogs:    cfg.Dialogs,
		status:     cfg.Status,
		theme:      theme,
		pending:    cfg.Pending,
		onQuit:     cfg.OnQuit,
		keys:       DefaultKeyMap(),
		help:       h,
		width:      80,
		height:     24,
		titleWidth: cfg.TitleWidth,
		tabWidth:   cfg.TabWidth,
		showKeys:   cfg.ShowHelp,
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case async.IdleMsg:
		msg.Run()
		m.syncStatus()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.status.Tick()
		m.syncStatus()
		if m.quitting {
			return m, nil
		}
		return m, tick()

	case ConfigReloadedMsg:
		return m.applyConfig(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.dialogs.Active() {
		cmd := m.dialogs.Update(msg)
		m.syncStatus()
		return m, cmd
	}

	if m.helpOpen {
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc {
			m.helpOpen = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.helpOpen = true
		return m, nil
	case key.Matches(msg, m.keys.NextDoc):
		m.cycleDocument(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevDoc):
		m.cycleDocument(-1)
		return m, nil
	case key.Matches(msg, m.keys.CloseDoc):
		if cur := m.folder.Current(); cur != nil {
			m.folder.Remove(cur)
		}
		return m, nil
	}

	for _, cmd := range commandOrder {
		b, _ := m.keys.Command(cmd)
		if key.Matches(msg, b) {
			m.runCommand(cmd)
			return m, nil
		}
	}
	return m, nil
}

// runCommand starts cmd, reporting why it could not start.
func (m Model) runCommand(cmd filecommands.Command) {
	var err error
	switch cmd {
	case filecommands.CommandNew:
		err = m.commands.New()
	case filecommands.CommandOpen:
		err = m.commands.Open()
	case filecommands.CommandOpenLocation:
		err = m.commands.OpenLocation()
	case filecommands.CommandSave:
		err = m.commands.Save()
	case filecommands.CommandSaveAs:
		err = m.commands.SaveAs()
	case filecommands.CommandSaveAll:
		err = m.commands.SaveAll()
	case filecommands.CommandExportHTML:
		err = m.commands.ExportHTML()
	}
	switch {
	case errors.Is(err, filecommands.ErrCommandUnavailable):
		m.status.Error(fmt.Sprintf("%s is not available", cmd))
	case err != nil:
		m.status.Error(err.Error())
	}
	m.syncStatus()
}

func (m Model) cycleDocument(step int) {
	docs := m.folder.Documents()
	if len(docs) == 0 {
		return
	}
	idx := 0
	cur := m.folder.Current()
	for i, d := range docs {
		if d == cur {
			idx = i
			break
		}
	}
	idx = (idx + step + len(docs)) % len(docs)
	m.folder.SetCurrent(docs[idx])
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.commands.Close()
	if m.onQuit != nil {
		m.onQuit()
	}
	return m, tea.Quit
}

// syncStatus copies command and pending state into the status bar.
func (m Model) syncStatus() {
	if cmd, ok := m.commands.ActiveCommand(); ok {
		m.status.SetCommand(cmd.String())
	} else {
		m.status.SetCommand("")
	}
	if m.pending != nil {
		m.status.SetPending(m.pending())
	}
}

func (m Model) applyConfig(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status.Error("config reload failed: " + msg.Err.Error())
		return m, nil
	}
	if msg.Config == nil {
		return m, nil
	}

	cfg := msg.Config
	if cfg.UI.Theme != m.theme.Name {
		m.theme = styles.NewThemeNamed(cfg.UI.Theme)
		m.theme.SetSize(m.width, m.height)
		m.dialogs.SetTheme(m.theme)
		m.status.SetTheme(m.theme)
		m.help.Styles.ShortKey = m.theme.KeyEnabled
		m.help.Styles.FullKey = m.theme.KeyEnabled
	}
	if cfg.UI.TitleWidth > 0 {
		m.titleWidth = cfg.UI.TitleWidth
	}
	if cfg.Editor.TabWidth > 0 {
		m.tabWidth = cfg.Editor.TabWidth
	}
	m.showKeys = cfg.UI.ShowHelp
	glog.V(1).Infof("ui: applied reloaded config (theme %s)", m.theme.Name)
	m.status.Info("configuration reloaded")
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the window.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sens := m.commands.Sensitivity()
	if m.helpOpen {
		return renderHelp(helpMarkdown(m.keys, sens), m.width, m.theme.IsDark)
	}

	tabs := m.renderTabs()
	status := m.status.View(m.width)

	var keys string
	if m.showKeys && m.theme.GetLayoutMode() != styles.LayoutNarrow {
		keys = m.help.ShortHelpView(m.keys.WithSensitivity(sens).ShortHelp())
	}

	bodyHeight := m.height - lipgloss.Height(tabs) - lipgloss.Height(status)
	if keys != "" {
		bodyHeight -= lipgloss.Height(keys)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if m.dialogs.Active() {
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.dialogs.View())
	} else {
		body = m.renderDocument(bodyHeight)
	}

	parts := []string{tabs, body, status}
	if keys != "" {
		parts = append(parts, keys)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTabs() string {
	docs := m.folder.Documents()
	if len(docs) == 0 {
		return m.theme.TabBar.Width(m.width).Render(m.theme.Tab.Render("gobby"))
	}

	cur := m.folder.Current()
	tabs := make([]string, 0, len(docs))
	for _, d := range docs {
		title := util.TruncateWidth(d.Title(), m.titleWidth)
		if d.Modified() {
			title = m.theme.TabModified.Render(styles.StatusIndicators.Modified) + title
		}
		if d == cur {
			tabs = append(tabs, m.theme.TabCurrent.Render(title))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(title))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.theme.TabBar.Width(m.width).MaxHeight(1).Render(row)
}

func (m Model) renderDocument(height int) string {
	cur := m.folder.Current()
	if cur == nil {
		return m.theme.DocumentEmpty.Width(m.width).Height(height).
			Render("No document open. Press " + m.keys.Open.Help().Key + " to open a file or " +
				m.keys.New.Help().Key + " to create one.")
	}
	if cur.Kind() == document.KindChat {
		return m.theme.DocumentEmpty.Width(m.width).Height(height).
			Render("Chat sessions are not shown in this window.")
	}

	inner := m.width - m.theme.Document.GetHorizontalPadding()
	tabs := strings.Repeat(" ", m.tabWidth)
	lines := strings.Split(cur.Content(), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = util.TruncateWidth(strings.ReplaceAll(line, "\t", tabs), inner)
	}
	return m.theme.Document.Width(m.width).Height(height).Render(strings.Join(lines, "\n"))
}

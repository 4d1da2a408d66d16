// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"

	"github.com/gobby/gobby-sub002/internal/filecommands"
)

// =============================================================================
// HELP OVERLAY
// =============================================================================

// helpMarkdown builds the help page. Commands that cannot start right now
// are marked unavailable.
func helpMarkdown(keys KeyMap, sens filecommands.Sensitivity) string {
	var sb strings.Builder
	sb.WriteString("# gobby\n\n")
	sb.WriteString("## File commands\n\n")
	sb.WriteString("| Key | Command | |\n|---|---|---|\n")
	for _, cmd := range commandOrder {
		b, _ := keys.Command(cmd)
		state := ""
		if !sens.Enabled(cmd) {
			state = "_unavailable_"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", b.Help().Key, b.Help().Desc, state)
	}

	sb.WriteString("\n## Window\n\n")
	sb.WriteString("| Key | Action |\n|---|---|\n")
	for _, b := range []key.Binding{keys.NextDoc, keys.PrevDoc, keys.CloseDoc, keys.Help, keys.Quit} {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", b.Help().Key, b.Help().Desc)
	}

	sb.WriteString("\n## Dialogs\n\n")
	sb.WriteString("`enter` accepts, `esc` cancels. Paths may start with `~`. ")
	sb.WriteString("Open Location takes `infinote://host[:port]/path` or a local file.\n")
	return sb.String()
}

// renderHelp renders markdown for the terminal. It falls back to the raw
// markdown when glamour fails.
func renderHelp(markdown string, width int, dark bool) string {
	if width <= 0 {
		width = 80
	}
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

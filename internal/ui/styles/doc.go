// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colors and lipgloss styles of the gobby window.

All colors are lipgloss AdaptiveColors. The theme forces the dark or light
variant when configured, otherwise termenv detects the terminal background.

	theme := styles.NewThemeNamed(cfg.UI.Theme)
	tab := theme.TabCurrent.Render("notes.txt")

# Layout

SetSize records the window size; GetLayoutMode buckets the width so narrow
terminals can drop the key hints from the status bar.
*/
package styles

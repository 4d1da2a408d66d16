// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the gobby command line and runs its commands.
//
// Without a subcommand gobby starts the terminal window and opens the files
// named on the command line. The headless subcommands drive the same async
// core through an async.Loop on the calling goroutine:
//
//	gobby keygen --out FILE --bits N
//	gobby resolve HOST [--service S]
//	gobby export-html IN OUT
//	gobby config show|path|init|get KEY|set KEY VALUE
package cli

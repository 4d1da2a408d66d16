// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for gobby.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: main configuration structure
//   - ExportConfig: HTML export highlighting
//   - SecurityConfig: private key location and size
//   - BrowserConfig: document locations for new documents
//   - Watcher: reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GOBBY_*)
//   - $XDG_CONFIG_HOME/gobby/config.toml (default ~/.config/gobby)
//   - $XDG_CONFIG_HOME/gobby/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    glog.Warningf("config: %v", err)
//	}
//	runner := async.NewRunnerWithLimit(d, cfg.Async.MaxWorkers)
package config

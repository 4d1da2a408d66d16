// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gobby/gobby-sub002/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func validateConfigArgs(pos []string) error {
	if len(pos) == 0 {
		return nil
	}
	switch pos[0] {
	case "show", "path", "init":
		if len(pos) != 1 {
			return NewUsageError("config %s takes no arguments", pos[0])
		}
	case "get":
		if len(pos) != 2 {
			return ErrMissingArgument("KEY", "gobby config get ui.theme")
		}
	case "set":
		if len(pos) != 3 {
			return ErrMissingArgument("KEY VALUE", "gobby config set ui.theme light")
		}
	default:
		return &UsageError{
			Reason:  fmt.Sprintf("unknown config subcommand %q", pos[0]),
			Example: "gobby config show",
		}
	}
	return nil
}

// configPath is the file config commands read and write.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// HandleConfig runs "config show|path|init|get|set". cfg is the loaded
// configuration; set and init work on the file itself.
func HandleConfig(cfg *config.Config, args Args, out io.Writer) error {
	sub := "show"
	if len(args.Positional) > 0 {
		sub = args.Positional[0]
	}

	switch sub {
	case "show":
		fmt.Fprintln(out, cfg.String())
		return nil

	case "path":
		path, err := configPath(args)
		if err != nil {
			return NewCommandError("config", "path", "no config directory", err)
		}
		fmt.Fprintln(out, path)
		return nil

	case "init":
		path, err := configPath(args)
		if err != nil {
			return NewCommandError("config", "init", "no config directory", err)
		}
		if _, err := os.Stat(path); err == nil && !args.Force {
			return &UsageError{Reason: path + " already exists", Example: "gobby config init --force"}
		}
		if err := saveConfigFile(config.Default(), path); err != nil {
			return NewCommandError("config", "init", path, err)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
		return nil

	case "get":
		value, err := cfg.Get(args.Positional[1])
		if err != nil {
			return &UsageError{Reason: err.Error(), Example: "keys: " + strings.Join(config.GetAllKeys(), ", ")}
		}
		fmt.Fprintln(out, value)
		return nil

	case "set":
		return setConfigValue(args, out)
	}
	return NewUsageError("unknown config subcommand %q", sub)
}

func setConfigValue(args Args, out io.Writer) error {
	key, value := args.Positional[1], args.Positional[2]
	path, err := configPath(args)
	if err != nil {
		return NewCommandError("config", "set", "no config directory", err)
	}

	// Edit the file's own values so defaults filled in at load time are not
	// written back.
	fileCfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		fileCfg, err = config.LoadFromPath(path)
		if err != nil {
			return NewCommandError("config", "set", path, err)
		}
	}
	if err := fileCfg.Set(key, value); err != nil {
		return &UsageError{Reason: err.Error(), Example: "gobby config set ui.theme light"}
	}
	if err := fileCfg.Validate(); err != nil {
		return fmt.Errorf("config set %s: %w", key, err)
	}
	if err := saveConfigFile(fileCfg, path); err != nil {
		return NewCommandError("config", "set", path, err)
	}
	fmt.Fprintf(out, "%s = %s\n", key, value)
	return nil
}

func saveConfigFile(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

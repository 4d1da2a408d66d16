// gobby - collaborative editor client.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

func run() int {
	defer glog.Flush()

	cmd, args, err := cli.Parse(os.Args[1:])
	if err != nil {
		cli.DisplayError(err)
		return cli.GetExitCode(err)
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return cli.ExitSuccess
	}

	cfg, err := cli.LoadConfig(args.ConfigPath)
	if err != nil {
		cli.DisplayError(err)
		return cli.GetExitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdKeygen:
		err = cli.HandleKeygen(ctx, cfg, args, os.Stdout)
	case cli.CmdResolve:
		err = cli.HandleResolve(ctx, cfg, args, nil, os.Stdout)
	case cli.CmdExportHTML:
		err = cli.HandleExportHTML(ctx, cfg, args, os.Stdout)
	case cli.CmdConfig:
		err = cli.HandleConfig(cfg, args, os.Stdout)
	default:
		err = cli.RunTUI(cfg, args)
	}

	if err != nil {
		cli.DisplayError(err)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	goflag "flag"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdKeygen
	CmdResolve
	CmdExportHTML
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the subcommand name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdKeygen:
		return "keygen"
	case CmdResolve:
		return "resolve"
	case CmdExportHTML:
		return "export-html"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

var subcommands = map[string]Command{
	"keygen":      CmdKeygen,
	"resolve":     CmdResolve,
	"export-html": CmdExportHTML,
	"config":      CmdConfig,
	"version":     CmdVersion,
	"help":        CmdHelp,
}

// Args holds parsed CLI arguments.
type Args struct {
	// ConfigPath overrides the config file location.
	ConfigPath string

	// Out is the output file of keygen.
	Out string

	// Bits is the key size of keygen; 0 uses the configured size.
	Bits int

	// Service is the SRV service of resolve; empty uses the configured one.
	Service string

	// Force lets config init overwrite an existing file.
	Force bool

	// Positional holds the arguments after the subcommand. For the TUI they
	// are the files to open.
	Positional []string
}

const usageText = `gobby - collaborative editor client

Usage:
  gobby [flags] [FILE...]              Start the editor, opening FILEs
  gobby keygen [--out FILE] [--bits N] Generate the host private key
  gobby resolve HOST [--service S]     Resolve a session host
  gobby export-html IN OUT             Export a text file as XHTML
  gobby config show                    Show the configuration
  gobby config path                    Show the config file location
  gobby config init [--force]          Write the default config file
  gobby config get KEY                 Show one setting (e.g. ui.theme)
  gobby config set KEY VALUE           Change one setting
  gobby version                        Show version information

Flags:
`

// newFlagSet builds the flag set. glog's flags (-v, --logtostderr, ...) are
// included from the standard flag set.
func newFlagSet(args *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet("gobby", pflag.ContinueOnError)
	fs.SetInterspersed(true)
	fs.StringVarP(&args.ConfigPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/gobby/config.toml)")
	fs.StringVarP(&args.Out, "out", "o", "", "keygen: output file (default: security.key_file)")
	fs.IntVar(&args.Bits, "bits", 0, "keygen: RSA key size (default: security.key_bits)")
	fs.StringVar(&args.Service, "service", "", "resolve: SRV service name (default: network.service)")
	fs.BoolVar(&args.Force, "force", false, "config init: overwrite an existing file")
	fs.BoolP("help", "h", false, "show help")
	fs.Bool("version", false, "show version")
	fs.AddGoFlagSet(goflag.CommandLine)
	fs.SortFlags = false
	return fs
}

// Parse parses argv (without the program name).
func Parse(argv []string) (Command, Args, error) {
	var args Args
	fs := newFlagSet(&args)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			return CmdHelp, args, nil
		}
		return CmdHelp, args, &UsageError{Reason: err.Error()}
	}
	if help, _ := fs.GetBool("help"); help {
		return CmdHelp, args, nil
	}
	if version, _ := fs.GetBool("version"); version {
		return CmdVersion, args, nil
	}

	rest := fs.Args()
	cmd := CmdTUI
	if len(rest) > 0 {
		if sub, ok := subcommands[rest[0]]; ok {
			cmd = sub
			rest = rest[1:]
		}
	}
	args.Positional = rest

	if err := validate(cmd, args); err != nil {
		return cmd, args, err
	}
	return cmd, args, nil
}

func validate(cmd Command, args Args) error {
	switch cmd {
	case CmdResolve:
		if len(args.Positional) != 1 {
			return ErrMissingArgument("HOST", "gobby resolve example.org")
		}
	case CmdExportHTML:
		if len(args.Positional) != 2 {
			return ErrMissingArgument("IN and OUT", "gobby export-html notes.txt notes.xhtml")
		}
	case CmdKeygen:
		if len(args.Positional) > 0 {
			return NewUsageError("keygen takes no arguments, got %q", args.Positional[0])
		}
	case CmdConfig:
		return validateConfigArgs(args.Positional)
	}
	return nil
}

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	var args Args
	fs := newFlagSet(&args)
	fmt.Fprint(w, usageText)
	fmt.Fprint(w, fs.FlagUsages())
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "gobby %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

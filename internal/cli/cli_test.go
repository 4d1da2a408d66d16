// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/config"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no arguments starts the editor",
			argv:    nil,
			wantCmd: CmdTUI,
		},
		{
			name:    "files open in the editor",
			argv:    []string{"a.txt", "b.go"},
			wantCmd: CmdTUI,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, []string{"a.txt", "b.go"}, a.Positional)
			},
		},
		{
			name:    "keygen with flags",
			argv:    []string{"keygen", "--out", "/tmp/key.pem", "--bits", "1024"},
			wantCmd: CmdKeygen,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/tmp/key.pem", a.Out)
				assert.Equal(t, 1024, a.Bits)
			},
		},
		{
			name:    "flags before subcommand",
			argv:    []string{"-c", "/etc/gobby.toml", "resolve", "example.org", "--service=gobby"},
			wantCmd: CmdResolve,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/etc/gobby.toml", a.ConfigPath)
				assert.Equal(t, "gobby", a.Service)
				assert.Equal(t, []string{"example.org"}, a.Positional)
			},
		},
		{
			name:    "export-html",
			argv:    []string{"export-html", "in.txt", "out.xhtml"},
			wantCmd: CmdExportHTML,
		},
		{
			name:    "config set",
			argv:    []string{"config", "set", "ui.theme", "light"},
			wantCmd: CmdConfig,
		},
		{
			name:    "help flag",
			argv:    []string{"--help"},
			wantCmd: CmdHelp,
		},
		{
			name:    "version flag",
			argv:    []string{"--version"},
			wantCmd: CmdVersion,
		},
		{
			name:    "glog verbosity",
			argv:    []string{"-v", "2", "version"},
			wantCmd: CmdVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown flag", []string{"--frobnicate"}},
		{"resolve without host", []string{"resolve"}},
		{"export-html with one file", []string{"export-html", "in.txt"}},
		{"keygen with argument", []string{"keygen", "extra"}},
		{"config unknown", []string{"config", "frob"}},
		{"config get without key", []string{"config", "get"}},
		{"config set without value", []string{"config", "set", "ui.theme"}},
		{"bits not a number", []string{"keygen", "--bits", "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.argv)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, GetExitCode(err))
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "export-html", CmdExportHTML.String())
	assert.Equal(t, "command(42)", Command(42).String())
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "gobby keygen")
	assert.Contains(t, buf.String(), "--config")
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", NewUsageError("bad"), ExitUsageError},
		{"config", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"missing file", NewCommandError("export-html", "open", "x", os.ErrNotExist), ExitNotFoundError},
		{"no addresses", NewCommandError("resolve", "lookup", "x", async.ErrNoAddresses), ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestCommandError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewCommandError("keygen", "write", "/tmp/key.pem", inner)
	assert.Equal(t, "keygen write failed: /tmp/key.pem: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
}

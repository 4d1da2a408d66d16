// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"github.com/gobby/gobby-sub002/internal/async"
	"github.com/gobby/gobby-sub002/internal/certs"
	"github.com/gobby/gobby-sub002/internal/config"
	"github.com/gobby/gobby-sub002/internal/docinfo"
)

// =============================================================================
// HEADLESS PLUMBING
// =============================================================================

// collectStatus prints info messages and keeps errors for the exit status.
type collectStatus struct {
	out    io.Writer
	errors []string
}

func (s *collectStatus) Info(msg string) {
	glog.Info(msg)
	fmt.Fprintln(s.out, msg)
}

func (s *collectStatus) Error(msg string) {
	glog.Error(msg)
	s.errors = append(s.errors, msg)
}

func (s *collectStatus) err() error {
	if len(s.errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(s.errors, "; "))
}

// drain runs loop callbacks until busy reports false.
func drain(ctx context.Context, loop *async.Loop, busy func() bool) error {
	for busy() {
		if err := loop.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// KEYGEN
// =============================================================================

// HandleKeygen generates the host private key and writes it as PEM.
func HandleKeygen(ctx context.Context, cfg *config.Config, args Args, out io.Writer) error {
	bits := args.Bits
	if bits == 0 {
		bits = cfg.Security.KeyBits
	}
	path := args.Out
	if path == "" {
		path = cfg.Security.KeyFile
	}

	loop := async.NewLoop()
	runner := async.NewRunner(loop)
	defer runner.Close()

	var (
		key    *rsa.PrivateKey
		genErr error
		done   bool
	)
	fmt.Fprintf(out, "Generating %d-bit RSA key...\n", bits)
	h := runner.Start(async.NewKeyGeneration(bits, func(_ *async.Handle, k *rsa.PrivateKey, err error) {
		key, genErr, done = k, err, true
	}))
	if err := drain(ctx, loop, func() bool { return !done }); err != nil {
		h.Cancel()
		return NewCommandError("keygen", "generate", "interrupted", err)
	}
	if genErr != nil {
		return NewCommandError("keygen", "generate", fmt.Sprintf("%d-bit key", bits), genErr)
	}

	if err := certs.SaveKeyFile(path, key); err != nil {
		return NewCommandError("keygen", "write", path, err)
	}
	fp, err := certs.Fingerprint(&key.PublicKey)
	if err != nil {
		return NewCommandError("keygen", "fingerprint", path, err)
	}
	fmt.Fprintf(out, "Wrote %s\nFingerprint: %s\n", path, fp)
	return nil
}

// =============================================================================
// RESOLVE
// =============================================================================

// HandleResolve looks up a session host and prints its addresses. A nil
// resolver uses the system one.
func HandleResolve(ctx context.Context, cfg *config.Config, args Args, resolver async.Resolver, out io.Writer) error {
	host := args.Positional[0]
	service := args.Service
	if service == "" {
		service = cfg.Network.Service
	}

	loop := async.NewLoop()
	runner := async.NewRunner(loop)
	defer runner.Close()

	var (
		addrs   []async.Address
		lookErr error
		done    bool
	)
	h := runner.Start(async.NewResolve(resolver, host, service, func(_ *async.Handle, a []async.Address, err error) {
		addrs, lookErr, done = a, err, true
	}))
	if err := drain(ctx, loop, func() bool { return !done }); err != nil {
		h.Cancel()
		return NewCommandError("resolve", "lookup", host, err)
	}
	if lookErr != nil {
		return NewCommandError("resolve", "lookup", host, lookErr)
	}

	for _, a := range addrs {
		fmt.Fprintf(out, "%s\t%s\n", a, a.Host)
	}
	return nil
}

// =============================================================================
// EXPORT-HTML
// =============================================================================

// HandleExportHTML opens a text file and exports it as XHTML, using the same
// operations the window uses.
func HandleExportHTML(ctx context.Context, cfg *config.Config, args Args, out io.Writer) error {
	in, err := filepath.Abs(args.Positional[0])
	if err != nil {
		return NewCommandError("export-html", "open", args.Positional[0], err)
	}
	dest, err := filepath.Abs(args.Positional[1])
	if err != nil {
		return NewCommandError("export-html", "write", args.Positional[1], err)
	}

	loop := async.NewLoop()
	status := &collectStatus{out: out}
	app, err := NewApp(cfg, loop, docinfo.NewMemoryStore(), status)
	if err != nil {
		return err
	}
	defer app.Close()

	busy := func() bool { return app.Ops.Pending() > 0 }

	app.Ops.OpenFile(in)
	if err := drain(ctx, loop, busy); err != nil {
		return NewCommandError("export-html", "open", in, err)
	}
	if err := status.err(); err != nil {
		return NewCommandError("export-html", "open", in, err)
	}
	doc := app.Folder.Current()
	if doc == nil {
		return NewCommandError("export-html", "open", in, errors.New("no document loaded"))
	}

	app.Ops.ExportHTML(doc, dest)
	if err := drain(ctx, loop, busy); err != nil {
		return NewCommandError("export-html", "write", dest, err)
	}
	if err := status.err(); err != nil {
		return NewCommandError("export-html", "write", dest, err)
	}
	return nil
}

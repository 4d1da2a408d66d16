// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package async runs blocking work off the UI goroutine and hands results back
// to it.
//
// The UI of gobby is single-threaded: every piece of document, dialog and
// folder state is owned by one event-loop goroutine (the bubbletea Update loop
// in the TUI, or a Loop in headless mode). Blocking calls such as private key
// generation and DNS resolution are wrapped in an Operation and started on a
// Runner. The operation's Run method executes on its own worker goroutine;
// when it returns, the Runner posts a completion callback through the
// Dispatcher and Finish is invoked on the UI goroutine.
//
// # Key Types
//
//   - Operation: unit of background work (Run on the worker, Finish on the UI goroutine)
//   - Handle: caller-held cancellation capability for one started operation
//   - Runner: starts operations, optionally bounding concurrent workers
//   - Dispatcher: posts callbacks onto the UI goroutine (Loop, ProgramDispatcher)
//   - Job: generic Operation carrying a single (value, error) result
//
// # Cancellation
//
// Cancel only suppresses result delivery. A cancelled operation's worker runs
// to completion and its result is discarded on the UI goroutine.
//
// # Usage
//
//	loop := async.NewLoop()
//	runner := async.NewRunner(loop)
//	h := runner.Start(async.NewKeyGeneration(2048, func(h *async.Handle, key *rsa.PrivateKey, err error) {
//	    // runs on the loop goroutine
//	}))
//	defer h.Release()
//	loop.Run(ctx)
package async

// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package x9 is a high-performance, in-process, lock-free message passing
// library built on fixed-capacity ring buffers ("inboxes") that transport
// fixed-size opaque payloads between concurrent goroutines, without
// involving the OS scheduler on the fast path.
//
// # Thread-Safety Guarantees
//
// An [Inbox] supports three access disciplines, chosen per caller:
//   - [Inbox.TryWrite] / [Inbox.SpinWrite]: any number of concurrent
//     writers (multi-producer safe).
//   - [Inbox.TryRead] / [Inbox.SpinRead]: exactly one reading goroutine at a
//     time (single-consumer contract — see the method docs).
//   - [Inbox.TryReadShared] / [Inbox.SpinReadShared]: any number of
//     concurrent readers (multi-consumer safe), serialized per slot by the
//     slot's "shared" flag.
//
// Violating the single-reader contract of TryRead/SpinRead (calling it
// concurrently with itself on the same inbox) is undefined behavior: there
// is no claim step on the read side before the cursor is sampled, so two
// readers can race to the same slot. Use the shared-read variants whenever
// more than one goroutine reads from an inbox.
//
// # Performance characteristics
//
//   - Wait-free set-of-writers progress for SpinWrite / SpinReadShared:
//     distinct spinning callers land on distinct slots because the cursor
//     is incremented before the slot is computed.
//   - Try* operations are non-blocking and allocation-free.
//   - Spin* operations busy-wait with runtime.Gosched() as a scheduler-yield
//     hint; they never park in the kernel and cannot be cancelled. Callers
//     needing cancellability must use Try* with their own deadline loop.
//   - All slot mutation is lock-free, via atomics only. Allocation happens
//     once, at [NewInbox]; the fast path never allocates.
//
// # Usage example
//
//	ibx, err := x9.NewInbox(4, "ibx", 8)
//	if err != nil {
//	    panic(err)
//	}
//
//	go func() {
//	    var msg [8]byte
//	    ibx.SpinWrite(msg[:])
//	}()
//
//	var out [8]byte
//	ibx.SpinRead(out[:])
package x9

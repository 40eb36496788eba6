// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package x9

import "unsafe"

// Mailbox is a generically typed wrapper over the byte-oriented Inbox
// core: it fixes the payload type T at creation time, performs the
// msgSz-from-T size computation exactly once, and removes the
// len(msg) == MessageSize() foot-gun that the untyped Inbox API leaves as
// a documented-but-undiagnosed programmer error.
//
// T must be a fixed-size, flat value type — a struct of plain numeric
// fields and arrays, for instance. Reads and writes move T's raw bytes
// through the inbox; any pointer, slice, map, string, interface, or
// channel field is copied shallow (the pointer/header bytes only), not
// deep, same as a C struct containing a pointer would be. This is the
// price of remaining a zero-copy, allocation-free transport for arbitrary
// T, hidden behind a generic signature instead of an explicit msgSz
// parameter.
type Mailbox[T any] struct {
	inbox *Inbox
}

// NewMailbox creates a Mailbox with room for capacity values of type T,
// identified by name. capacity must be a positive power of two (see
// NewInbox).
func NewMailbox[T any](capacity uint64, name string) (*Mailbox[T], error) {
	var zero T
	ib, err := NewInbox(capacity, name, uint64(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return &Mailbox[T]{inbox: ib}, nil
}

// Valid reports whether mailbox is a non-nil, constructed Mailbox.
func (m *Mailbox[T]) Valid() bool { return m != nil && m.inbox.Valid() }

// NameIs reports whether mailbox's name equals cmp.
func (m *Mailbox[T]) NameIs(cmp string) bool { return m != nil && m.inbox.NameIs(cmp) }

// Capacity returns the slot count the mailbox was created with.
func (m *Mailbox[T]) Capacity() uint64 { return m.inbox.Capacity() }

// Inbox returns the untyped Inbox backing mailbox, for interop with Node.
func (m *Mailbox[T]) Inbox() *Inbox { return m.inbox }

// Close releases mailbox's resources; see Inbox.Close.
func (m *Mailbox[T]) Close() { m.inbox.Close() }

func asBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// TryWrite attempts to publish msg without blocking; see Inbox.TryWrite.
func (m *Mailbox[T]) TryWrite(msg T) bool {
	return m.inbox.TryWrite(asBytes(&msg))
}

// SpinWrite publishes msg, busy-waiting until a slot is free; see
// Inbox.SpinWrite.
func (m *Mailbox[T]) SpinWrite(msg T) {
	m.inbox.SpinWrite(asBytes(&msg))
}

// TryRead attempts a single-reader, non-blocking read; see Inbox.TryRead.
func (m *Mailbox[T]) TryRead() (T, bool) {
	var out T
	ok := m.inbox.TryRead(asBytes(&out))
	return out, ok
}

// SpinRead performs a single-reader, busy-waiting read; see Inbox.SpinRead.
func (m *Mailbox[T]) SpinRead() T {
	var out T
	m.inbox.SpinRead(asBytes(&out))
	return out
}

// TryReadShared attempts a multi-reader, non-blocking read; see
// Inbox.TryReadShared.
func (m *Mailbox[T]) TryReadShared() (T, bool) {
	var out T
	ok := m.inbox.TryReadShared(asBytes(&out))
	return out, ok
}

// SpinReadShared performs a multi-reader, busy-waiting read; see
// Inbox.SpinReadShared.
func (m *Mailbox[T]) SpinReadShared() T {
	var out T
	m.inbox.SpinReadShared(asBytes(&out))
	return out
}

// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package x9

import (
	"runtime"
	"sync/atomic"
)

// Inbox is a fixed-capacity, multi-producer/multi-consumer ring buffer of
// fixed-size opaque payloads. It is the primary transport primitive of
// package x9.
//
// readCursor and writeCursor are independent monotonic counters, each
// cache-line padded so producer-side and consumer-side contention never
// cause false sharing between the two. Neither counter is ever read back
// to determine fullness/emptiness on its own — the slot header flags are
// authoritative: the counter difference may be transiently inconsistent
// under concurrent updates, but no reader ever drains a slot a writer
// hasn't published, and no writer ever overwrites a slot a reader hasn't
// vacated.
type Inbox struct {
	readCursor atomic.Uint64
	_          [cacheLinePad - 8]byte

	writeCursor atomic.Uint64
	_           [cacheLinePad - 8]byte

	capacity   uint64
	msgSz      uint64
	reciprocal uint64
	headers    []slotHeader
	payload    []byte
	name       string
}

// NewInbox creates an Inbox with room for capacity messages of msgSz bytes
// each, identified by name (usable later via NameIs or as a lookup key in
// a Node).
//
// capacity must be a positive power of two. The reference C library only
// requires "positive and even"; this port tightens that to power-of-two,
// a compatible restriction (1 is accepted, as the power of two 2⁰).
func NewInbox(capacity uint64, name string, msgSz uint64) (*Inbox, error) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		return nil, logConstructionError("INBOX_INCORRECT_SIZE", ErrInvalidCapacity)
	}
	if msgSz == 0 {
		return nil, logConstructionError("INBOX_INCORRECT_MSG_SIZE", ErrInvalidMessageSize)
	}

	return &Inbox{
		capacity:   capacity,
		msgSz:      msgSz,
		reciprocal: reciprocalFor(capacity),
		headers:    make([]slotHeader, capacity),
		payload:    make([]byte, capacity*msgSz),
		name:       name,
	}, nil
}

// Valid reports whether inbox is a non-nil, constructed Inbox. Callers
// should check this after NewInbox and after SelectByName.
func (ib *Inbox) Valid() bool { return ib != nil }

// NameIs reports whether inbox's name equals cmp.
func (ib *Inbox) NameIs(cmp string) bool { return ib != nil && ib.name == cmp }

// Capacity returns the slot count the inbox was created with.
func (ib *Inbox) Capacity() uint64 { return ib.capacity }

// MessageSize returns the payload size in bytes the inbox was created
// with. Every call to a read/write method must pass a slice of exactly
// this length; a mismatch is a programmer error and is not diagnosed at
// runtime.
func (ib *Inbox) MessageSize() uint64 { return ib.msgSz }

// Close releases inbox's resources. Go's garbage collector reclaims the
// backing storage once the Inbox is unreferenced regardless of whether
// Close is called; Close exists for API symmetry with the reference
// library's free_inbox and as an explicit lifecycle marker. Using inbox
// after Close is undefined behavior, exactly as using it after the
// reference library's free_inbox would be — this library does not detect
// use-after-free.
func (ib *Inbox) Close() {}

func (ib *Inbox) slot(idx uint64) []byte {
	start := idx * ib.msgSz
	return ib.payload[start : start+ib.msgSz]
}

// TryWrite attempts to claim the slot at the current write cursor and
// publish msg into it. It never blocks: if the slot is currently full (a
// prior writer claimed it and no reader has vacated it yet), TryWrite
// returns false immediately without advancing any cursor, and the caller
// may retry with its own policy.
//
// len(msg) must equal ib.MessageSize(). TryWrite is safe to call
// concurrently with itself, with SpinWrite, and with any read variant.
func (ib *Inbox) TryWrite(msg []byte) bool {
	idx := loadIndex(&ib.writeCursor, ib.reciprocal, ib.capacity)
	header := &ib.headers[idx]

	if !header.hasData.CompareAndSwap(false, true) {
		return false
	}
	copy(ib.slot(idx), msg)
	header.written.Store(true)
	ib.writeCursor.Add(1)
	return true
}

// SpinWrite publishes msg into the inbox, busy-waiting until a slot is
// free. It never returns without completing the write and never parks in
// the kernel.
//
// Unlike TryWrite, SpinWrite advances the write cursor before computing
// its candidate slot on every attempt, so distinct concurrently-spinning
// writers distribute themselves across the ring instead of contending for
// one slot — wait-free progress for the set of writers, though any one
// writer can still be delayed by a slow reader on the specific slot it
// claimed.
//
// len(msg) must equal ib.MessageSize(). SpinWrite is safe to call
// concurrently with itself, with TryWrite, and with any read variant.
func (ib *Inbox) SpinWrite(msg []byte) {
	for {
		idx := incrementIndex(&ib.writeCursor, ib.reciprocal, ib.capacity)
		header := &ib.headers[idx]
		if header.hasData.CompareAndSwap(false, true) {
			copy(ib.slot(idx), msg)
			header.written.Store(true)
			return
		}
		runtime.Gosched()
	}
}

// TryRead attempts to read the next message at the current read cursor
// into out, without blocking.
//
// TryRead has a single-reader contract: it must not be called
// concurrently with itself (or with SpinRead) on the same inbox, because
// there is no claim step before the read cursor is sampled — two
// concurrent callers could both observe the same slot and both believe
// they've consumed it. Use TryReadShared/SpinReadShared when more than one
// goroutine reads from an inbox.
func (ib *Inbox) TryRead(out []byte) bool {
	idx := loadIndex(&ib.readCursor, ib.reciprocal, ib.capacity)
	header := &ib.headers[idx]

	if !header.hasData.Load() {
		return false
	}
	if !header.written.Load() {
		return false
	}
	copy(out, ib.slot(idx))
	header.written.Store(false)
	header.hasData.Store(false)
	ib.readCursor.Add(1)
	return true
}

// SpinRead reads the next message into out, busy-waiting until the writer
// that owns the reserved slot has published.
//
// SpinRead shares TryRead's single-reader contract. Messages written by a
// single writer and read by a single SpinRead/TryRead caller come out in
// write order, because both the read and write cursors are monotonic and
// only one side ever advances the read cursor.
func (ib *Inbox) SpinRead(out []byte) {
	idx := incrementIndex(&ib.readCursor, ib.reciprocal, ib.capacity)
	header := &ib.headers[idx]

	for {
		if header.hasData.Load() && header.written.Load() {
			copy(out, ib.slot(idx))
			header.written.Store(false)
			header.hasData.Store(false)
			return
		}
		runtime.Gosched()
	}
}

// TryReadShared attempts a non-blocking read, safe to call from any number
// of concurrent reading goroutines. Exactly one caller succeeds per
// message: the slot's "shared" flag is this method's exclusion token —
// whichever caller wins the compare-and-swap on it owns the slot's
// critical section until it clears the flag again, on every exit path.
func (ib *Inbox) TryReadShared(out []byte) bool {
	idx := loadIndex(&ib.readCursor, ib.reciprocal, ib.capacity)
	header := &ib.headers[idx]

	if !header.shared.CompareAndSwap(false, true) {
		return false
	}
	if !header.hasData.Load() || !header.written.Load() {
		header.shared.Store(false)
		return false
	}
	copy(out, ib.slot(idx))
	ib.readCursor.Add(1)
	header.written.Store(false)
	header.hasData.Store(false)
	header.shared.Store(false)
	return true
}

// SpinReadShared reads the next message into out, safe to call from any
// number of concurrent reading goroutines. It busy-waits, advancing to a
// new slot each time it finds the current one either already claimed by
// another shared reader or not yet populated.
//
// Once a caller is parked in SpinReadShared, the only way it returns is
// another message eventually arriving — there is no cancellation
// mechanism, by design. Callers that need to terminate a SpinReadShared
// consumer must arrange for a sentinel message to be re-published by
// whichever consumer observes it first.
func (ib *Inbox) SpinReadShared(out []byte) {
	for {
		idx := incrementIndex(&ib.readCursor, ib.reciprocal, ib.capacity)
		header := &ib.headers[idx]

		if !header.shared.CompareAndSwap(false, true) {
			runtime.Gosched()
			continue
		}
		if !header.hasData.Load() || !header.written.Load() {
			header.shared.Store(false)
			runtime.Gosched()
			continue
		}
		copy(out, ib.slot(idx))
		header.written.Store(false)
		header.hasData.Store(false)
		header.shared.Store(false)
		return
	}
}

// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package x9

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInboxRejectsZeroCapacity(t *testing.T) {
	_, err := NewInbox(0, "ibx", 8)
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestNewInboxRejectsNonPowerOfTwoCapacity(t *testing.T) {
	for _, capacity := range []uint64{3, 5, 6, 7, 100} {
		_, err := NewInbox(capacity, "ibx", 8)
		require.ErrorIsf(t, err, ErrInvalidCapacity, "capacity=%d", capacity)
	}
}

func TestNewInboxRejectsZeroMessageSize(t *testing.T) {
	_, err := NewInbox(4, "ibx", 0)
	require.ErrorIs(t, err, ErrInvalidMessageSize)
}

func TestNewInboxAcceptsPowersOfTwo(t *testing.T) {
	for _, capacity := range []uint64{1, 2, 4, 8, 16, 1024} {
		ibx, err := NewInbox(capacity, "ibx", 8)
		require.NoError(t, err)
		require.True(t, ibx.Valid())
		require.Equal(t, capacity, ibx.Capacity())
	}
}

// Capacity 1 is the tightest boundary the power-of-two rule admits: every
// slot index must reduce to 0, and NewInbox/TryWrite/TryRead must not
// panic (reciprocalFor special-cases this capacity, see index.go).
func TestCapacityOneInboxWritesAndReadsWithoutPanicking(t *testing.T) {
	ibx, err := NewInbox(1, "ibx", 4)
	require.NoError(t, err)

	require.True(t, ibx.TryWrite([]byte("ping")))
	require.False(t, ibx.TryWrite([]byte("pong")))

	out := make([]byte, 4)
	require.True(t, ibx.TryRead(out))
	require.Equal(t, "ping", string(out))
	require.False(t, ibx.TryRead(out))
}

func TestInboxValidAndNameIsAreNilSafe(t *testing.T) {
	var nilInbox *Inbox
	require.False(t, nilInbox.Valid())
	require.False(t, nilInbox.NameIs("anything"))
}

func TestInboxNameIs(t *testing.T) {
	ibx, err := NewInbox(4, "my-inbox", 8)
	require.NoError(t, err)
	require.True(t, ibx.NameIs("my-inbox"))
	require.False(t, ibx.NameIs("other"))
}

func TestTryWriteThenTryReadSingleMessage(t *testing.T) {
	ibx, err := NewInbox(4, "ibx", 4)
	require.NoError(t, err)

	require.True(t, ibx.TryWrite([]byte("ping")))

	out := make([]byte, 4)
	require.True(t, ibx.TryRead(out))
	require.Equal(t, "ping", string(out))
}

func TestTryReadOnEmptyInboxFails(t *testing.T) {
	ibx, err := NewInbox(4, "ibx", 4)
	require.NoError(t, err)

	out := make([]byte, 4)
	require.False(t, ibx.TryRead(out))
}

func TestTryWriteFailsWhenAllSlotsFullCapacityFour(t *testing.T) {
	ibx, err := NewInbox(4, "ibx", 1)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.True(t, ibx.TryWrite([]byte{byte(i)}))
	}
	// All 4 slots are now full: a 5th try must fail without blocking, and
	// must not advance the write cursor permanently (property 5).
	require.False(t, ibx.TryWrite([]byte{42}))

	out := make([]byte, 1)
	for i := 0; i < 4; i++ {
		require.True(t, ibx.TryRead(out))
		require.Equal(t, byte(i), out[0])
	}
	require.False(t, ibx.TryRead(out))
}

func TestSpinWriteThenSpinReadPreservesOrderSingleProducerSingleConsumer(t *testing.T) {
	ibx, err := NewInbox(4, "ibx", 8)
	require.NoError(t, err)

	const n = 2000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			msg := make([]byte, 8)
			msg[0] = byte(i)
			msg[1] = byte(i >> 8)
			ibx.SpinWrite(msg)
		}
	}()

	out := make([]byte, 8)
	for i := 0; i < n; i++ {
		ibx.SpinRead(out)
		got := int(out[0]) | int(out[1])<<8
		require.Equal(t, i, got)
	}
	wg.Wait()
}

func TestOnePbyteAndLargePayloads(t *testing.T) {
	for _, msgSz := range []uint64{1, 4096} {
		ibx, err := NewInbox(4, "ibx", msgSz)
		require.NoError(t, err)

		msg := make([]byte, msgSz)
		for i := range msg {
			msg[i] = byte(i)
		}
		require.True(t, ibx.TryWrite(msg))

		out := make([]byte, msgSz)
		require.True(t, ibx.TryRead(out))
		require.Equal(t, msg, out)
	}
}

func TestTryReadSharedManyConsumersOneProducer(t *testing.T) {
	ibx, err := NewInbox(4, "ibx", 8)
	require.NoError(t, err)

	const totalMessages = 5000
	const consumers = 10

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < totalMessages; i++ {
			msg := make([]byte, 8)
			msg[0] = byte(i)
			msg[1] = byte(i >> 8)
			ibx.SpinWrite(msg)
		}
	}()

	var read int64
	var mu sync.Mutex
	counts := make([]int, consumers)
	wg.Add(consumers)
	for c := 0; c < consumers; c++ {
		c := c
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				doneReading := read >= totalMessages
				mu.Unlock()
				if doneReading {
					return
				}
				out := make([]byte, 8)
				if ibx.TryReadShared(out) {
					mu.Lock()
					read++
					counts[c]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(totalMessages), read)
	for c, count := range counts {
		require.Greaterf(t, count, 0, "consumer %d read no messages", c)
	}
}

func TestTenProducersOneConsumerIllegalButInboxDoesNotCorruptIndividualMessages(t *testing.T) {
	// Documented as illegal: the single-reader contract forbids >1
	// consumer of TryRead/SpinRead, but the write side (SpinWrite) is
	// always multi-producer safe regardless of how many readers there
	// are. This test exercises 10 concurrent
	// SpinWrite producers against a single SpinRead consumer, and checks
	// that every message that IS read is byte-exact (property 6);
	// it makes no claim about delivering every message exactly once,
	// since running >1 consumer would be the actual contract violation,
	// not running >1 producer.
	ibx, err := NewInbox(4, "ibx", 8)
	require.NoError(t, err)

	const perProducer = 2000
	const producers = 10

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		p := p
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				msg := make([]byte, 8)
				msg[0] = byte(p)
				ibx.SpinWrite(msg)
			}
		}()
	}

	out := make([]byte, 8)
	for i := 0; i < producers*perProducer; i++ {
		ibx.SpinRead(out)
		require.Lessf(t, int(out[0]), producers, "producer tag out of range: %v", out)
		require.Equalf(t, make([]byte, 7), out[1:], "payload bytes corrupted: %v", out)
	}
	wg.Wait()
}

func TestCloseIsSafeToCallAndNoOp(t *testing.T) {
	ibx, err := NewInbox(4, "ibx", 8)
	require.NoError(t, err)
	ibx.Close()
}

func TestSetDebugLoggerReceivesConstructionFailureTag(t *testing.T) {
	var got []interface{}
	SetDebugLogger(logFunc(func(kv ...interface{}) error {
		got = kv
		return nil
	}))
	defer SetDebugLogger(nil)

	_, err := NewInbox(0, "ibx", 8)
	require.True(t, errors.Is(err, ErrInvalidCapacity))
	require.Contains(t, got, "INBOX_INCORRECT_SIZE")
}

// logFunc adapts a plain function to the go-kit/log.Logger interface for
// test assertions without requiring a real sink.
type logFunc func(kv ...interface{}) error

func (f logFunc) Log(kv ...interface{}) error { return f(kv...) }

// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package x9

import (
	"math/bits"
	"sync/atomic"
)

// reciprocalFor computes ⌊2⁶⁴ / capacity⌋ + 1, the constant that lets
// indexFromCounter reduce a 64-bit counter modulo capacity without a
// division on the hot path (Lemire et al., "Faster Remainder by Direct
// Computation"). capacity must be a positive power of two; NewInbox is
// responsible for that validation before this is ever called.
//
// capacity == 1 is special-cased: ⌊2⁶⁴ / 1⌋ overflows 64 bits, which would
// make bits.Div64 panic (its quotient-overflow precondition is y > hi, and
// here y=1, hi=1). The reciprocal's only use is as a factor of the low word
// that indexFromCounter then multiplies by capacity in a 64x64->128
// multiply, and when capacity is 1 that multiply's high word is 0 whatever
// the low word is, so 0 is as good as any other placeholder here.
func reciprocalFor(capacity uint64) uint64 {
	if capacity == 1 {
		return 0
	}
	quotient, _ := bits.Div64(1, 0, capacity)
	return quotient + 1
}

// indexFromCounter reduces counter modulo capacity using the precomputed
// reciprocal, division-free and wait-free: low is the 64-bit-wraparound
// product counter*reciprocal, and the result is the high 64 bits of
// low*capacity, computed via a 64x64->128 bit multiply.
func indexFromCounter(counter, reciprocal, capacity uint64) uint64 {
	low := counter * reciprocal
	hi, _ := bits.Mul64(low, capacity)
	return hi
}

// loadIndex reduces the current value of cursor to a slot index without
// mutating it. Used by the try variants so a failed attempt costs nothing
// beyond the load itself.
func loadIndex(cursor *atomic.Uint64, reciprocal, capacity uint64) uint64 {
	return indexFromCounter(cursor.Load(), reciprocal, capacity)
}

// incrementIndex atomically advances cursor by one and reduces the
// pre-increment value to a slot index. Used by the spin variants so that
// distinct spinning callers land on distinct slots and cannot livelock one
// another.
func incrementIndex(cursor *atomic.Uint64, reciprocal, capacity uint64) uint64 {
	next := cursor.Add(1)
	return indexFromCounter(next-1, reciprocal, capacity)
}

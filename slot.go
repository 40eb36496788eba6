// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package x9

import "sync/atomic"

const cacheLinePad = 64

// slotHeader is the per-slot control state: three independent atomic
// booleans plus padding so that, for typically-sized messages, adjacent
// slot headers don't interleave on the same cache line. The padding is an
// optimization, not a correctness requirement.
//
//   - hasData: a writer has claimed this slot; the payload write may still
//     be in progress.
//   - written: the payload has been fully copied in and is visible to
//     readers.
//   - shared: a multi-reader consumer currently holds exclusive dequeue
//     rights on this slot.
//
// A slot is empty iff hasData and written are both false, full iff both
// are true. hasData true / written false is the in-flight write.
type slotHeader struct {
	hasData atomic.Bool
	written atomic.Bool
	shared  atomic.Bool
	_       [cacheLinePad - 3*4]byte
}

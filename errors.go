// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package x9

import (
	"errors"
	"sync/atomic"

	kitlog "github.com/go-kit/log"
)

// Construction-time error taxonomy. These are the only errors this
// library ever returns; every read/write fast-path operation reports
// success or failure via a bool, never an error.
var (
	// ErrInvalidCapacity is returned by NewInbox when capacity is zero or
	// not a power of two.
	ErrInvalidCapacity = errors.New("x9: capacity must be a positive power of two")
	// ErrInvalidMessageSize is returned by NewInbox when msgSz is zero.
	ErrInvalidMessageSize = errors.New("x9: msgSz must be greater than zero")
	// ErrEmptyNodeInboxList is returned by NewNode when called with no
	// inboxes.
	ErrEmptyNodeInboxList = errors.New("x9: node must be given at least one inbox")
	// ErrDuplicateInbox is returned by NewNode when the same *Inbox is
	// passed more than once.
	ErrDuplicateInbox = errors.New("x9: node inbox list contains a duplicate")
)

var debugLogger atomic.Pointer[kitlog.Logger]

func init() {
	var nop kitlog.Logger = kitlog.NewNopLogger()
	debugLogger.Store(&nop)
}

// SetDebugLogger installs a logger that receives one "tag" key/value pair
// per failed construction call, identifying which validation branch
// rejected the request — the Go equivalent of the reference C library's
// X9_DEBUG-gated diagnostic prints. The default logger is a no-op; calling
// this is purely optional and has no effect on the fast path.
func SetDebugLogger(logger kitlog.Logger) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	debugLogger.Store(&logger)
}

func logConstructionError(tag string, err error) error {
	logger := *debugLogger.Load()
	_ = logger.Log("tag", tag, "err", err)
	return err
}

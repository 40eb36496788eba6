// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package x9

// Node is a named, ordered group of inboxes, supporting lookup-by-name and
// broadcast. A Node does not own its inboxes unless the caller explicitly
// transfers ownership by calling CloseAndInboxes.
//
// The reference C library's x9_create_node is variadic; this port
// replaces that with an ordinary variadic Go parameter of an ordered
// slice of handles — the variadic form carries no semantic content beyond
// "a sequence of inboxes".
type Node struct {
	name    string
	inboxes []*Inbox
}

// NewNode creates a Node named name containing inboxes, in the order
// given. Construction is rejected (returns a nil *Node and a non-nil
// error) if inboxes is empty or contains the same *Inbox pointer more than
// once; duplicate names among distinct inboxes are permitted but make
// SelectByName's result depend on registration order rather than any more
// meaningful tiebreak.
func NewNode(name string, inboxes ...*Inbox) (*Node, error) {
	if len(inboxes) == 0 {
		return nil, logConstructionError("NODE_INCORRECT_DEFINITION", ErrEmptyNodeInboxList)
	}

	seen := make(map[*Inbox]struct{}, len(inboxes))
	for _, ib := range inboxes {
		if _, dup := seen[ib]; dup {
			return nil, logConstructionError("NODE_MULTIPLE_EQUAL_INBOXES", ErrDuplicateInbox)
		}
		seen[ib] = struct{}{}
	}

	owned := make([]*Inbox, len(inboxes))
	copy(owned, inboxes)
	return &Node{name: name, inboxes: owned}, nil
}

// Valid reports whether node is a non-nil, constructed Node.
func (n *Node) Valid() bool { return n != nil }

// NameIs reports whether node's name equals cmp.
func (n *Node) NameIs(cmp string) bool { return n != nil && n.name == cmp }

// SelectByName returns the first inbox attached to node whose name equals
// name, in registration order, or nil if none matches. The returned handle
// must be validated with Valid before use.
func (n *Node) SelectByName(name string) *Inbox {
	for _, ib := range n.inboxes {
		if ib.NameIs(name) {
			return ib
		}
	}
	return nil
}

// Broadcast writes msg to every inbox attached to node, in registration
// order, via SpinWrite. All target inboxes must accept payloads of
// len(msg) bytes; this is not verified and a mismatch is undefined
// behavior, exactly as in the reference library.
//
// Broadcast is not atomic across inboxes: nothing stops a consumer of an
// earlier inbox from observing msg before a consumer of a later one does.
// SpinWrite cannot fail, so a partial broadcast can only happen if the
// calling goroutine is killed mid-loop.
func (n *Node) Broadcast(msg []byte) {
	for _, ib := range n.inboxes {
		ib.SpinWrite(msg)
	}
}

// Close releases node's own resources, leaving its attached inboxes
// untouched. Go's garbage collector reclaims memory regardless of whether
// Close is called; it exists for API symmetry with the reference
// library's free_node.
func (n *Node) Close() {}

// CloseAndInboxes closes node and every inbox attached to it. Use this
// only when the attached inboxes are not shared with another node or used
// elsewhere after this call — mirroring the reference library's
// free_node_and_attached_inboxes, this walks the inbox list and closes
// each one before closing the node itself.
func (n *Node) CloseAndInboxes() {
	for _, ib := range n.inboxes {
		ib.Close()
	}
	n.Close()
}

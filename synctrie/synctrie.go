/*
NAME
  synctrie.go

DESCRIPTION
  synctrie.go implements SyncTrie, a prefix automaton over fixed-length bit
  patterns used by frame parsers to recognize candidate sync positions
  before committing to a full header parse.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package synctrie implements a small prefix automaton ("sync trie") that
// recognizes one or more fixed-length bit patterns anchored at the start of
// a byte-aligned window. Each frame parser declares the set of syncwords it
// can start a frame on as a SyncTrie; the Splitter consults the union of
// all parsers' tries before attempting an expensive header parse.
package synctrie

// node is one level of the trie: two children keyed by the next bit, and a
// flag marking whether a pattern terminates here.
type node struct {
	children [2]*node
	terminal bool
}

// SyncTrie is an immutable set of fixed-length bit patterns. The zero value
// is Empty.
type SyncTrie struct {
	root *node
}

// Empty is the trie that matches nothing.
var Empty = SyncTrie{}

// Singleton returns a trie containing the single pattern of bitLength bits,
// taken from the low bitLength bits of pattern (MSB-first).
func Singleton(pattern uint32, bitLength int) SyncTrie {
	root := &node{}
	n := root
	for i := bitLength - 1; i >= 0; i-- {
		bit := (pattern >> uint(i)) & 1
		if n.children[bit] == nil {
			n.children[bit] = &node{}
		}
		n = n.children[bit]
	}
	n.terminal = true
	return SyncTrie{root: root}
}

// Union returns a new trie matching every pattern matched by any of tries.
// No operand is modified: Union always allocates a fresh set of
// nodes along any path present in more than one input, so a trie built once
// and shared between parsers can be safely reused as a Union operand.
func Union(tries ...SyncTrie) SyncTrie {
	var root *node
	for _, t := range tries {
		root = unionNode(root, t.root)
	}
	return SyncTrie{root: root}
}

// Or is a convenience two-argument form of Union, used when composing a
// parser's sync set incrementally (t.Or(other).Or(another)).
func (t SyncTrie) Or(other SyncTrie) SyncTrie {
	return Union(t, other)
}

func unionNode(a, b *node) *node {
	if a == nil {
		return copyNode(b)
	}
	if b == nil {
		return copyNode(a)
	}
	n := &node{terminal: a.terminal || b.terminal}
	n.children[0] = unionNode(a.children[0], b.children[0])
	n.children[1] = unionNode(a.children[1], b.children[1])
	return n
}

func copyNode(a *node) *node {
	if a == nil {
		return nil
	}
	n := &node{terminal: a.terminal}
	n.children[0] = copyNode(a.children[0])
	n.children[1] = copyNode(a.children[1])
	return n
}

// Matches reports whether the low length bits of bits (MSB-first, i.e. bit
// length-1 is the first bit consumed) match any pattern stored in t. A
// pattern shorter than length that terminates along the walked path also
// counts as a match, matching the original's prefix-acceptance semantics
// used to allow parsers with shorter syncwords to share a trie with longer
// ones.
func (t SyncTrie) Matches(bits uint32, length int) bool {
	n := t.root
	for i := length - 1; i >= 0; i-- {
		if n == nil {
			return false
		}
		if n.terminal {
			return true
		}
		bit := (bits >> uint(i)) & 1
		n = n.children[bit]
	}
	return n != nil && n.terminal
}

// IsEmpty reports whether t matches no patterns at all.
func (t SyncTrie) IsEmpty() bool { return t.root == nil }

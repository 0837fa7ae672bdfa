/*
NAME
  multiparser.go

DESCRIPTION
  multiparser.go implements MultiParser, a Parser that races a fixed list of
  candidate format parsers and latches onto the first one that achieves
  sync, forwarding all subsequent calls to it alone.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import (
	"github.com/ausocean/spdif/spk"
	"github.com/ausocean/spdif/synctrie"
)

// MultiParser implements Parser by delegating to one of several candidate
// parsers. Before a winner is elected, CanParse/ParseHeader/CompareHeaders
// fall through to every candidate in list order; once FirstFrame elects a
// winner, every other candidate is reset and ignored until the next Reset
// or until the winner fails a NextFrame.
type MultiParser struct {
	candidates []Parser
	active     int // Index into candidates, or -1 if none has won yet.
}

// NewMultiParser returns a MultiParser racing candidates in the given
// order. Tie-break on simultaneous success is list order: the first
// candidate in the slice whose FirstFrame succeeds wins.
func NewMultiParser(candidates ...Parser) *MultiParser {
	return &MultiParser{candidates: candidates, active: -1}
}

// CanParse is the OR of every candidate's CanParse.
func (m *MultiParser) CanParse(f spk.Format) bool {
	for _, c := range m.candidates {
		if c.CanParse(f) {
			return true
		}
	}
	return false
}

// SyncInfo returns the union of every candidate's sync trie, and the
// widest min/max frame-size envelope across all candidates, so the
// Splitter can scan for any of them before a winner is known.
func (m *MultiParser) SyncInfo() SyncInfo {
	var tries []synctrie.SyncTrie
	min, max := 0, 0
	for _, c := range m.candidates {
		si := c.SyncInfo()
		tries = append(tries, si.Trie)
		if min == 0 || si.MinFrameSize < min {
			min = si.MinFrameSize
		}
		if si.MaxFrameSize > max {
			max = si.MaxFrameSize
		}
	}
	return SyncInfo{Trie: synctrie.Union(tries...), MinFrameSize: min, MaxFrameSize: max}
}

// HeaderSize returns the largest header size across all candidates, so the
// Splitter always has enough bytes available to try any of them.
func (m *MultiParser) HeaderSize() int {
	n := 0
	for _, c := range m.candidates {
		if hs := c.HeaderSize(); hs > n {
			n = hs
		}
	}
	return n
}

// ParseHeader tries each candidate in order and returns the first success.
// Before a winner is elected this is inherently speculative; once one is
// active, only that candidate is consulted.
func (m *MultiParser) ParseHeader(hdr []byte) (Info, bool) {
	if m.active >= 0 {
		return m.candidates[m.active].ParseHeader(hdr)
	}
	for _, c := range m.candidates {
		if info, ok := c.ParseHeader(hdr); ok {
			return info, true
		}
	}
	return Info{}, false
}

// CompareHeaders delegates to the active candidate, or the first candidate
// willing to accept both headers when none is active yet.
func (m *MultiParser) CompareHeaders(a, b Info) bool {
	if m.active >= 0 {
		return m.candidates[m.active].CompareHeaders(a, b)
	}
	for _, c := range m.candidates {
		if c.CompareHeaders(a, b) {
			return true
		}
	}
	return false
}

// FirstFrame tries each candidate in turn; the first to accept frame
// becomes the active parser and every other candidate is reset.
func (m *MultiParser) FirstFrame(frame []byte) bool {
	for i, c := range m.candidates {
		if c.FirstFrame(frame) {
			m.active = i
			for j, other := range m.candidates {
				if j != i {
					other.Reset()
				}
			}
			return true
		}
		c.Reset()
	}
	return false
}

// NextFrame dispatches to the active candidate only.
func (m *MultiParser) NextFrame(frame []byte) bool {
	if m.active < 0 {
		return false
	}
	if !m.candidates[m.active].NextFrame(frame) {
		m.active = -1
		return false
	}
	return true
}

// Reset resets every candidate and clears the active selection.
func (m *MultiParser) Reset() {
	for _, c := range m.candidates {
		c.Reset()
	}
	m.active = -1
}

// InSync reports whether a candidate has won and remains in sync.
func (m *MultiParser) InSync() bool {
	return m.active >= 0 && m.candidates[m.active].InSync()
}

// FrameInfo delegates to the active candidate. Valid only when InSync.
func (m *MultiParser) FrameInfo() Info {
	if m.active < 0 {
		return Info{}
	}
	return m.candidates[m.active].FrameInfo()
}

// StreamInfo delegates to the active candidate, or reports "no sync" when
// none has won yet.
func (m *MultiParser) StreamInfo() string {
	if m.active < 0 {
		return "multi-frame: no sync"
	}
	return m.candidates[m.active].StreamInfo()
}

// Active returns the index of the winning candidate, or -1 if none has
// won. Primarily useful for logging which format a stream turned out to
// be.
func (m *MultiParser) Active() int { return m.active }

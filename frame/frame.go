/*
NAME
  frame.go

DESCRIPTION
  frame.go defines the common parser contract shared by every format-specific
  synchronizer (AC-3, Dolby/E-AC-3, DTS, MPEG audio, S/PDIF burst) plus the
  FrameInfo/SyncInfo value types they produce and consume.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame defines the contract implemented by every format-specific
// frame parser, the byte-aligned Splitter that drives one against a raw
// stream, and the MultiParser dispatcher that races several at once.
package frame

import (
	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/spk"
	"github.com/ausocean/spdif/synctrie"
)

// BurstType identifies the IEC 61937 Pc payload-type code a frame should be
// wrapped with, where the parser already knows it (DTS and MPA vary this
// per frame; AC-3 and E-AC-3 are fixed).
type BurstType int

const (
	BurstNone  BurstType = 0
	BurstPause BurstType = 3
	BurstAC3   BurstType = 1
	BurstEAC3  BurstType = 21
	BurstMPA1L1 BurstType = 4
	BurstMPA1L23 BurstType = 5
	BurstMPA2LSFL1 BurstType = 8
	BurstMPA2LSFL2 BurstType = 9
	BurstMPA2LSFL3 BurstType = 10
	BurstDTS512  BurstType = 11
	BurstDTS1024 BurstType = 12
	BurstDTS2048 BurstType = 13
)

// Info describes one decoded frame header. FrameSize of 0 means the true
// size depends on substreams following the header (E-AC-3), and is
// resolved only once first_frame has walked the whole frame.
type Info struct {
	Spk       spk.Speakers
	FrameSize int // Bytes; 0 if not yet known from the header alone.
	NSamples  int
	Encoding  bits.Encoding
	Burst     BurstType
}

// SyncInfo is the contract a parser hands the Splitter: which bit patterns
// may start a frame, and how far to scan before giving up.
type SyncInfo struct {
	Trie          synctrie.SyncTrie
	MinFrameSize  int
	MaxFrameSize  int
}

// Parser is the contract implemented by every format-specific synchronizer.
// CanParse, SyncInfo, HeaderSize and ParseHeader are stateless; the rest
// mutate the parser's latched state.
type Parser interface {
	// CanParse reports whether this parser is a candidate decoder for fmt.
	CanParse(f spk.Format) bool

	// SyncInfo returns the trie and frame-size envelope used by the
	// Splitter to locate candidate headers.
	SyncInfo() SyncInfo

	// HeaderSize is the number of bytes ParseHeader needs to see.
	HeaderSize() int

	// ParseHeader decodes hdr into an Info, or returns ok=false if hdr
	// fails the format's constraint table (HeaderInvalid/BadBitstream).
	ParseHeader(hdr []byte) (info Info, ok bool)

	// CompareHeaders reports whether a and b agree on the essential
	// invariant fields used for sync establishment and continuity.
	CompareHeaders(a, b Info) bool

	// FirstFrame validates frame as the first frame of a new sync run and
	// latches its Info. Returns false (HeaderInvalid) on failure.
	FirstFrame(frame []byte) bool

	// NextFrame validates frame against the latched Info. Returns false
	// (HeaderMismatch) if it disagrees, leaving the parser out of sync.
	NextFrame(frame []byte) bool

	// Reset drops sync and any latched Info, without releasing buffers.
	Reset()

	// InSync reports whether FirstFrame has succeeded and NextFrame has
	// not since failed or Reset been called.
	InSync() bool

	// FrameInfo returns the latched Info. Valid only when InSync is true.
	FrameInfo() Info

	// StreamInfo returns a human-readable summary of the latched state.
	StreamInfo() string
}

/*
NAME
  chunk.go

DESCRIPTION
  chunk.go defines Chunk, the transport record passed between the frame
  splitter, the per-format parsers and the S/PDIF wrapper.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package chunk defines the Chunk transport record used to move either raw
// compressed bytes or decoded linear samples between pipeline stages
// without the receiver needing to know which one it holds ahead of time.
package chunk

import "github.com/ausocean/spdif/spk"

// Chunk carries either RawData or Samples, never both. A Chunk with
// neither set (and Dummy false) is invalid; a Dummy chunk carries no
// payload at all and exists only to flush timestamp/sync state through a
// pipeline stage that buffers internally.
type Chunk struct {
	Spk       spk.Speakers
	RawData   []byte    // Valid when Spk.Format is a compressed format.
	Samples   []float64 // Valid when Spk.Format is linear/PCM.
	Sync      bool      // True if this chunk begins a new sync point (e.g. frame start).
	Timestamp float64   // Presentation time in seconds; NaN if unknown.
	Dummy     bool      // True for a no-op chunk carrying only state, no payload.
}

// IsEmpty reports whether c carries no payload at all.
func (c *Chunk) IsEmpty() bool {
	return c.Dummy || (len(c.RawData) == 0 && len(c.Samples) == 0)
}

// IsRaw reports whether c carries a compressed bitstream payload.
func (c *Chunk) IsRaw() bool {
	return !c.Dummy && len(c.RawData) > 0
}

// IsLinear reports whether c carries decoded linear samples.
func (c *Chunk) IsLinear() bool {
	return !c.Dummy && len(c.Samples) > 0
}

// NewDummy returns a Chunk that carries no payload, used to carry a
// Speakers/Timestamp update through a stage without new data.
func NewDummy(s spk.Speakers, ts float64) Chunk {
	return Chunk{Spk: s, Timestamp: ts, Dummy: true}
}

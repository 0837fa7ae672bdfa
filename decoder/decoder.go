/*
NAME
  decoder.go

DESCRIPTION
  decoder.go defines the parser-to-decoder handoff contract: the parser
  identifies a payload's format and supplies complete frames; a Backend
  turns those frames into linear PCM samples. The core pipeline never
  embeds a decoder itself — only this interface, so that a caller can wire
  in whichever codec libraries it needs.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package decoder defines the Backend interface external codec libraries
// implement to turn a compressed frame into linear PCM, and Samples, the
// value type a Backend returns.
package decoder

import "github.com/ausocean/spdif/spk"

// Samples holds one Backend.Decode call's worth of linear PCM output,
// interleaved across channels.
type Samples struct {
	Spk  spk.Speakers
	Data []int32
}

// Backend decodes complete compressed frames of one format into linear
// PCM. A Backend is stateless between calls unless the underlying codec
// requires cross-frame state (FLAC does not; implementations that do
// should hold that state internally rather than in Samples).
type Backend interface {
	// CanDecode reports whether this Backend handles f.
	CanDecode(f spk.Format) bool

	// Decode turns one complete frame into linear samples. frame must be
	// exactly one frame as identified by the upstream parser; Decode does
	// not resynchronize or buffer partial frames.
	Decode(frame []byte) (Samples, error)
}

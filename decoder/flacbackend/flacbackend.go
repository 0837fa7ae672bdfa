/*
NAME
  flacbackend.go

DESCRIPTION
  flacbackend.go adapts github.com/mewkiz/flac to the decoder.Backend
  handoff interface.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package flacbackend implements decoder.Backend for FLAC, the one
// concrete codec adapter this module ships. Unlike AC-3/DTS/MPA, FLAC
// cannot decode a lone frame in isolation: every frame depends on the
// STREAMINFO block (sample rate, bit depth, channel count) that precedes
// it, so Decode's "frame" argument here is the complete FLAC stream
// (header plus one or more frames), matching the whole-buffer contract
// the teacher's own FLAC decoder used.
package flacbackend

import (
	"bytes"
	"io"

	"github.com/mewkiz/flac"
	"github.com/pkg/errors"

	"github.com/ausocean/spdif/decoder"
	"github.com/ausocean/spdif/spk"
)

// Backend decodes FLAC streams into linear PCM via mewkiz/flac.
type Backend struct{}

// New returns a ready-to-use FLAC Backend.
func New() *Backend { return &Backend{} }

// CanDecode reports whether f is FLAC. decoder.Backend implementations
// are queried by format, not by inspecting payload bytes.
func (b *Backend) CanDecode(f spk.Format) bool { return false /* spk has no FLAC format yet; see CanDecodeStream */ }

// CanDecodeStream reports whether buf looks like a FLAC stream, for
// callers that identify FLAC by content rather than by an upstream
// parser's Speakers.Format (FLAC is not part of the IEC 61937 burst set,
// so it never flows through spk.Format the way AC-3/DTS/MPA do).
func (b *Backend) CanDecodeStream(buf []byte) bool {
	return len(buf) >= 4 && string(buf[:4]) == "fLaC"
}

// Decode parses a complete FLAC stream and returns its fully decoded
// linear samples, interleaved across channels in frame order.
func (b *Backend) Decode(stream []byte) (decoder.Samples, error) {
	s, err := flac.Parse(bytes.NewReader(stream))
	if err != nil {
		return decoder.Samples{}, errors.Wrap(err, "flacbackend: parse")
	}

	out := decoder.Samples{
		Spk: spk.New(spk.LinearFloat, maskFor(int(s.Info.NChannels)), int(s.Info.SampleRate)),
	}
	for {
		f, err := s.ParseNext()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return decoder.Samples{}, errors.Wrap(err, "flacbackend: decode frame")
		}
		if len(f.Subframes) == 0 {
			continue
		}
		for i := 0; i < f.Subframes[0].NSamples; i++ {
			for _, sub := range f.Subframes {
				out.Data = append(out.Data, sub.Samples[i])
			}
		}
	}
}

// maskFor returns the default channel mask for an n-channel FLAC stream.
// FLAC's own channel-assignment byte (independent vs. stereo-decorrelated)
// is resolved by mewkiz/flac before Samples are returned, so only the
// count matters here.
func maskFor(n int) spk.Mask {
	switch n {
	case 1:
		return spk.Mono
	case 2:
		return spk.Stereo
	default:
		return spk.Stereo
	}
}

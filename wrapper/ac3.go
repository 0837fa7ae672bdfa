/*
NAME
  ac3.go

DESCRIPTION
  ac3.go implements the AC-3 burst sync and wrap steps: the output
  Speakers carry the SPDIF format with the frame's mask and sample rate,
  and the burst payload is the frame converted to BS16LE, zero-padded to
  a nsamples*4-byte repetition period (6144 bytes for 1536 samples).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wrapper

import (
	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
)

func (w *Wrapper) syncAC3(finfo frame.Info) (spk.Speakers, error) {
	if !w.cfg.acceptRate(FormatAC3, finfo.Spk.SampleRate) {
		return spk.Speakers{}, ErrRateRejected
	}
	return spk.New(spk.SPDIF, finfo.Spk.Mask, finfo.Spk.SampleRate), nil
}

func (w *Wrapper) wrapAC3(finfo frame.Info, raw []byte) (int, error) {
	return w.wrapAC3Like(finfo, raw, frame.BurstAC3)
}

// wrapAC3Like implements the shared AC-3/MPEG-audio burst layout: a
// nsamples*4-byte repetition period, header at the front, payload
// converted to BS16LE immediately after, and the remainder zeroed.
func (w *Wrapper) wrapAC3Like(finfo frame.Info, raw []byte, burst frame.BurstType) (int, error) {
	spdifFrameSize := finfo.NSamples * 4
	if spdifFrameSize > maxSpdifFrameSize {
		return 0, ErrEncapsulationFailed
	}
	payloadSize := bits.ConvertedLen(len(raw), finfo.Encoding, bits.BS16LE)
	if headerSize+payloadSize > spdifFrameSize {
		return 0, ErrEncapsulationFailed
	}

	dest := w.outBuf[:spdifFrameSize]
	n := bits.Convert(raw, finfo.Encoding, dest[headerSize:], bits.BS16LE)
	for i := headerSize + n; i < spdifFrameSize; i++ {
		dest[i] = 0
	}
	writeHeader(dest, burst, n*8)
	return spdifFrameSize, nil
}

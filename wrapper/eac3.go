/*
NAME
  eac3.go

DESCRIPTION
  eac3.go implements the E-AC-3 burst sync and wrap steps. E-AC-3 is
  carried over S/PDIF at four times its native sample rate (its HDMI
  repetition period spans four AC-3-sized bursts), and its preamble
  length field is a byte count rather than a bit count.

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

func (w *Wrapper) syncEAC3(finfo frame.Info) (spk.Speakers, error) {
	if !w.cfg.acceptRate(FormatEAC3, finfo.Spk.SampleRate) {
		return spk.Speakers{}, ErrRateRejected
	}
	out := spk.New(spk.SPDIF, finfo.Spk.Mask, finfo.Spk.SampleRate*4)
	return out, nil
}

func (w *Wrapper) wrapEAC3(finfo frame.Info, raw []byte) (int, error) {
	hdmiFrameSize := finfo.NSamples * hdmiBlockSize2 * 4
	if hdmiFrameSize > maxHDMIFrameSize {
		return 0, ErrEncapsulationFailed
	}

	payloadSize := bits.ConvertedLen(len(raw), finfo.Encoding, bits.BS16LE)
	if headerSize+payloadSize > hdmiFrameSize {
		return 0, ErrEncapsulationFailed
	}

	dest := w.outBuf[:hdmiFrameSize]
	n := bits.Convert(raw, finfo.Encoding, dest[headerSize:], bits.BS16LE)
	for i := headerSize + n; i < hdmiFrameSize; i++ {
		dest[i] = 0
	}
	writeHeader(dest, frame.BurstEAC3, n) // Length in bytes, unlike every other burst type.
	return hdmiFrameSize, nil
}

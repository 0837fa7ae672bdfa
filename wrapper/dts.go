/*
NAME
  dts.go

DESCRIPTION
  dts.go implements the DTS burst sync and wrap steps, including the
  wrapped/padded/auto mode selection and the optional 14<->16 bit
  conversion a downstream receiver's chipset may require.

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

func (w *Wrapper) syncDTS(finfo frame.Info) (spk.Speakers, error) {
	if !w.cfg.acceptRate(FormatDTS, finfo.Spk.SampleRate) {
		return spk.Speakers{}, ErrRateRejected
	}
	if finfo.Burst == frame.BurstNone {
		return spk.Speakers{}, ErrUnsupportedFormat
	}
	return spk.New(spk.SPDIF, finfo.Spk.Mask, finfo.Spk.SampleRate), nil
}

func isDTS14Bit(enc bits.Encoding) bool { return enc == bits.BS14BE || enc == bits.BS14LE }

// dtsFits reports whether converting rawLen bytes from srcEnc to convEnc
// would fit within limit bytes.
func dtsFits(rawLen int, srcEnc, convEnc bits.Encoding, limit int) bool {
	return bits.ConvertedLen(rawLen, srcEnc, convEnc) <= limit
}

// wrapDTS chooses a framing (header reserved or not) and a target
// encoding for the core frame, per w.cfg.DTSMode/DTSConv, then converts
// and zero-pads into the burst buffer.
func (w *Wrapper) wrapDTS(finfo frame.Info, raw []byte) (int, error) {
	spdifFrameSize := finfo.NSamples * 4
	if spdifFrameSize > maxSpdifFrameSize {
		return 0, ErrEncapsulationFailed
	}

	frameGrows := w.cfg.DTSConv == DTSConv14Bit && !isDTS14Bit(finfo.Encoding)
	frameShrinks := w.cfg.DTSConv == DTSConv16Bit && isDTS14Bit(finfo.Encoding)

	convEnc := finfo.Encoding
	switch {
	case frameGrows:
		convEnc = bits.BS14LE
	case frameShrinks:
		convEnc = bits.BS16LE
	}

	var useHeader, ok bool
	switch w.cfg.DTSMode {
	case DTSModeWrapped:
		ok = dtsFits(len(raw), finfo.Encoding, convEnc, spdifFrameSize-headerSize)
		useHeader = true
	case DTSModePadded:
		ok = dtsFits(len(raw), finfo.Encoding, convEnc, spdifFrameSize)
		useHeader = false
	default: // DTSModeAuto
		if dtsFits(len(raw), finfo.Encoding, convEnc, spdifFrameSize-headerSize) {
			useHeader, ok = true, true
		} else if dtsFits(len(raw), finfo.Encoding, convEnc, spdifFrameSize) {
			useHeader, ok = false, true
		}
	}
	if !ok {
		return 0, ErrEncapsulationFailed
	}

	dest := w.outBuf[:spdifFrameSize]
	off := 0
	if useHeader {
		off = headerSize
	}
	n := bits.Convert(raw, finfo.Encoding, dest[off:], convEnc)
	for i := off + n; i < spdifFrameSize; i++ {
		dest[i] = 0
	}
	if convEnc == bits.BS14LE {
		dest[off+3] = 0xe8 // Restores the 14-bit sync signature's byte at offset 3 after conversion.
	}
	if useHeader {
		writeHeader(dest, finfo.Burst, n*8)
	}
	return spdifFrameSize, nil
}

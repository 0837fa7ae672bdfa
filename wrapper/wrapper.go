/*
NAME
  wrapper.go

DESCRIPTION
  wrapper.go implements Wrapper, the S/PDIF encapsulator: it drives a
  format-specific frame parser over an input stream, decides whether each
  frame can be carried as an IEC 61937 burst at all (falling back to raw
  passthrough when it cannot), and produces the burst bytes.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wrapper implements the S/PDIF (IEC 61937) encapsulator: given a
// stream of compressed audio frames (AC-3, E-AC-3, DTS or MPEG audio) it
// produces the burst-wrapped bytes a consumer S/PDIF receiver expects, or
// passes the stream through unencapsulated when the format, rate or frame
// size can't be carried as a burst.
package wrapper

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/spdif/chunk"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/frame/dolby"
	"github.com/ausocean/spdif/frame/dts"
	"github.com/ausocean/spdif/frame/mpa"
	"github.com/ausocean/spdif/spk"
)

// Log describes the function signature the Wrapper uses for diagnostic
// logging, matching github.com/ausocean/utils/logging.Logger's method
// values so a caller can pass log.Debug/log.Warning directly.
type Log func(lvl int8, msg string, args ...interface{})

const pkg = "wrapper: "

// findParser returns the frame parser appropriate for f, or nil if f has
// no known parser (the caller should passthrough instead).
func findParser(f spk.Format) frame.Parser {
	switch f {
	case spk.AC3, spk.EAC3, spk.Dolby:
		return dolby.New()
	case spk.DTS:
		return dts.New()
	case spk.MPA:
		return mpa.New()
	default:
		return nil
	}
}

// Wrapper turns a stream of compressed audio frames into IEC 61937 bursts.
// It owns one output buffer; the RawData slice of a burst Chunk returned
// from Process aliases that buffer and is only valid until the next call
// to Process, Flush or Reset. A passthrough Chunk carries the input's own
// RawData, and Flush returns a Chunk with no RawData.
type Wrapper struct {
	cfg Config
	log Log

	inSpk  spk.Speakers
	outSpk spk.Speakers

	parser      frame.Parser
	passthrough bool
	newStream   bool

	outBuf [maxHDMIFrameSize]byte
	lastErr error
}

// New returns a Wrapper with the given Config. l may be nil, in which case
// log output is discarded.
func New(cfg Config, l Log) *Wrapper {
	if l == nil {
		l = func(int8, string, ...interface{}) {}
	}
	return &Wrapper{cfg: cfg, log: l}
}

// CanOpen reports whether s is a format the Wrapper can accept at all,
// either for encapsulation or for explicit passthrough under the current
// Config. Call Open and inspect IsPassthrough to learn which.
func (w *Wrapper) CanOpen(s spk.Speakers) bool {
	bit := formatBit(s.Format)
	if w.cfg.PassthroughMask&bit != 0 {
		return true
	}
	if w.cfg.SpdifAsPCM && s.Format == spk.SPDIF {
		return true
	}
	if bit == 0 {
		return false
	}
	return w.cfg.acceptRate(bit, s.SampleRate)
}

// Open (re)configures the Wrapper for a new input stream format and
// resets all parser state. It always succeeds: an unrecognised format
// results in passthrough mode rather than an error, matching the
// Wrapper's error-tolerant contract.
func (w *Wrapper) Open(in spk.Speakers) bool {
	w.inSpk = in
	w.Reset()
	return true
}

// Reset drops all parser sync state and re-selects passthrough or
// encapsulation based on the current input format, without forgetting
// that format (unlike Open, which also accepts a new one).
func (w *Wrapper) Reset() {
	w.lastErr = nil
	if w.cfg.PassthroughMask&formatBit(w.inSpk.Format) != 0 {
		w.passthrough = true
		w.outSpk = w.inSpk
		w.parser = nil
		w.newStream = false
		return
	}

	p := findParser(w.inSpk.Format)
	if p == nil {
		w.log(logging.Warning, pkg+"no parser for format, passing through", "format", w.inSpk.Format.String())
		w.passthrough = true
		w.outSpk = w.inSpk
		w.parser = nil
		w.newStream = false
		return
	}
	w.passthrough = false
	w.parser = p
	w.outSpk = spk.UnknownSpeakers
	w.newStream = false
}

// Close releases the Wrapper's state. The output buffer is not reused
// after Close.
func (w *Wrapper) Close() {
	w.parser = nil
}

// NewStream reports whether the chunk most recently returned by Process
// began a new burst stream (a format, rate or passthrough-mode change the
// downstream consumer needs to react to).
func (w *Wrapper) NewStream() bool { return w.newStream }

// OutSpeakers returns the Speakers describing the Wrapper's current
// output: the burst-level Speakers (SPDIF format) when encapsulating, or
// the original input Speakers when in passthrough.
func (w *Wrapper) OutSpeakers() spk.Speakers { return w.outSpk }

// IsPassthrough reports whether the Wrapper is currently emitting its
// input unencapsulated.
func (w *Wrapper) IsPassthrough() bool { return w.passthrough }

// LastError returns the error behind the most recent rejected frame or fall
// back to passthrough, or nil if none has occurred since the last Reset.
func (w *Wrapper) LastError() error { return w.lastErr }

// validFormatMask reports whether mask is composed only of Format* bits.
func validFormatMask(mask int) bool {
	return mask&^(FormatAC3|FormatEAC3|FormatDTS|FormatMPA) == 0
}

// SetPassthroughMask changes the set of formats that bypass encapsulation
// entirely. An invalid mask is logged and ignored. The change takes effect
// immediately, re-evaluating passthrough for the format currently open.
func (w *Wrapper) SetPassthroughMask(mask int) {
	if !validFormatMask(mask) {
		w.log(logging.Warning, pkg+"invalid PassthroughMask ignored", "mask", mask)
		return
	}
	w.cfg.PassthroughMask = mask
	w.Reset()
}

// SetSpdifAsPCM changes whether CanOpen accepts an already-SPDIF-formatted
// input (see Config.SpdifAsPCM).
func (w *Wrapper) SetSpdifAsPCM(v bool) { w.cfg.SpdifAsPCM = v }

// SetCheckRate changes whether formats in RateMask have their sample rate
// validated against an accepted set.
func (w *Wrapper) SetCheckRate(v bool) { w.cfg.CheckRate = v }

// SetRateMask changes the set of formats CheckRate applies to. An invalid
// mask is logged and ignored.
func (w *Wrapper) SetRateMask(mask int) {
	if !validFormatMask(mask) {
		w.log(logging.Warning, pkg+"invalid RateMask ignored", "mask", mask)
		return
	}
	w.cfg.RateMask = mask
}

// SetDTSMode changes the DTS burst framing mode. An invalid mode is logged
// and ignored.
func (w *Wrapper) SetDTSMode(m DTSMode) {
	if m < DTSModeAuto || m > DTSModePadded {
		w.log(logging.Warning, pkg+"invalid DTSMode ignored", "mode", int(m))
		return
	}
	w.cfg.DTSMode = m
}

// SetDTSConv changes the bitstream conversion applied to DTS core frames
// before wrapping. An invalid conversion is logged and ignored.
func (w *Wrapper) SetDTSConv(c DTSConv) {
	if c < DTSConvNone || c > DTSConv16Bit {
		w.log(logging.Warning, pkg+"invalid DTSConv ignored", "conv", int(c))
		return
	}
	w.cfg.DTSConv = c
}

// SpdifSpk computes the output Speakers an input would produce under w's
// current Config, without mutating any Wrapper state or requiring a parsed
// frame. It mirrors the per-format mapping sync applies: a recognised
// compressed format becomes SPDIF at the input's mask and rate (E-AC-3 at
// four times its rate); a format in PassthroughMask, or anything
// unrecognised, passes through unchanged.
func (w *Wrapper) SpdifSpk(in spk.Speakers) spk.Speakers {
	if w.cfg.PassthroughMask&formatBit(in.Format) != 0 {
		return in
	}
	switch in.Format {
	case spk.AC3, spk.DTS, spk.MPA:
		return spk.New(spk.SPDIF, in.Mask, in.SampleRate)
	case spk.EAC3:
		return spk.New(spk.SPDIF, in.Mask, in.SampleRate*4)
	default:
		return in
	}
}

// Process consumes one compressed frame (in.RawData must hold exactly one
// frame's worth of bytes, as delimited by a frame.Splitter) and returns
// the corresponding output chunk: a burst-wrapped chunk, or the frame
// unmodified if the Wrapper is in passthrough.
func (w *Wrapper) Process(in chunk.Chunk) (out chunk.Chunk, ok bool) {
	if in.IsEmpty() {
		return chunk.Chunk{}, false
	}

	if w.passthrough {
		out = in
		out.Spk = w.outSpk
		w.newStream = false
		return out, true
	}

	w.newStream = false
	if len(in.RawData) < w.parser.HeaderSize() {
		w.lastErr = ErrHeaderInvalid
		return chunk.Chunk{}, false
	}

	if w.parser.InSync() {
		if !w.parser.NextFrame(in.RawData) {
			w.parser.Reset()
		}
	}
	if !w.parser.InSync() {
		if !w.parser.FirstFrame(in.RawData) {
			w.lastErr = ErrHeaderInvalid
			return chunk.Chunk{}, false
		}
		w.newStream = true
	}

	finfo := w.parser.FrameInfo()

	outSpk, syncErr := w.sync(finfo)
	if syncErr != nil {
		w.log(logging.Warning, pkg+"sync failed, passing through", "error", syncErr)
		w.lastErr = syncErr
		w.passthrough = true
		w.outSpk = w.inSpk
		out = in
		out.Spk = w.outSpk
		return out, true
	}

	n, wrapErr := w.wrap(finfo, in.RawData)
	if wrapErr != nil {
		w.log(logging.Warning, pkg+"wrap failed, passing through", "error", wrapErr)
		w.lastErr = wrapErr
		w.passthrough = true
		w.outSpk = w.inSpk
		w.newStream = true
		out = in
		out.Spk = w.outSpk
		return out, true
	}
	w.outSpk = outSpk

	out = chunk.Chunk{
		Spk:       w.outSpk,
		RawData:   w.outBuf[:n],
		Sync:      w.newStream,
		Timestamp: in.Timestamp,
	}
	return out, true
}

// Flush returns a dummy chunk carrying the Wrapper's current output
// Speakers, used to propagate a format change through a pipeline stage
// that otherwise only emits on new input.
func (w *Wrapper) Flush() chunk.Chunk {
	return chunk.NewDummy(w.outSpk, 0)
}

// sync computes the output Speakers for finfo and validates it against
// the Wrapper's Config (sample rate acceptance), dispatching per the
// input format.
func (w *Wrapper) sync(finfo frame.Info) (spk.Speakers, error) {
	switch finfo.Spk.Format {
	case spk.AC3:
		return w.syncAC3(finfo)
	case spk.EAC3:
		return w.syncEAC3(finfo)
	case spk.DTS:
		return w.syncDTS(finfo)
	case spk.MPA:
		return w.syncMPA(finfo)
	default:
		return spk.Speakers{}, ErrUnsupportedFormat
	}
}

// wrap encapsulates one frame's raw bytes into w.outBuf, dispatching per
// the input format, and returns the number of bytes written.
func (w *Wrapper) wrap(finfo frame.Info, raw []byte) (int, error) {
	switch finfo.Spk.Format {
	case spk.AC3:
		return w.wrapAC3(finfo, raw)
	case spk.EAC3:
		return w.wrapEAC3(finfo, raw)
	case spk.DTS:
		return w.wrapDTS(finfo, raw)
	case spk.MPA:
		return w.wrapMPA(finfo, raw)
	default:
		return 0, ErrUnsupportedFormat
	}
}

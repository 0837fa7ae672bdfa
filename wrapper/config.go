/*
NAME
  config.go

DESCRIPTION
  config.go defines the Wrapper's tunable behaviour: which compressed
  formats are allowed to pass through unencapsulated, which sample rates
  are accepted, and how a DTS core frame is packed into its burst.

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

import "github.com/ausocean/spdif/spk"

// DTSMode selects how a DTS core frame is packed into its IEC 61937 burst.
type DTSMode int

const (
	// DTSModeAuto tries DTSModeWrapped first, falling back to
	// DTSModePadded if the (possibly bit-converted) frame doesn't fit
	// the burst size alongside a header.
	DTSModeAuto DTSMode = iota
	// DTSModeWrapped always reserves room for the burst header.
	DTSModeWrapped
	// DTSModePadded never reserves header room, packing the frame as
	// close to the burst boundary as possible; used by receivers that
	// infer DTS presence from the frame itself rather than Pc/Pd.
	DTSModePadded
)

// DTSConv selects the bitstream encoding a DTS core frame is converted to
// before wrapping.
type DTSConv int

const (
	// DTSConvNone passes the frame through in its native encoding.
	DTSConvNone DTSConv = iota
	// DTSConv14Bit converts to BS14LE, growing the frame by 8/7.
	DTSConv14Bit
	// DTSConv16Bit converts to BS16LE, shrinking a 14-bit source by 7/8.
	DTSConv16Bit
)

// Format bits for PassthroughMask/RateMask: a format whose bit is set is
// allowed through without encapsulation (PassthroughMask) or, combined
// with CheckRate, has its sample rate validated against an accepted set
// (RateMask).
const (
	FormatAC3 = 1 << iota
	FormatEAC3
	FormatDTS
	FormatMPA
)

// maxSpdifFrameSize bounds AC-3/MPA/DTS burst payloads: 8192 bytes, per
// the IEC 61937 burst-repetition-period convention for those formats.
const maxSpdifFrameSize = 8192

// hdmiBlockSize2 is the block-size multiplier E-AC-3 bursts use to make
// room for the format's four-frame HDMI repetition period.
const hdmiBlockSize2 = 4

// maxHDMIFrameSize bounds E-AC-3 burst payloads: 2048 samples times 16
// bytes/sample-equivalent.
const maxHDMIFrameSize = 2048 * 16

// headerSize is the number of bytes occupied by the IEC 61937 burst
// preamble (Pa Pb Pc Pd) at the front of every non-passthrough chunk this
// package writes.
const headerSize = 8

// Config holds the Wrapper's tunable behaviour. Its zero value encapsulates
// every recognised format at any sample rate, with DTS in DTSModeAuto and
// not bit-converted.
type Config struct {
	// PassthroughMask is the set of formats (OR of Format* bits) that
	// should be emitted unencapsulated, bypassing burst wrapping
	// entirely. Zero means none.
	PassthroughMask int

	// SpdifAsPCM, if true, makes CanOpen accept an spk.SPDIF input. Such
	// an input has no parser and is passed through unchanged with its own
	// Speakers either way; SpdifAsPCM does not change the output format.
	SpdifAsPCM bool

	// CheckRate, if true, rejects formats in RateMask whose sample rate
	// isn't exactly 48000 Hz, falling back to passthrough instead.
	CheckRate bool

	// RateMask is the set of formats CheckRate applies to.
	RateMask int

	// DTSMode selects wrapped/padded/auto framing for DTS bursts.
	DTSMode DTSMode

	// DTSConv selects a bitstream conversion applied to DTS core frames
	// before wrapping.
	DTSConv DTSConv
}

// acceptRate reports whether sr is acceptable for format f under c's
// CheckRate/RateMask configuration.
func (c Config) acceptRate(f int, sr int) bool {
	if !c.CheckRate || c.RateMask&f == 0 {
		return true
	}
	return sr == 48000
}

// formatBit maps a spk.Format to its Format* bit, or 0 if the format
// isn't one the Wrapper encapsulates.
func formatBit(f spk.Format) int {
	switch f {
	case spk.AC3:
		return FormatAC3
	case spk.EAC3:
		return FormatEAC3
	case spk.DTS:
		return FormatDTS
	case spk.MPA:
		return FormatMPA
	default:
		return 0
	}
}

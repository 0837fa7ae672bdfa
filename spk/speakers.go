/*
NAME
  speakers.go

DESCRIPTION
  speakers.go defines the Speakers format descriptor: the (format, channel
  mask, sample rate, reference level, channel relation) tuple that flows
  between every stage of the bitstream pipeline.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package spk defines the Speakers audio format descriptor shared by every
// parser, the multi-frame dispatcher and the S/PDIF wrapper.
package spk

// Format identifies the on-wire representation of a Chunk's payload.
type Format int

const (
	Unknown Format = iota
	RawBytes
	LinearFloat
	PCM16LE
	PCM24LE
	PCM32LE
	PCM16BE
	PCM24BE
	PCM32BE
	PCMFloat
	PCMDouble
	PES
	SPDIF
	AC3
	MPA
	DTS
	EAC3
	Dolby // bsid not yet resolved between AC3/EAC3
	AACADTS
	TrueHD
	MLP
	DVDLPCM20
	DVDLPCM24
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case Unknown:
		return "unknown"
	case RawBytes:
		return "raw"
	case LinearFloat:
		return "linear"
	case PCM16LE:
		return "pcm16le"
	case PCM24LE:
		return "pcm24le"
	case PCM32LE:
		return "pcm32le"
	case PCM16BE:
		return "pcm16be"
	case PCM24BE:
		return "pcm24be"
	case PCM32BE:
		return "pcm32be"
	case PCMFloat:
		return "pcmfloat"
	case PCMDouble:
		return "pcmdouble"
	case PES:
		return "pes"
	case SPDIF:
		return "spdif"
	case AC3:
		return "ac3"
	case MPA:
		return "mpa"
	case DTS:
		return "dts"
	case EAC3:
		return "eac3"
	case Dolby:
		return "dolby"
	case AACADTS:
		return "aac-adts"
	case TrueHD:
		return "truehd"
	case MLP:
		return "mlp"
	case DVDLPCM20:
		return "lpcm20"
	case DVDLPCM24:
		return "lpcm24"
	default:
		return "unknown"
	}
}

// IsCompressed reports whether f is one of the compressed bitstream formats
// this module synchronizes on (as opposed to linear PCM or container
// formats).
func (f Format) IsCompressed() bool {
	switch f {
	case AC3, EAC3, DTS, MPA, Dolby, AACADTS, TrueHD, MLP:
		return true
	default:
		return false
	}
}

// Mask is a bitset over the fixed channel vocabulary.
type Mask int

const (
	L Mask = 1 << iota
	C
	R
	SL
	SR
	BL
	BR
	BC
	CL
	CR
	LFE
)

// Common channel configurations, matching the original valib MODE_* table.
const (
	Mono    = L
	Stereo  = L | R
	Mode30  = L | C | R
	Mode21  = L | R | BC
	Mode31  = L | C | R | BC
	Mode22  = L | R | BL | BR
	Mode32  = L | C | R | BL | BR
	Mode321 = Mode32 | BC
)

// NumChannels returns the number of channels set in the mask, excluding
// LFE (LFE is a subwoofer feed, not a full-bandwidth channel position for
// the purpose of e.g. EAC3's acmod-derived masks, matching the original's
// separate lfeon flag).
func (m Mask) NumChannels() int {
	n := 0
	for b := Mask(1); b != 0 && b <= CR; b <<= 1 {
		if m&b != 0 {
			n++
		}
	}
	return n
}

// HasLFE reports whether the mask includes the LFE channel.
func (m Mask) HasLFE() bool { return m&LFE != 0 }

// Relation flags additional encodings layered on top of mask.
type Relation int

const (
	NoRelation Relation = iota
	DolbySurround
	DolbyProLogicII
	SumDifference
)

// Speakers is the format descriptor threaded through every component:
// parsers populate it from a decoded header; the wrapper reads it to
// choose an encapsulation strategy and compute the output rate.
type Speakers struct {
	Format     Format
	Mask       Mask
	SampleRate int // Hz; 0 means "unknown, to be filled on first frame".
	RefLevel   float64
	Relation   Relation
}

// New returns a Speakers with RefLevel defaulted to 1.0, matching the
// original's default reference level for compressed formats.
func New(f Format, mask Mask, rate int) Speakers {
	return Speakers{Format: f, Mask: mask, SampleRate: rate, RefLevel: 1.0}
}

// UnknownSpeakers is the zero-information Speakers value used before the first
// frame of a stream has been parsed.
var UnknownSpeakers = Speakers{Format: Unknown}

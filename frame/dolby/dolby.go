/*
NAME
  dolby.go

DESCRIPTION
  dolby.go implements the combined AC-3 / E-AC-3 frame parser. It decomposes
  an E-AC-3 frame into subframes grouped by program (one independent
  substream plus zero or more dependent substreams extending its channel
  mask), and falls back to a plain AC-3 frame when exactly one subframe
  with a legacy bsid is present.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dolby implements frame synchronization for the Dolby Digital
// family: legacy AC-3 (bsid 0..8) and Enhanced AC-3 (bsid 11..16), sharing
// one syncword and one subframe-walking algorithm.
package dolby

import (
	"fmt"
	"strings"

	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
	"github.com/ausocean/spdif/synctrie"
)

const (
	subframeHeaderSize = 12
	maxSubframes       = 64
	maxPrograms        = 8
)

// SyncTrie is the set of byte patterns that may open a frame: 0x0b77 read
// as plain bytes, or as a byte-swapped 16-bit word.
var SyncTrie = synctrie.Union(synctrie.Singleton(0x0b77, 16), synctrie.Singleton(0x770b, 16))

var eac3SrateTbl = [16]int{
	48000, 48000, 48000, 48000,
	44100, 44100, 44100, 44100,
	32000, 32000, 32000, 32000,
	24000, 22050, 16000, 0,
}

var eac3NSamplesTbl = [16]int{
	256, 512, 768, 1536,
	256, 512, 768, 1536,
	256, 512, 768, 1536,
	1536, 1536, 1536, 1536,
}

var ac3SrateTbl = [4]int{48000, 44100, 32000, 0}

var ac3FrameSizeTbl = [3][64]int{
	{
		64, 64, 80, 80, 96, 96, 112, 112,
		128, 128, 160, 160, 192, 192, 224, 224,
		256, 256, 320, 320, 384, 384, 448, 448,
		512, 512, 640, 640, 768, 768, 896, 896,
		1024, 1024, 1152, 1152, 1280, 1280, 0, 0,
	},
	{
		69, 70, 87, 88, 104, 105, 121, 122,
		139, 140, 174, 175, 208, 209, 243, 244,
		278, 279, 348, 349, 417, 418, 487, 488,
		557, 558, 696, 697, 835, 836, 975, 976,
		1114, 1115, 1253, 1254, 1393, 1394, 0, 0,
	},
	{
		96, 96, 120, 120, 144, 144, 168, 168,
		192, 192, 240, 240, 288, 288, 336, 336,
		384, 384, 480, 480, 576, 576, 672, 672,
		768, 768, 960, 960, 1152, 1152, 1344, 1344,
		1536, 1536, 1728, 1728, 1920, 1920, 0, 0,
	},
}

var ac3LfeSkipTbl = [8]int{0, 0, 2, 2, 2, 4, 2, 4}

var acmodMaskTbl = [8]spk.Mask{
	spk.Stereo,
	spk.Mono,
	spk.Stereo,
	spk.Mode30,
	spk.Mode21,
	spk.Mode31,
	spk.Mode22,
	spk.Mode32,
}

func isAC3Bsid(bsid int) bool  { return bsid >= 0 && bsid <= 8 }
func isEAC3Bsid(bsid int) bool { return bsid >= 11 && bsid <= 16 }

// SubframeInfo mirrors one elementary AC-3/E-AC-3 subframe's decoded
// header fields.
type SubframeInfo struct {
	Size         int
	Encoding     bits.Encoding
	Bsid         int
	Independent  bool
	SubstreamID  int
	NSamples     int
	SampleRate   int
	Mask         spk.Mask
}

func (a SubframeInfo) equal(b SubframeInfo) bool {
	return a.Size == b.Size && a.Encoding == b.Encoding && a.Bsid == b.Bsid &&
		a.Independent == b.Independent && a.SubstreamID == b.SubstreamID &&
		a.NSamples == b.NSamples && a.SampleRate == b.SampleRate && a.Mask == b.Mask
}

// ProgramInfo describes one program: an independent substream plus any
// dependent substreams extending its channel mask.
type ProgramInfo struct {
	Spk            spk.Speakers // Full mask, including dependent substreams.
	Spk0           spk.Speakers // Independent substream's own mask.
	Pos            int
	Size           int
	FirstSubframe  int
	SubframeCount  int
}

func detectEncoding(hdr []byte) (bits.Encoding, bool) {
	if len(hdr) < 2 {
		return 0, false
	}
	switch {
	case hdr[0] == 0x0b && hdr[1] == 0x77:
		return bits.BS8, true
	case hdr[0] == 0x77 && hdr[1] == 0x0b:
		return bits.BS16LE, true
	default:
		return 0, false
	}
}

func bsidAt(hdr []byte, enc bits.Encoding) int {
	if enc == bits.BS8 {
		return int(hdr[5] >> 3)
	}
	return int(hdr[4] >> 3)
}

func parseEAC3Subframe(hdr []byte, enc bits.Encoding) (SubframeInfo, bool) {
	var info SubframeInfo
	info.Encoding = enc

	r := bits.NewReader(hdr, enc)
	r.Skip(16) // syncword

	strmtyp, err := r.Get(2)
	if err != nil {
		return info, false
	}
	switch strmtyp {
	case 0, 2:
		info.Independent = true
	case 1:
		info.Independent = false
	default:
		return info, false
	}

	substreamID, err := r.Get(3)
	if err != nil {
		return info, false
	}
	info.SubstreamID = int(substreamID)

	frmsiz, err := r.Get(11)
	if err != nil {
		return info, false
	}
	info.Size = int(frmsiz)*2 + 2

	fscodExt, err := r.Get(4)
	if err != nil {
		return info, false
	}
	info.SampleRate = eac3SrateTbl[fscodExt]
	info.NSamples = eac3NSamplesTbl[fscodExt]
	if info.SampleRate == 0 || info.NSamples == 0 {
		return info, false
	}

	acmod, err := r.Get(3)
	if err != nil {
		return info, false
	}
	lfeon, err := r.GetBool()
	if err != nil {
		return info, false
	}
	info.Mask = acmodMaskTbl[acmod]
	if lfeon {
		info.Mask |= spk.LFE
	}

	bsid, err := r.Get(5)
	if err != nil || !isEAC3Bsid(int(bsid)) {
		return info, false
	}
	info.Bsid = int(bsid)

	if err := r.Skip(5); err != nil { // dialnorm
		return info, false
	}
	compre, err := r.GetBool()
	if err != nil {
		return info, false
	}
	if compre {
		if err := r.Skip(8); err != nil { // compr
			return info, false
		}
	}

	if acmod == 0 {
		if err := r.Skip(5); err != nil { // dialnorm2
			return info, false
		}
		compre2, err := r.GetBool()
		if err != nil {
			return info, false
		}
		if compre2 {
			if err := r.Skip(8); err != nil { // compr2
				return info, false
			}
		}
	}

	chanmape, err := r.GetBool()
	if err != nil {
		return info, false
	}
	if chanmape {
		// chanmap is read to keep bit position correct but its override of
		// the acmod-derived mask is not applied; the subframe's mask comes
		// from acmod and lfeon only.
		if _, err := r.Get(16); err != nil {
			return info, false
		}
	}

	return info, true
}

func parseAC3Subframe(hdr []byte, enc bits.Encoding) (SubframeInfo, bool) {
	info := SubframeInfo{Encoding: enc, Independent: true, SubstreamID: 0, NSamples: 1536}

	r := bits.NewReader(hdr, enc)
	r.Skip(16) // syncword
	r.Skip(16) // crc1

	fscod, err := r.Get(2)
	if err != nil {
		return info, false
	}
	frmsizecod, err := r.Get(6)
	if err != nil {
		return info, false
	}
	if fscod == 3 {
		return info, false
	}
	info.SampleRate = ac3SrateTbl[fscod]
	info.Size = ac3FrameSizeTbl[fscod][frmsizecod] * 2
	if info.Size == 0 {
		return info, false
	}

	bsid, err := r.Get(5)
	if err != nil || !isAC3Bsid(int(bsid)) {
		return info, false
	}
	info.Bsid = int(bsid)

	r.Skip(3) // bsmod
	acmod, err := r.Get(3)
	if err != nil {
		return info, false
	}
	if err := r.Skip(ac3LfeSkipTbl[acmod]); err != nil {
		return info, false
	}
	lfeon, err := r.GetBool()
	if err != nil {
		return info, false
	}
	info.Mask = acmodMaskTbl[acmod]
	if lfeon {
		info.Mask |= spk.LFE
	}

	return info, true
}

// parseSubframeHeader reads the syncword-relative bsid to pick between the
// AC-3 and E-AC-3 field layouts, as the original Dolby parser does.
func parseSubframeHeader(hdr []byte) (SubframeInfo, bool) {
	if len(hdr) < subframeHeaderSize {
		return SubframeInfo{}, false
	}
	enc, ok := detectEncoding(hdr)
	if !ok {
		return SubframeInfo{}, false
	}
	bsid := bsidAt(hdr, enc)
	switch {
	case isEAC3Bsid(bsid):
		return parseEAC3Subframe(hdr, enc)
	case isAC3Bsid(bsid):
		return parseAC3Subframe(hdr, enc)
	default:
		return SubframeInfo{}, false
	}
}

// Parser implements frame.Parser for the combined AC-3/E-AC-3 stream
// family.
type Parser struct {
	synced   bool
	latched  frame.Info
	subframes []SubframeInfo
	programs  []ProgramInfo
}

// New returns a Parser ready to synchronize on an AC-3 or E-AC-3 stream.
func New() *Parser { return &Parser{} }

func (p *Parser) CanParse(f spk.Format) bool {
	return f == spk.Dolby || f == spk.AC3 || f == spk.EAC3 || f == spk.Unknown
}

func (p *Parser) SyncInfo() frame.SyncInfo {
	return frame.SyncInfo{Trie: SyncTrie, MinFrameSize: subframeHeaderSize, MaxFrameSize: maxSubframes * 4096}
}

func (p *Parser) HeaderSize() int { return subframeHeaderSize }

// ParseHeader decodes only the first subframe, mirroring the original's
// parse_header: an E-AC-3 frame may only start at independent substream 0.
func (p *Parser) ParseHeader(hdr []byte) (frame.Info, bool) {
	sf, ok := parseSubframeHeader(hdr)
	if !ok || !sf.Independent || sf.SubstreamID != 0 {
		return frame.Info{}, false
	}
	return frame.Info{
		Spk:      spk.New(spk.Dolby, sf.Mask, sf.SampleRate),
		FrameSize: 0, // Unknown until first_frame walks the whole frame.
		NSamples: sf.NSamples,
		Encoding: sf.Encoding,
	}, true
}

func (p *Parser) CompareHeaders(a, b frame.Info) bool {
	return a.Spk.Format == b.Spk.Format && a.Spk.Mask == b.Spk.Mask &&
		a.Spk.SampleRate == b.Spk.SampleRate && a.NSamples == b.NSamples && a.Encoding == b.Encoding
}

// FirstFrame walks subframes until the frame is consumed, validates the
// sequencing invariants on independent/dependent substream IDs, groups
// subframes into programs, and latches the result.
func (p *Parser) FirstFrame(frameBytes []byte) bool {
	var subframes []SubframeInfo
	pos := 0
	nextProgram := 0
	for pos+subframeHeaderSize < len(frameBytes) {
		sf, ok := parseSubframeHeader(frameBytes[pos:])
		if !ok {
			return false
		}

		if sf.Independent {
			if sf.SubstreamID != nextProgram {
				return false
			}
			nextProgram++
		} else {
			if len(subframes) == 0 {
				return false
			}
			prev := subframes[len(subframes)-1]
			if (sf.SubstreamID == 0) != prev.Independent {
				return false
			}
			if sf.SubstreamID != 0 && sf.SubstreamID != prev.SubstreamID+1 {
				return false
			}
		}

		if len(subframes) > 0 {
			first := subframes[0]
			if sf.NSamples != first.NSamples || sf.SampleRate != first.SampleRate || sf.Encoding != first.Encoding {
				return false
			}
		}

		if pos+sf.Size > len(frameBytes) {
			return false
		}
		subframes = append(subframes, sf)
		pos += sf.Size

		if len(subframes) > maxSubframes {
			return false
		}
	}
	if len(subframes) == 0 || pos != len(frameBytes) {
		return false
	}

	var programs []ProgramInfo
	pos = 0
	for i, sf := range subframes {
		if sf.Independent {
			programs = append(programs, ProgramInfo{
				Spk:           spk.New(spk.EAC3, sf.Mask, sf.SampleRate),
				Pos:           pos,
				Size:          sf.Size,
				FirstSubframe: i,
				SubframeCount: 1,
			})
			programs[len(programs)-1].Spk0 = programs[len(programs)-1].Spk
		} else {
			last := &programs[len(programs)-1]
			last.Spk.Mask |= sf.Mask
			last.Size += sf.Size
			last.SubframeCount++
		}
		pos += sf.Size
		if len(programs) > maxPrograms {
			return false
		}
	}

	format := spk.EAC3
	if len(subframes) == 1 && isAC3Bsid(subframes[0].Bsid) {
		format = spk.AC3
		programs[0].Spk.Format = format
		programs[0].Spk0.Format = format
	}

	p.subframes = subframes
	p.programs = programs
	p.latched = frame.Info{
		Spk:       programs[0].Spk,
		FrameSize: len(frameBytes),
		NSamples:  subframes[0].NSamples,
		Encoding:  subframes[0].Encoding,
		Burst:     burstFor(format),
	}
	p.synced = true
	return true
}

func burstFor(f spk.Format) frame.BurstType {
	if f == spk.AC3 {
		return frame.BurstAC3
	}
	return frame.BurstEAC3
}

// NextFrame re-parses subframes and requires them to match element for
// element with the latched sequence from FirstFrame.
func (p *Parser) NextFrame(frameBytes []byte) bool {
	if !p.synced {
		return false
	}
	pos := 0
	current := 0
	for pos+subframeHeaderSize < len(frameBytes) {
		sf, ok := parseSubframeHeader(frameBytes[pos:])
		if !ok {
			p.synced = false
			return false
		}
		if current >= len(p.subframes) || !sf.equal(p.subframes[current]) {
			p.synced = false
			return false
		}
		pos += sf.Size
		current++
	}
	if current != len(p.subframes) || pos != len(frameBytes) {
		p.synced = false
		return false
	}
	return true
}

func (p *Parser) Reset() {
	p.synced = false
	p.latched = frame.Info{}
	p.subframes = nil
	p.programs = nil
}

func (p *Parser) InSync() bool { return p.synced }

func (p *Parser) FrameInfo() frame.Info { return p.latched }

// NumPrograms returns the number of programs in the latched frame. Valid
// only when InSync is true.
func (p *Parser) NumPrograms() int { return len(p.programs) }

// NumSubframes returns the number of subframes in the latched frame. Valid
// only when InSync is true.
func (p *Parser) NumSubframes() int { return len(p.subframes) }

// ProgramInfo returns the n'th program's info. Valid only when InSync.
func (p *Parser) ProgramInfo(n int) ProgramInfo { return p.programs[n] }

// SubframeInfo returns the n'th subframe's info. Valid only when InSync.
func (p *Parser) SubframeInfo(n int) SubframeInfo { return p.subframes[n] }

func (p *Parser) StreamInfo() string {
	if !p.synced {
		return "dolby: no sync"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "dolby: %s\n", p.latched.Spk.Format)
	for i, prog := range p.programs {
		fmt.Fprintf(&b, "program %d: %s\n", i, prog.Spk.Format)
	}
	return b.String()
}

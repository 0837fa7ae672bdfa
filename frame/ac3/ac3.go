/*
NAME
  ac3.go

DESCRIPTION
  ac3.go implements a frame parser for legacy AC-3 (Dolby Digital) streams:
  header decode, CBR frame-size lookup, channel-mask mapping, and the
  Parser contract's sync bookkeeping.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ac3 implements the legacy (bsid 0..8) AC-3 frame parser. For
// streams that may also carry E-AC-3 subframes, use package dolby instead;
// this package is the simple, single-subframe-per-frame case described by
// the "AC-3 parser" component.
package ac3

import (
	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
	"github.com/ausocean/spdif/synctrie"
)

const headerSize = 7

// SyncTrie is the set of byte patterns that may open an AC-3 frame: the
// syncword 0x0b77 read as plain bytes, or as a byte-swapped 16-bit word.
var SyncTrie = synctrie.Union(synctrie.Singleton(0x0b77, 16), synctrie.Singleton(0x770b, 16))

var srateTbl = [4]int{48000, 44100, 32000, 0}

var frameSizeTbl = [3][64]int{
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

var lfeSkipTbl = [8]int{0, 0, 2, 2, 2, 4, 2, 4}

// acmodMaskTbl maps the 3-bit acmod field to a channel mask, per the
// standard 8-entry table: {2/0, 1/0, 2/0, 3/0, 2/1, 3/1, 2/2, 3/2}.
var acmodMaskTbl = [8]spk.Mask{
	spk.Stereo,                 // 2/0
	spk.Mono,                   // 1/0
	spk.Stereo,                 // 2/0
	spk.Mode30,                 // 3/0
	spk.Mode21,                 // 2/1
	spk.Mode31,                 // 3/1
	spk.Mode22,                 // 2/2
	spk.Mode32,                 // 3/2
}

func isValidBsid(bsid int) bool { return bsid >= 0 && bsid <= 8 }

// detectEncoding inspects the first two header bytes to decide whether the
// frame is BS8 (syncword in natural order) or BS16LE (byte-swapped pairs).
// It returns ok=false if neither pattern is present.
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

// Parser implements frame.Parser for legacy AC-3 streams.
type Parser struct {
	latched frame.Info
	synced  bool
}

// New returns a Parser ready to synchronize on an AC-3 stream.
func New() *Parser { return &Parser{} }

func (p *Parser) CanParse(f spk.Format) bool {
	return f == spk.AC3 || f == spk.Dolby || f == spk.Unknown
}

func (p *Parser) SyncInfo() frame.SyncInfo {
	return frame.SyncInfo{Trie: SyncTrie, MinFrameSize: 64, MaxFrameSize: 3840}
}

func (p *Parser) HeaderSize() int { return headerSize }

func (p *Parser) ParseHeader(hdr []byte) (frame.Info, bool) {
	if len(hdr) < headerSize {
		return frame.Info{}, false
	}
	enc, ok := detectEncoding(hdr)
	if !ok {
		return frame.Info{}, false
	}
	r := bits.NewReader(hdr, enc)
	r.Skip(16) // syncword
	r.Skip(16) // crc1

	fscod, err := r.Get(2)
	if err != nil {
		return frame.Info{}, false
	}
	if fscod == 3 {
		return frame.Info{}, false
	}
	frmsizecod, err := r.Get(6)
	if err != nil || frmsizecod > 63 {
		return frame.Info{}, false
	}

	sz := frameSizeTbl[fscod][frmsizecod] * 2
	if sz == 0 {
		return frame.Info{}, false
	}

	bsid, err := r.Get(5)
	if err != nil || !isValidBsid(int(bsid)) {
		return frame.Info{}, false
	}
	r.Skip(3) // bsmod

	acmod, err := r.Get(3)
	if err != nil {
		return frame.Info{}, false
	}
	if err := r.Skip(lfeSkipTbl[acmod]); err != nil {
		return frame.Info{}, false
	}
	lfeon, err := r.GetBool()
	if err != nil {
		return frame.Info{}, false
	}

	mask := acmodMaskTbl[acmod]
	if lfeon {
		mask |= spk.LFE
	}

	info := frame.Info{
		Spk:       spk.New(spk.AC3, mask, srateTbl[fscod]),
		FrameSize: sz,
		NSamples:  1536,
		Encoding:  enc,
		Burst:     frame.BurstAC3,
	}
	return info, true
}

func (p *Parser) CompareHeaders(a, b frame.Info) bool {
	return a.Spk.Format == b.Spk.Format &&
		a.Spk.Mask == b.Spk.Mask &&
		a.Spk.SampleRate == b.Spk.SampleRate &&
		a.FrameSize == b.FrameSize &&
		a.Encoding == b.Encoding
}

func (p *Parser) FirstFrame(frameBytes []byte) bool {
	info, ok := p.ParseHeader(frameBytes)
	if !ok || info.FrameSize != len(frameBytes) {
		return false
	}
	p.latched = info
	p.synced = true
	return true
}

func (p *Parser) NextFrame(frameBytes []byte) bool {
	info, ok := p.ParseHeader(frameBytes)
	if !ok || info.FrameSize != len(frameBytes) || !p.CompareHeaders(p.latched, info) {
		p.synced = false
		return false
	}
	p.latched = info
	return true
}

func (p *Parser) Reset() {
	p.synced = false
	p.latched = frame.Info{}
}

func (p *Parser) InSync() bool { return p.synced }

func (p *Parser) FrameInfo() frame.Info { return p.latched }

func (p *Parser) StreamInfo() string {
	if !p.synced {
		return "ac3: no sync"
	}
	return "ac3: " + p.latched.Spk.Format.String()
}

/*
NAME
  dts.go

DESCRIPTION
  dts.go implements the DTS core-frame parser: recognition of all four
  syncword/encoding variants, header field decode, and the essential-field
  comparison used for sync establishment and continuity.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dts implements frame synchronization for DTS core audio, across
// all four supported bitstream encodings (16BE, 16LE, 14BE, 14LE).
package dts

import (
	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
	"github.com/ausocean/spdif/synctrie"
)

const headerSize = 14

// SyncTrie covers all four DTS syncwords, each matched as a full 32-bit
// pattern: 7FFE8001 (16BE), FE7F0180 (16LE), 1FFFE800 (14BE), FF1F00E8 (14LE).
var SyncTrie = synctrie.Union(
	synctrie.Singleton(0x7ffe8001, 32),
	synctrie.Singleton(0xfe7f0180, 32),
	synctrie.Singleton(0x1fffe800, 32),
	synctrie.Singleton(0xff1f00e8, 32),
)

var sampleRateTbl = [16]int{
	0, 8000, 16000, 32000, 0, 0, 11025, 22050, 44100, 0, 0,
	12000, 24000, 48000, 96000, 192000,
}

var amodeMaskTbl = [10]spk.Mask{
	spk.Mono, spk.Stereo, spk.Stereo, spk.Stereo, spk.Stereo,
	spk.Mode30, spk.Mode21, spk.Mode31, spk.Mode22, spk.Mode32,
}

var amodeRelTbl = [10]spk.Relation{
	spk.NoRelation, spk.NoRelation, spk.NoRelation, spk.SumDifference, spk.DolbyProLogicII,
	spk.NoRelation, spk.NoRelation, spk.NoRelation, spk.NoRelation, spk.NoRelation,
}

// detectEncoding checks the first six bytes against all four DTS syncword
// variants.
func detectEncoding(hdr []byte) (bits.Encoding, bool) {
	if len(hdr) < 6 {
		return 0, false
	}
	switch {
	case hdr[0] == 0x7f && hdr[1] == 0xfe && hdr[2] == 0x80 && hdr[3] == 0x01:
		return bits.BS16BE, true
	case hdr[0] == 0xfe && hdr[1] == 0x7f && hdr[2] == 0x01 && hdr[3] == 0x80:
		return bits.BS16LE, true
	case hdr[0] == 0x1f && hdr[1] == 0xff && hdr[2] == 0xe8 && hdr[3] == 0x00 &&
		hdr[4] == 0x07 && (hdr[5]&0xf0) == 0xf0:
		return bits.BS14BE, true
	case hdr[0] == 0xff && hdr[1] == 0x1f && hdr[2] == 0x00 && hdr[3] == 0xe8 &&
		(hdr[4]&0xf0) == 0xf0 && hdr[5] == 0x07:
		return bits.BS14LE, true
	default:
		return 0, false
	}
}

// BurstFor returns the IEC 61937 payload-type code for an nsamples value,
// or BurstNone if nsamples doesn't correspond to a supported burst size.
func BurstFor(nsamples int) frame.BurstType {
	switch nsamples {
	case 512:
		return frame.BurstDTS512
	case 1024:
		return frame.BurstDTS1024
	case 2048:
		return frame.BurstDTS2048
	default:
		return frame.BurstNone
	}
}

// essential captures the stream-identifying header fields: syncword
// (implied by Encoding), amode, sfreq, and lff-as-boolean. CompareHeaders
// does not use this struct; it compares the decoded Encoding, Spk.Mask and
// Spk.SampleRate of two parsed Infos.
type essential struct {
	encoding bits.Encoding
	amode    int
	sfreq    int
	hasLFE   bool
}

func parseEssential(hdr []byte) (essential, frame.Info, bool) {
	enc, ok := detectEncoding(hdr)
	if !ok {
		return essential{}, frame.Info{}, false
	}
	r := bits.NewReader(hdr, enc)
	r.Skip(32) // syncword
	r.Skip(6)  // frame type, deficit sample count

	if err := r.Skip(1); err != nil { // CRC present flag
		return essential{}, frame.Info{}, false
	}

	nblksField, err := r.Get(7)
	if err != nil {
		return essential{}, frame.Info{}, false
	}
	nblks := int(nblksField) + 1
	if nblks < 6 {
		return essential{}, frame.Info{}, false
	}

	frameSizeField, err := r.Get(14)
	if err != nil {
		return essential{}, frame.Info{}, false
	}
	frameSize := int(frameSizeField) + 1
	if frameSize < 96 {
		return essential{}, frame.Info{}, false
	}

	amodeField, err := r.Get(6)
	if err != nil {
		return essential{}, frame.Info{}, false
	}
	amode := int(amodeField)
	if amode > 0xc || amode >= len(amodeMaskTbl) {
		return essential{}, frame.Info{}, false
	}

	sfreqField, err := r.Get(4)
	if err != nil {
		return essential{}, frame.Info{}, false
	}
	sfreq := int(sfreqField)
	if sampleRateTbl[sfreq] == 0 {
		return essential{}, frame.Info{}, false
	}

	if err := r.Skip(15); err != nil { // transmission bit rate + flags
		return essential{}, frame.Info{}, false
	}

	lffField, err := r.Get(2)
	if err != nil {
		return essential{}, frame.Info{}, false
	}
	if lffField == 3 {
		return essential{}, frame.Info{}, false
	}

	mask := amodeMaskTbl[amode]
	if lffField != 0 {
		mask |= spk.LFE
	}
	rel := amodeRelTbl[amode]

	nsamples := nblks * 32
	info := frame.Info{
		Spk:       spk.Speakers{Format: spk.DTS, Mask: mask, SampleRate: sampleRateTbl[sfreq], RefLevel: 1.0, Relation: rel},
		FrameSize: frameSize,
		NSamples:  nsamples,
		Encoding:  enc,
		Burst:     BurstFor(nsamples),
	}
	ess := essential{encoding: enc, amode: amode, sfreq: sfreq, hasLFE: lffField != 0}
	return ess, info, true
}

// Parser implements frame.Parser for DTS core streams.
type Parser struct {
	synced  bool
	latched frame.Info
}

// New returns a Parser ready to synchronize on a DTS stream.
func New() *Parser { return &Parser{} }

func (p *Parser) CanParse(f spk.Format) bool { return f == spk.DTS || f == spk.Unknown }

// SyncInfo always reports MaxFrameSize=16384, because DTS-HD extension
// data may follow the core frame. ParseHeader still reports the header's
// own frame_size in Info.FrameSize, and the Splitter steps by that value.
func (p *Parser) SyncInfo() frame.SyncInfo {
	return frame.SyncInfo{Trie: SyncTrie, MinFrameSize: 96, MaxFrameSize: 16384}
}

func (p *Parser) HeaderSize() int { return headerSize }

func (p *Parser) ParseHeader(hdr []byte) (frame.Info, bool) {
	if len(hdr) < headerSize {
		return frame.Info{}, false
	}
	_, info, ok := parseEssential(hdr)
	return info, ok
}

func (p *Parser) CompareHeaders(a, b frame.Info) bool {
	return a.Encoding == b.Encoding &&
		a.Spk.Mask == b.Spk.Mask &&
		a.Spk.SampleRate == b.Spk.SampleRate
}

func (p *Parser) FirstFrame(frameBytes []byte) bool {
	info, ok := p.ParseHeader(frameBytes)
	if !ok {
		return false
	}
	p.latched = info
	p.synced = true
	return true
}

func (p *Parser) NextFrame(frameBytes []byte) bool {
	info, ok := p.ParseHeader(frameBytes)
	if !ok || !p.CompareHeaders(p.latched, info) {
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

func (p *Parser) InSync() bool          { return p.synced }
func (p *Parser) FrameInfo() frame.Info { return p.latched }

func (p *Parser) StreamInfo() string {
	if !p.synced {
		return "dts: no sync"
	}
	return "dts: " + p.latched.Spk.Format.String()
}

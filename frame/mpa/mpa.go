/*
NAME
  mpa.go

DESCRIPTION
  mpa.go implements the MPEG-1/2 audio (Layer I/II/III) frame parser:
  header decode, per-version/layer frame-size computation, and channel
  mode mapping.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mpa implements frame synchronization for MPEG-1/2 audio Layer
// I/II/III streams. Unlike the other format parsers in this module, no
// reference C++ implementation of this header was available alongside the
// rest of the corpus; the field layout here follows the published MPEG
// audio header specification directly.
package mpa

import (
	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
	"github.com/ausocean/spdif/synctrie"
)

const headerSize = 4

// Version identifies the MPEG version field (2 bits).
type Version int

const (
	Version25 Version = iota // 00
	VersionReserved
	Version2 // 10
	Version1 // 11
)

// Layer identifies the layer field (2 bits): 01=III, 10=II, 11=I, 00=reserved.
type Layer int

const (
	LayerReserved Layer = iota
	LayerIII
	LayerII
	LayerI
)

// SyncTrie matches the 11-bit all-ones syncword at the start of the
// big-endian 32-bit header (only one byte order is used on the wire for
// this format, unlike AC-3/DTS).
var SyncTrie = synctrie.Singleton(0x7ff, 11)

var samplingFreqTbl = [3][3]int{
	{44100, 48000, 32000}, // MPEG1
	{22050, 24000, 16000}, // MPEG2
	{11025, 12000, 8000},  // MPEG2.5
}

// bitrateTbl rows: 0=MPEG1-L1, 1=MPEG1-L2, 2=MPEG1-L3, 3=MPEG2/2.5-L1,
// 4=MPEG2/2.5-L2&L3. Index 0 (free format) and 15 (reserved) are excluded
// here and handled explicitly by the caller.
var bitrateTbl = [5][16]int{
	{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
	{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
}

func bitrateRow(v Version, l Layer) int {
	if v == Version1 {
		switch l {
		case LayerI:
			return 0
		case LayerII:
			return 1
		case LayerIII:
			return 2
		}
	}
	switch l {
	case LayerI:
		return 3
	case LayerII, LayerIII:
		return 4
	}
	return -1
}

func samplingRow(v Version) int {
	switch v {
	case Version1:
		return 0
	case Version2:
		return 1
	case Version25:
		return 2
	}
	return -1
}

// nsamplesFor returns the number of PCM samples produced per frame.
func nsamplesFor(v Version, l Layer) int {
	switch l {
	case LayerI:
		return 384
	case LayerII:
		return 1152
	case LayerIII:
		if v == Version1 {
			return 1152
		}
		return 576
	}
	return 0
}

// burstFor maps (version, layer) to the IEC 61937 Pc code.
func burstFor(v Version, l Layer) frame.BurstType {
	if v == Version1 {
		if l == LayerI {
			return frame.BurstMPA1L1
		}
		return frame.BurstMPA1L23
	}
	switch l {
	case LayerI:
		return frame.BurstMPA2LSFL1
	case LayerII:
		return frame.BurstMPA2LSFL2
	case LayerIII:
		return frame.BurstMPA2LSFL3
	}
	return frame.BurstNone
}

// Parser implements frame.Parser for MPEG-1/2 audio streams.
type Parser struct {
	synced  bool
	latched frame.Info

	// AllowMPEG25 enables the otherwise-rejected "emergency" MPEG-2.5
	// version field, per the format parser's emergency-MPEG-2.5 switch.
	AllowMPEG25 bool
}

// New returns a Parser ready to synchronize on an MPEG audio stream.
func New() *Parser { return &Parser{} }

func (p *Parser) CanParse(f spk.Format) bool { return f == spk.MPA || f == spk.Unknown }

func (p *Parser) SyncInfo() frame.SyncInfo {
	return frame.SyncInfo{Trie: SyncTrie, MinFrameSize: 24, MaxFrameSize: 1728}
}

func (p *Parser) HeaderSize() int { return headerSize }

func (p *Parser) ParseHeader(hdr []byte) (frame.Info, bool) {
	if len(hdr) < headerSize {
		return frame.Info{}, false
	}
	r := bits.NewReader(hdr, bits.BS8)

	sync, err := r.Get(11)
	if err != nil || sync != 0x7ff {
		return frame.Info{}, false
	}

	verField, _ := r.Get(2)
	version := Version(verField)
	if version == VersionReserved {
		return frame.Info{}, false
	}
	if version == Version25 && !p.AllowMPEG25 {
		return frame.Info{}, false
	}

	layerField, _ := r.Get(2)
	layer := Layer(layerField)
	if layer == LayerReserved {
		return frame.Info{}, false
	}

	if err := r.Skip(1); err != nil { // protection bit
		return frame.Info{}, false
	}

	bitrateIdx, _ := r.Get(4)
	if bitrateIdx == 0 || bitrateIdx == 15 { // free format or reserved
		return frame.Info{}, false
	}
	row := bitrateRow(version, layer)
	if row < 0 {
		return frame.Info{}, false
	}
	bitrateKbps := bitrateTbl[row][bitrateIdx]
	if bitrateKbps == 0 {
		return frame.Info{}, false
	}

	sfreqIdx, _ := r.Get(2)
	if sfreqIdx == 3 { // reserved
		return frame.Info{}, false
	}
	srow := samplingRow(version)
	if srow < 0 {
		return frame.Info{}, false
	}
	sampleRate := samplingFreqTbl[srow][sfreqIdx]

	paddingBit, _ := r.Get(1)
	if err := r.Skip(1); err != nil { // private bit
		return frame.Info{}, false
	}

	modeField, _ := r.Get(2)
	r.Skip(2) // mode extension
	r.Skip(1) // copyright
	r.Skip(1) // original
	r.Skip(2) // emphasis

	mask := spk.Stereo
	if modeField == 3 { // single channel
		mask = spk.Mono
	}

	var frameSize int
	if layer == LayerI {
		frameSize = (12*bitrateKbps*1000/sampleRate + int(paddingBit)) * 4
	} else {
		slotDiv := 144
		if layer == LayerIII && version != Version1 {
			slotDiv = 72
		}
		frameSize = slotDiv*bitrateKbps*1000/sampleRate + int(paddingBit)
	}
	if frameSize <= 0 {
		return frame.Info{}, false
	}

	info := frame.Info{
		Spk:       spk.New(spk.MPA, mask, sampleRate),
		FrameSize: frameSize,
		NSamples:  nsamplesFor(version, layer),
		Encoding:  bits.BS8,
		Burst:     burstFor(version, layer),
	}
	return info, true
}

func (p *Parser) CompareHeaders(a, b frame.Info) bool {
	return a.Spk.Mask == b.Spk.Mask && a.Spk.SampleRate == b.Spk.SampleRate &&
		a.NSamples == b.NSamples && a.Burst == b.Burst
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
		return "mpa: no sync"
	}
	return "mpa: " + p.latched.Spk.Format.String()
}

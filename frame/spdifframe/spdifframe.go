/*
NAME
  spdifframe.go

DESCRIPTION
  spdifframe.go implements the IEC 61937 burst recognizer: it reads the
  fixed 4-word preamble (Pa Pb Pc Pd), identifies the wrapped payload's
  type from Pc, and determines payload length from Pd.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package spdifframe recognizes IEC 61937 burst preambles already present
// on the wire (as opposed to package wrapper, which produces them). It is
// used to detect a pre-encapsulated S/PDIF stream and dispatch its payload
// to the matching format parser.
package spdifframe

import (
	"encoding/binary"

	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
	"github.com/ausocean/spdif/synctrie"
)

const (
	headerSize = 8 // 4 x 16-bit LE words: Pa Pb Pc Pd.
	pa         = 0xf872
	pb         = 0x4e1f
)

// PayloadType identifies the Pc field of a burst preamble.
type PayloadType int

const (
	TypeNull  PayloadType = 0
	TypeAC3   PayloadType = 1
	TypePause PayloadType = 3
	TypeMPA1L1   PayloadType = 4
	TypeMPA1L23  PayloadType = 5
	TypeMPA2ExtBSI PayloadType = 6
	TypeAACADTS  PayloadType = 7
	TypeMPA2LSFL1 PayloadType = 8
	TypeMPA2LSFL2 PayloadType = 9
	TypeMPA2LSFL3 PayloadType = 10
	TypeDTS512   PayloadType = 11
	TypeDTS1024  PayloadType = 12
	TypeDTS2048  PayloadType = 13
	TypeEAC3     PayloadType = 21
	TypeDTSHD    PayloadType = 17
)

// bitsLengthTypes are Pc codes where Pd is a bit count; every other Pc
// code (E-AC-3, DTS-HD, AAC-ADTS and any code not listed here) is read
// with Pd in bytes.
var bitsLengthTypes = map[PayloadType]bool{
	TypeAC3: true, TypeMPA1L1: true, TypeMPA1L23: true,
	TypeMPA2LSFL1: true, TypeMPA2LSFL2: true, TypeMPA2LSFL3: true,
	TypeDTS512: true, TypeDTS1024: true, TypeDTS2048: true,
}

// SyncTrie matches the fixed two-word preamble sync pattern (Pa, Pb),
// read as consecutive 16-bit little-endian words: the wire bytes are
// 72 F8 1F 4E.
var SyncTrie = synctrie.Singleton(uint32(pa&0xff)<<24|uint32(pa>>8)<<16|uint32(pb&0xff)<<8|uint32(pb>>8), 32)

// formatForType maps a burst Pc code to the downstream format that should
// parse the unwrapped payload.
func formatForType(t PayloadType) spk.Format {
	switch t {
	case TypeAC3:
		return spk.AC3
	case TypeEAC3:
		return spk.EAC3
	case TypeMPA1L1, TypeMPA1L23, TypeMPA2LSFL1, TypeMPA2LSFL2, TypeMPA2LSFL3:
		return spk.MPA
	case TypeDTS512, TypeDTS1024, TypeDTS2048, TypeDTSHD:
		return spk.DTS
	case TypeAACADTS:
		return spk.AACADTS
	default:
		return spk.Unknown
	}
}

// Preamble is the decoded 4-word burst header.
type Preamble struct {
	Type         PayloadType
	PayloadBits  int // Payload length in bits, regardless of Pd's native unit.
	PayloadBytes int
}

// ParsePreamble reads the fixed 8-byte preamble from hdr and decodes Pc/Pd.
// It returns ok=false if the sync words Pa/Pb don't match.
func ParsePreamble(hdr []byte) (Preamble, bool) {
	if len(hdr) < headerSize {
		return Preamble{}, false
	}
	gotPa := binary.LittleEndian.Uint16(hdr[0:2])
	gotPb := binary.LittleEndian.Uint16(hdr[2:4])
	if gotPa != pa || gotPb != pb {
		return Preamble{}, false
	}
	pc := binary.LittleEndian.Uint16(hdr[4:6])
	pd := binary.LittleEndian.Uint16(hdr[6:8])

	t := PayloadType(pc)
	var bitsLen, bytesLen int
	if bitsLengthTypes[t] {
		bitsLen = int(pd)
		bytesLen = (bitsLen + 7) / 8
	} else {
		bytesLen = int(pd)
		bitsLen = bytesLen * 8
	}
	return Preamble{Type: t, PayloadBits: bitsLen, PayloadBytes: bytesLen}, true
}

// Parser implements frame.Parser for pre-wrapped IEC 61937 bursts. Its
// FrameInfo describes the burst's own framing; the caller is expected to
// hand the unwrapped payload to the parser matching formatForType.
type Parser struct {
	synced  bool
	latched frame.Info
	preamble Preamble
}

// New returns a Parser ready to recognize IEC 61937 burst preambles.
func New() *Parser { return &Parser{} }

func (p *Parser) CanParse(f spk.Format) bool { return f == spk.SPDIF || f == spk.Unknown }

func (p *Parser) SyncInfo() frame.SyncInfo {
	return frame.SyncInfo{Trie: SyncTrie, MinFrameSize: headerSize, MaxFrameSize: 8192 + headerSize}
}

func (p *Parser) HeaderSize() int { return headerSize }

func (p *Parser) ParseHeader(hdr []byte) (frame.Info, bool) {
	pre, ok := ParsePreamble(hdr)
	if !ok {
		return frame.Info{}, false
	}
	return frame.Info{
		Spk:       spk.New(formatForType(pre.Type), 0, 0),
		FrameSize: headerSize + pre.PayloadBytes,
		Encoding:  bits.BS16LE,
	}, true
}

func (p *Parser) CompareHeaders(a, b frame.Info) bool {
	return a.Spk.Format == b.Spk.Format
}

func (p *Parser) FirstFrame(frameBytes []byte) bool {
	pre, ok := ParsePreamble(frameBytes)
	if !ok {
		return false
	}
	info, _ := p.ParseHeader(frameBytes)
	p.preamble = pre
	p.latched = info
	p.synced = true
	return true
}

func (p *Parser) NextFrame(frameBytes []byte) bool {
	pre, ok := ParsePreamble(frameBytes)
	if !ok || pre.Type != p.preamble.Type {
		p.synced = false
		return false
	}
	info, _ := p.ParseHeader(frameBytes)
	p.preamble = pre
	p.latched = info
	return true
}

func (p *Parser) Reset() {
	p.synced = false
	p.latched = frame.Info{}
	p.preamble = Preamble{}
}

func (p *Parser) InSync() bool          { return p.synced }
func (p *Parser) FrameInfo() frame.Info { return p.latched }

// Preamble returns the last decoded preamble. Valid only when InSync.
func (p *Parser) Preamble() Preamble { return p.preamble }

func (p *Parser) StreamInfo() string {
	if !p.synced {
		return "spdif: no sync"
	}
	return "spdif: " + p.latched.Spk.Format.String()
}

/*
NAME
  dolby_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dolby

import (
	"testing"

	"github.com/ausocean/spdif/spk"
)

// buildAC3Subframe constructs a single-subframe AC-3 frame: crc1=0, fscod=0
// (48kHz), frmsizecod=0 (64 words, 128 bytes), bsid=8, acmod=2 (stereo),
// lfeon=0.
func buildAC3Subframe() []byte {
	hdr := make([]byte, 128)
	hdr[0], hdr[1] = 0x0b, 0x77
	hdr[4] = 0x00
	hdr[5] = 0x08 << 3
	hdr[6] = 2 << 5
	return hdr
}

func TestParseHeaderRejectsDependentFirstSubframe(t *testing.T) {
	// strmtyp=1 (dependent) as the very first subframe must be rejected.
	hdr := make([]byte, subframeHeaderSize)
	hdr[0], hdr[1] = 0x0b, 0x77
	hdr[2] = 0x40 // strmtyp = 1 (dependent), substreamid = 0
	// bsid field (eac3 path) lives at a fixed byte offset; force bsid=16.
	hdr[5] = 16 << 3
	p := New()
	if _, ok := p.ParseHeader(hdr); ok {
		t.Errorf("expected rejection of a non-independent first subframe")
	}
}

func TestFirstFrameSingleSubframeIsPlainAC3(t *testing.T) {
	p := New()
	frameBytes := buildAC3Subframe()
	if !p.FirstFrame(frameBytes) {
		t.Fatalf("FirstFrame failed on a single-subframe AC-3 frame")
	}
	info := p.FrameInfo()
	if info.Spk.Format != spk.AC3 {
		t.Errorf("Format = %v, want AC3 for a single legacy subframe", info.Spk.Format)
	}
	if p.NumSubframes() != 1 {
		t.Errorf("NumSubframes() = %d, want 1", p.NumSubframes())
	}
	if p.NumPrograms() != 1 {
		t.Errorf("NumPrograms() = %d, want 1", p.NumPrograms())
	}
}

func TestNextFrameRejectsTruncatedFrame(t *testing.T) {
	p := New()
	frameBytes := buildAC3Subframe()
	if !p.FirstFrame(frameBytes) {
		t.Fatalf("FirstFrame failed")
	}
	short := frameBytes[:64]
	if p.NextFrame(short) {
		t.Errorf("NextFrame should reject a truncated frame")
	}
	if p.InSync() {
		t.Errorf("parser should have dropped sync")
	}
}

// bitPacker accumulates fields MSB-first into a byte slice.
type bitPacker struct {
	bytes []byte
	pos   int
}

func (p *bitPacker) put(val uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := (val >> uint(i)) & 1
		byteIdx := p.pos / 8
		for byteIdx >= len(p.bytes) {
			p.bytes = append(p.bytes, 0)
		}
		p.bytes[byteIdx] |= byte(bit) << uint(7-p.pos%8)
		p.pos++
	}
}

// buildIndependentEAC3Subframe packs one independent E-AC-3 subframe of the
// given byte size and substream ID: fscodExt index 3 (48000 Hz, 1536
// samples), acmod=2 (stereo), bsid=16.
func buildIndependentEAC3Subframe(substreamID, size int) []byte {
	p := &bitPacker{}
	p.put(0x0b77, 16)                   // syncword
	p.put(0, 2)                         // strmtyp = independent
	p.put(uint32(substreamID), 3)       // substreamID
	p.put(uint32((size-2)/2), 11)       // frmsiz
	p.put(3, 4)                         // fscodExt -> 48000 Hz, 1536 samples
	p.put(2, 3)                         // acmod = stereo
	p.put(0, 1)                         // lfeon
	p.put(16, 5)                        // bsid
	p.put(0, 5)                         // dialnorm
	p.put(0, 1)                         // compre
	p.put(0, 1)                         // chanmape
	out := make([]byte, size)
	copy(out, p.bytes)
	return out
}

func TestFirstFrameTwoIndependentProgramsAreSeparate(t *testing.T) {
	sub0 := buildIndependentEAC3Subframe(0, 128)
	sub1 := buildIndependentEAC3Subframe(1, 128)
	frameBytes := append(append([]byte{}, sub0...), sub1...)

	p := New()
	if !p.FirstFrame(frameBytes) {
		t.Fatalf("FirstFrame failed on a two-program E-AC-3 frame")
	}
	if p.NumSubframes() != 2 {
		t.Errorf("NumSubframes() = %d, want 2", p.NumSubframes())
	}
	if p.NumPrograms() != 2 {
		t.Fatalf("NumPrograms() = %d, want 2", p.NumPrograms())
	}
	for i, prog := range []ProgramInfo{p.ProgramInfo(0), p.ProgramInfo(1)} {
		if prog.Spk.Format != spk.EAC3 {
			t.Errorf("program %d Format = %v, want EAC3", i, prog.Spk.Format)
		}
		if prog.SubframeCount != 1 {
			t.Errorf("program %d SubframeCount = %d, want 1", i, prog.SubframeCount)
		}
		if prog.Spk.Mask != spk.Stereo {
			t.Errorf("program %d Mask = %v, want Stereo", i, prog.Spk.Mask)
		}
	}
	if p.ProgramInfo(1).FirstSubframe != 1 {
		t.Errorf("program 1 FirstSubframe = %d, want 1", p.ProgramInfo(1).FirstSubframe)
	}
}

func TestCanParse(t *testing.T) {
	p := New()
	for _, f := range []spk.Format{spk.AC3, spk.EAC3, spk.Dolby} {
		if !p.CanParse(f) {
			t.Errorf("CanParse(%v) = false, want true", f)
		}
	}
	if p.CanParse(spk.DTS) {
		t.Errorf("CanParse(DTS) = true, want false")
	}
}

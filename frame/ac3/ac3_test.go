/*
NAME
  ac3_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ac3

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/spdif/bits"
	"github.com/ausocean/spdif/frame"
	"github.com/ausocean/spdif/spk"
)

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

// buildHeader constructs a minimal valid AC-3 header: crc1=0, fscod=0
// (48kHz), frmsizecod=0 (64 words -> 128 bytes), bsid=8, bsmod=0, acmod=2
// (2/0, stereo, followed by the 2-bit dsurmod field), dsurmod=0, lfeon=0.
func buildHeader() []byte {
	p := &bitPacker{}
	p.put(0x0b77, 16) // syncword
	p.put(0, 16)      // crc1
	p.put(0, 2)       // fscod -> 48000 Hz
	p.put(0, 6)       // frmsizecod -> 64 words, 128 bytes
	p.put(8, 5)       // bsid
	p.put(0, 3)       // bsmod
	p.put(2, 3)       // acmod = 2/0 stereo
	p.put(0, 2)       // dsurmod
	p.put(0, 1)       // lfeon
	out := make([]byte, headerSize)
	copy(out, p.bytes)
	return out
}

func TestParseHeaderValid(t *testing.T) {
	p := New()
	info, ok := p.ParseHeader(buildHeader())
	if !ok {
		t.Fatalf("expected valid header to parse")
	}
	want := frame.Info{
		Spk:       spk.New(spk.AC3, spk.Stereo, 48000),
		FrameSize: 128,
		NSamples:  1536,
		Encoding:  bits.BS8,
		Burst:     frame.BurstAC3,
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("ParseHeader() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHeaderRejectsBadSyncword(t *testing.T) {
	hdr := buildHeader()
	hdr[0] = 0xff
	p := New()
	if _, ok := p.ParseHeader(hdr); ok {
		t.Errorf("expected rejection of bad syncword")
	}
}

func TestParseHeaderRejectsReservedFscod(t *testing.T) {
	hdr := buildHeader()
	hdr[4] = 0xc0 // fscod = 3 (reserved)
	p := New()
	if _, ok := p.ParseHeader(hdr); ok {
		t.Errorf("expected rejection of reserved fscod")
	}
}

func TestFirstFrameAndNextFrameAgree(t *testing.T) {
	p := New()
	full := make([]byte, 128)
	copy(full, buildHeader())
	if !p.FirstFrame(full) {
		t.Fatalf("FirstFrame failed on a valid frame")
	}
	if !p.InSync() {
		t.Errorf("expected InSync after a valid FirstFrame")
	}
	if !p.NextFrame(full) {
		t.Errorf("NextFrame should agree with the latched header")
	}
}

func TestNextFrameDropsSyncOnMismatch(t *testing.T) {
	p := New()
	full := make([]byte, 128)
	copy(full, buildHeader())
	if !p.FirstFrame(full) {
		t.Fatalf("FirstFrame failed")
	}
	mismatched := make([]byte, 128)
	copy(mismatched, buildHeader())
	mismatched[6] = 3 << 5 // acmod changes to 3/0
	if p.NextFrame(mismatched) {
		t.Errorf("NextFrame should reject a header with a different acmod")
	}
	if p.InSync() {
		t.Errorf("parser should have dropped sync")
	}
}

func TestBS16LEEncodingDetected(t *testing.T) {
	hdr := make([]byte, len(buildHeader())+1) // Pad to an even length for pairwise swapping.
	copy(hdr, buildHeader())
	// Byte-swap each pair to simulate a BS16LE stream.
	for i := 0; i+1 < len(hdr); i += 2 {
		hdr[i], hdr[i+1] = hdr[i+1], hdr[i]
	}
	p := New()
	info, ok := p.ParseHeader(hdr)
	if !ok {
		t.Fatalf("expected BS16LE header to parse")
	}
	if info.Spk.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", info.Spk.SampleRate)
	}
}

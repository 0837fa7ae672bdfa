/*
NAME
  dts_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dts

import (
	"testing"

	"github.com/ausocean/spdif/spk"
)

// bitPacker accumulates fields MSB-first into a byte slice, mirroring the
// on-wire layout a BS16BE (== BS8 byte order) DTS header uses.
type bitPacker struct {
	bytes []byte
	pos   int // bit position
}

func (p *bitPacker) put(val uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := (val >> uint(i)) & 1
		byteIdx := p.pos / 8
		for byteIdx >= len(p.bytes) {
			p.bytes = append(p.bytes, 0)
		}
		shift := 7 - uint(p.pos%8)
		p.bytes[byteIdx] |= byte(bit) << shift
		p.pos++
	}
}

// buildHeader packs a minimal valid DTS header: nblks-1=31 (nblks=32,
// 1024 samples), frame_size-1=4095 (4096 bytes), amode=9 (3/2),
// sfreq=13 (48000), lff=0.
func buildHeader() []byte {
	p := &bitPacker{}
	p.put(0x7ffe8001, 32) // syncword
	p.put(0, 6)           // frame type + deficit sample count
	p.put(0, 1)           // cpf
	p.put(31, 7)          // nblks-1 = 31 -> nblks=32 -> nsamples=1024
	p.put(4095, 14)       // frame_size-1 -> frame_size=4096
	p.put(9, 6)           // amode = 3/2
	p.put(13, 4)          // sfreq = 48000
	p.put(0, 15)          // bitrate + flags
	p.put(0, 2)           // lff = 0
	for len(p.bytes) < headerSize {
		p.bytes = append(p.bytes, 0)
	}
	return p.bytes
}

func TestParseHeaderValid(t *testing.T) {
	pr := New()
	info, ok := pr.ParseHeader(buildHeader())
	if !ok {
		t.Fatalf("expected valid DTS header to parse")
	}
	if info.Spk.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", info.Spk.SampleRate)
	}
	if info.NSamples != 1024 {
		t.Errorf("NSamples = %d, want 1024", info.NSamples)
	}
	if info.FrameSize != 4096 {
		t.Errorf("FrameSize = %d, want 4096", info.FrameSize)
	}
	if info.Burst != 12 { // BurstDTS1024
		t.Errorf("Burst = %v, want BurstDTS1024 (12)", info.Burst)
	}
	if info.Spk.Mask != spk.Mode32 {
		t.Errorf("Mask = %v, want Mode32", info.Spk.Mask)
	}
}

func TestParseHeaderRejectsShortFrameSize(t *testing.T) {
	hdr := buildHeader()
	p := &bitPacker{}
	p.put(0x7ffe8001, 32)
	p.put(0, 6)
	p.put(0, 1)
	p.put(31, 7)
	p.put(50, 14) // frame_size-1=50 -> 51, below the 96 constraint
	p.put(9, 6)
	p.put(13, 4)
	p.put(0, 15)
	p.put(0, 2)
	for len(p.bytes) < headerSize {
		p.bytes = append(p.bytes, 0)
	}
	hdr = p.bytes

	pr := New()
	if _, ok := pr.ParseHeader(hdr); ok {
		t.Errorf("expected rejection of frame_size below 96")
	}
}

func TestParseHeaderRejectsBadSyncword(t *testing.T) {
	hdr := buildHeader()
	hdr[0] = 0xaa
	pr := New()
	if _, ok := pr.ParseHeader(hdr); ok {
		t.Errorf("expected rejection of unrecognised syncword")
	}
}

func TestDetectsAllFourEncodings(t *testing.T) {
	mkHdr := func(b ...byte) []byte {
		hdr := make([]byte, headerSize)
		copy(hdr, b)
		return hdr
	}
	cases := []struct {
		name string
		hdr  []byte
	}{
		{"16BE", buildHeader()},
		{"16LE", mkHdr(0xfe, 0x7f, 0x01, 0x80)},
		{"14BE", mkHdr(0x1f, 0xff, 0xe8, 0x00, 0x07, 0xf0)},
		{"14LE", mkHdr(0xff, 0x1f, 0x00, 0xe8, 0xf0, 0x07)},
	}
	for _, c := range cases {
		if _, ok := detectEncoding(c.hdr); !ok {
			t.Errorf("%s: expected encoding detection to succeed", c.name)
		}
	}
}

func TestFirstNextFrameAgreement(t *testing.T) {
	pr := New()
	frameBytes := make([]byte, 4096)
	copy(frameBytes, buildHeader())
	if !pr.FirstFrame(frameBytes) {
		t.Fatalf("FirstFrame failed")
	}
	if !pr.NextFrame(frameBytes) {
		t.Errorf("NextFrame should agree with an identical header")
	}
}

func TestBurstForAllSizes(t *testing.T) {
	cases := map[int]int{512: 11, 1024: 12, 2048: 13, 999: 0}
	for n, want := range cases {
		if got := int(BurstFor(n)); got != want {
			t.Errorf("BurstFor(%d) = %d, want %d", n, got, want)
		}
	}
}

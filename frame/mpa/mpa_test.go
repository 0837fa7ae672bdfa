/*
NAME
  mpa_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpa

import "testing"

// buildHeader packs an MPEG-1 Layer II header from individual field
// values: bitrate index 8 (128 kbps for MPEG1-L2), sample rate index 0
// (44100), padding 0, mode 0 (stereo).
// frame_size = 144*128000/44100 + 0 = 417 (integer division).
func buildHeader() []byte {
	var bitsOut []int
	push := func(v, n int) {
		for i := n - 1; i >= 0; i-- {
			bitsOut = append(bitsOut, (v>>uint(i))&1)
		}
	}
	push(0x7ff, 11) // sync
	push(3, 2)      // version = MPEG1
	push(2, 2)       // layer = II
	push(1, 1)      // protection bit
	push(8, 4)       // bitrate index
	push(0, 2)       // sampling freq index (44100)
	push(0, 1)       // padding
	push(0, 1)       // private
	push(0, 2)       // mode = stereo
	push(0, 2)       // mode extension
	push(0, 1)       // copyright
	push(0, 1)       // original
	push(0, 2)       // emphasis

	out := make([]byte, (len(bitsOut)+7)/8)
	for i, b := range bitsOut {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func TestParseHeaderValid(t *testing.T) {
	hdr := buildHeader()
	p := New()
	info, ok := p.ParseHeader(hdr)
	if !ok {
		t.Fatalf("expected valid MPEG header to parse")
	}
	if info.Spk.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", info.Spk.SampleRate)
	}
	if info.NSamples != 1152 {
		t.Errorf("NSamples = %d, want 1152", info.NSamples)
	}
	wantSize := 144*128000/44100 + 0
	if info.FrameSize != wantSize {
		t.Errorf("FrameSize = %d, want %d", info.FrameSize, wantSize)
	}
}

func TestParseHeaderRejectsBadSync(t *testing.T) {
	hdr := buildHeader()
	hdr[0] = 0x00
	p := New()
	if _, ok := p.ParseHeader(hdr); ok {
		t.Errorf("expected rejection of a missing syncword")
	}
}

func TestParseHeaderRejectsFreeFormatBitrate(t *testing.T) {
	var bitsOut []int
	push := func(v, n int) {
		for i := n - 1; i >= 0; i-- {
			bitsOut = append(bitsOut, (v>>uint(i))&1)
		}
	}
	push(0x7ff, 11)
	push(3, 2)
	push(2, 2)
	push(1, 1)
	push(0, 4) // free-format bitrate index
	push(0, 2)
	push(0, 1)
	push(0, 1)
	push(0, 2)
	push(0, 2)
	push(0, 1)
	push(0, 1)
	push(0, 2)
	out := make([]byte, (len(bitsOut)+7)/8)
	for i, b := range bitsOut {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	p := New()
	if _, ok := p.ParseHeader(out); ok {
		t.Errorf("expected rejection of free-format bitrate index")
	}
}

func TestParseHeaderRejectsMPEG25WhenDisabled(t *testing.T) {
	var bitsOut []int
	push := func(v, n int) {
		for i := n - 1; i >= 0; i-- {
			bitsOut = append(bitsOut, (v>>uint(i))&1)
		}
	}
	push(0x7ff, 11)
	push(0, 2) // version = MPEG2.5
	push(2, 2)
	push(1, 1)
	push(8, 4)
	push(0, 2)
	push(0, 1)
	push(0, 1)
	push(0, 2)
	push(0, 2)
	push(0, 1)
	push(0, 1)
	push(0, 2)
	out := make([]byte, (len(bitsOut)+7)/8)
	for i, b := range bitsOut {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	p := New()
	if _, ok := p.ParseHeader(out); ok {
		t.Errorf("expected rejection of MPEG2.5 when AllowMPEG25 is false")
	}
	p.AllowMPEG25 = true
	if _, ok := p.ParseHeader(out); !ok {
		t.Errorf("expected MPEG2.5 to parse once AllowMPEG25 is true")
	}
}

/*
NAME
  convert_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

import "testing"

func TestConvertedLen(t *testing.T) {
	cases := []struct {
		srcLen   int
		src, dst Encoding
		want     int
	}{
		{100, BS8, BS8, 100},
		{100, BS16BE, BS16LE, 100},
		// 16-bit payload growing to 14-bit payload: 16/14 inflation.
		{100, BS16LE, BS14LE, ceilDiv(ceilDiv(100, 2)*16, 14) * 2},
		// 14-bit payload shrinking to 16-bit payload.
		{100, BS14LE, BS16LE, ceilDiv(ceilDiv(100, 2)*14, 16) * 2},
	}
	for i, c := range cases {
		if got := ConvertedLen(c.srcLen, c.src, c.dst); got != c.want {
			t.Errorf("case %d: ConvertedLen(%d, %v, %v) = %d, want %d", i, c.srcLen, c.src, c.dst, got, c.want)
		}
	}
}

// TestConvertIdentity checks that converting between 8/16BE/16LE and back
// reproduces the original bytes, per the bitstream round-trip property.
func TestConvertIdentity(t *testing.T) {
	pairs := []struct{ a, b Encoding }{
		{BS8, BS16BE},
		{BS8, BS16LE},
		{BS16BE, BS16LE},
	}
	src := []byte{0x0b, 0x77, 0x01, 0x40, 0x2f, 0x20, 0x05, 0x85}
	for _, p := range pairs {
		mid := make([]byte, ConvertedLen(len(src), p.a, p.b))
		Convert(src, p.a, mid, p.b)

		back := make([]byte, ConvertedLen(len(mid), p.b, p.a))
		Convert(mid, p.b, back, p.a)

		if len(back) < len(src) {
			t.Fatalf("%v<->%v: round-trip too short: %d < %d", p.a, p.b, len(back), len(src))
		}
		for i := range src {
			if back[i] != src[i] {
				t.Errorf("%v<->%v: round-trip byte %d = 0x%x, want 0x%x", p.a, p.b, i, back[i], src[i])
			}
		}
	}
}

// TestConvert16to14Grows checks the DTS 16->14 bit expansion ratio (8/7)
// used by the wrapper's dts_conv=to_14bit path.
func TestConvert16to14Grows(t *testing.T) {
	src := make([]byte, 56) // 28 16-bit words.
	for i := range src {
		src[i] = byte(i)
	}
	out := make([]byte, ConvertedLen(len(src), BS16LE, BS14LE))
	n := Convert(src, BS16LE, out, BS14LE)
	want := 56 * 8 / 7
	if n != want {
		t.Errorf("converted length = %d, want %d", n, want)
	}
}

// TestConvert14to16Shrinks checks the inverse 7/8 ratio.
func TestConvert14to16Shrinks(t *testing.T) {
	src := make([]byte, 64) // 32 14-bit words.
	for i := range src {
		src[i] = byte(i*3 + 1)
	}
	out := make([]byte, ConvertedLen(len(src), BS14LE, BS16LE))
	n := Convert(src, BS14LE, out, BS16LE)
	want := 64 * 7 / 8
	if n != want {
		t.Errorf("converted length = %d, want %d", n, want)
	}
}

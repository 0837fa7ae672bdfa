/*
NAME
  flacbackend_test.go

DESCRIPTION
  flacbackend_test.go tests the FLAC Backend adapter.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package flacbackend

import "testing"

func TestCanDecodeStream(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"fLaC magic", []byte("fLaC\x00\x00\x00\x00"), true},
		{"too short", []byte("fLa"), false},
		{"not flac", []byte("RIFFxxxxWAVEfmt "), false},
	}
	b := New()
	for _, c := range cases {
		if got := b.CanDecodeStream(c.buf); got != c.want {
			t.Errorf("%s: CanDecodeStream() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	b := New()
	if _, err := b.Decode([]byte("not a flac stream")); err == nil {
		t.Error("Decode on garbage input: got nil error, want non-nil")
	}
}

/*
NAME
  chunk_test.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package chunk

import (
	"testing"

	"github.com/ausocean/spdif/spk"
)

func TestIsEmpty(t *testing.T) {
	var c Chunk
	if !c.IsEmpty() {
		t.Errorf("zero-value Chunk should be empty")
	}
	c.RawData = []byte{1, 2, 3}
	if c.IsEmpty() {
		t.Errorf("Chunk with RawData should not be empty")
	}
}

func TestIsRawAndIsLinearMutuallyExclusive(t *testing.T) {
	c := Chunk{RawData: []byte{1}}
	if !c.IsRaw() || c.IsLinear() {
		t.Errorf("expected IsRaw=true, IsLinear=false")
	}
	c2 := Chunk{Samples: []float64{0.5}}
	if c2.IsRaw() || !c2.IsLinear() {
		t.Errorf("expected IsRaw=false, IsLinear=true")
	}
}

func TestNewDummy(t *testing.T) {
	s := spk.New(spk.AC3, spk.Stereo, 48000)
	d := NewDummy(s, 1.5)
	if !d.Dummy || !d.IsEmpty() {
		t.Errorf("NewDummy should produce an empty dummy chunk")
	}
	if d.Timestamp != 1.5 {
		t.Errorf("Timestamp = %v, want 1.5", d.Timestamp)
	}
}

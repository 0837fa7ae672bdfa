/*
NAME
  noise_test.go

DESCRIPTION
  noise_test.go exercises the property that Wrapper.Process never panics
  on malformed input: every recoverable decode failure folds into a
  passthrough result or a false ok, never an unrecovered error escaping to
  the caller (see the recoverable-error policy this module follows).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wrapper

import (
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ausocean/spdif/chunk"
	"github.com/ausocean/spdif/spk"
)

// TestProcessSurvivesCorruptedFrames feeds the wrapper a large corpus of
// AC-3 frames with a random byte flipped to a random value, seeded so the
// corpus is reproducible across runs, and checks that Process always
// returns cleanly rather than panicking.
func TestProcessSurvivesCorruptedFrames(t *testing.T) {
	const seed = 23545
	const trials = 2000

	posDist := distuv.Uniform{Min: 0, Max: 127.999, Src: rand.NewSource(seed)}
	valDist := distuv.Uniform{Min: 0, Max: 255.999, Src: rand.NewSource(seed + 1)}

	w := New(Config{}, nil)
	w.Open(spk.New(spk.AC3, spk.Stereo, 48000))

	base := buildAC3Frame()
	for i := 0; i < trials; i++ {
		frame := make([]byte, len(base))
		copy(frame, base)
		pos := int(posDist.Rand())
		frame[pos] = byte(int(valDist.Rand()))

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("trial %d: Process panicked on corrupted byte at %d: %v", i, pos, r)
				}
			}()
			w.Process(chunk.Chunk{Spk: spk.New(spk.AC3, spk.Stereo, 48000), RawData: frame})
		}()
	}
}

/*
NAME
  fixture.go

DESCRIPTION
  fixture.go synthesizes WAV/PCM test vectors: a well-formed WAV
  container, a seeded PCM sample corpus, and little-endian PCM bytes,
  for tests that want these rather than a hand-built byte literal.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package fixture builds small in-memory WAV files and deterministic PCM
// corpora for tests, using the go-audio/wav encoder.
package fixture

import (
	"bytes"
	"io"
	"math/rand"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitsPerSample = 16

// writeSeeker is a memory-backed io.WriteSeeker, the shape the wav encoder
// needs.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		grown := make([]byte, end)
		copy(grown, ws.buf)
		ws.buf = grown
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		ws.pos = int(offset)
	case io.SeekCurrent:
		ws.pos += int(offset)
	case io.SeekEnd:
		ws.pos = len(ws.buf) + int(offset)
	}
	return int64(ws.pos), nil
}

// WAV encodes samples (one int per channel-interleaved sample, already in
// the 16-bit signed range) as a complete mono or multi-channel WAV file.
func WAV(sampleRate, channels int, samples []int) ([]byte, error) {
	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, bitsPerSample, channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:   samples,
	}
	if err := enc.Write(buf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// ToneSamples synthesizes a deterministic sequence of int16-range PCM
// samples, seeded so repeated calls with the same seed reproduce the same
// corpus. It does not attempt to be a real sine wave generator; it gives a
// stable, non-silent PCM corpus. The wrapper's noise-immunity test does not
// use it; that test draws its corrupt bytes from gonum's distuv.Uniform.
func ToneSamples(n int, seed int64) []int {
	r := rand.New(rand.NewSource(seed))
	out := make([]int, n)
	for i := range out {
		out[i] = r.Intn(60001) - 30000
	}
	return out
}

// PCMBytes packs samples as little-endian 16-bit signed PCM.
func PCMBytes(samples []int) []byte {
	var buf bytes.Buffer
	for _, s := range samples {
		buf.WriteByte(byte(s))
		buf.WriteByte(byte(s >> 8))
	}
	return buf.Bytes()
}

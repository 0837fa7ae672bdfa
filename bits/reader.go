/*
NAME
  reader.go

DESCRIPTION
  reader.go provides a MSB-first bit reader over one of five bitstream
  byte encodings used by compressed audio formats: plain bytes, 16-bit
  big/little endian words, and 14-bit big/little endian packed words.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a MSB-first bit reader that can operate across the
// five bitstream byte encodings used by AC-3, E-AC-3, DTS and MPEG audio:
// 8-bit, 16-bit big/little endian and 14-bit big/little endian (DTS-only).
package bits

import "github.com/pkg/errors"

// Encoding identifies how payload bits are packed into bytes on the wire.
type Encoding int

const (
	BS8 Encoding = iota // Plain bytes, MSB-first.
	BS16BE              // Big-endian 16-bit words; read in byte order, like BS8.
	BS16LE              // Little-endian 16-bit words; each byte pair is swapped before MSB-first extraction.
	BS14BE // 14 significant bits per 16-bit word; top two bits discarded.
	BS14LE
)

// String implements fmt.Stringer.
func (e Encoding) String() string {
	switch e {
	case BS8:
		return "BS_8"
	case BS16BE:
		return "BS_16BE"
	case BS16LE:
		return "BS_16LE"
	case BS14BE:
		return "BS_14BE"
	case BS14LE:
		return "BS_14LE"
	default:
		return "BS_unknown"
	}
}

// PayloadBits is the number of significant bits carried by each 16-bit word
// of the encoding: 16 for BS8/BS16*, 14 for BS14*.
func (e Encoding) PayloadBits() int {
	switch e {
	case BS14BE, BS14LE:
		return 14
	default:
		return 16
	}
}

// ErrShortRead is returned when a read runs past the caller-specified
// length. It maps to the BadBitstream error kind of the processing model.
var ErrShortRead = errors.New("bits: read ran past end of bitstream")

// Reader extracts bits MSB-first from a byte slice encoded in one of the
// five supported Encodings. Reader does not own the underlying slice and
// does not allocate; it is intended to be reused across frames via Reset.
type Reader struct {
	enc    Encoding
	words  []byte // Normalised to 8-bit MSB-aligned words, swapped/unpacked lazily per access.
	nbits  int    // Total readable bits.
	pos    int    // Current bit position from the start.
}

// NewReader returns a Reader over buf using the given Encoding. The number
// of usable bits is derived from len(buf) and enc's payload width: for 14
// bit encodings, 2 bits are discarded from each 16-bit word.
func NewReader(buf []byte, enc Encoding) *Reader {
	r := &Reader{}
	r.Reset(buf, enc)
	return r
}

// Reset rebinds the Reader to a new buffer and encoding, and seeks to bit 0.
func (r *Reader) Reset(buf []byte, enc Encoding) {
	r.enc = enc
	r.words = buf
	r.pos = 0
	switch enc {
	case BS14BE, BS14LE:
		r.nbits = (len(buf) / 2) * 14
	default:
		r.nbits = len(buf) * 8
	}
}

// BitsLeft returns the number of bits remaining before ErrShortRead would
// be returned.
func (r *Reader) BitsLeft() int { return r.nbits - r.pos }

// bitAt returns the value of logical bit index i (0 = MSB of the first
// payload word), after undoing byte-swapping (16LE) or high-bit discarding
// (14-bit encodings).
func (r *Reader) bitAt(i int) uint32 {
	switch r.enc {
	case BS8:
		byteIdx := i / 8
		shift := 7 - uint(i%8)
		return uint32(r.words[byteIdx]>>shift) & 1

	case BS16BE:
		byteIdx := i / 8
		shift := 7 - uint(i%8)
		return uint32(r.words[byteIdx]>>shift) & 1

	case BS16LE:
		// Each 16-bit word's two bytes are swapped before MSB-first reading.
		wordIdx := i / 16
		bitInWord := i % 16
		var b byte
		if bitInWord < 8 {
			b = r.words[wordIdx*2+1]
		} else {
			b = r.words[wordIdx*2]
			bitInWord -= 8
		}
		shift := 7 - uint(bitInWord)
		return uint32(b>>shift) & 1

	case BS14BE:
		wordIdx := i / 14
		bitInWord := i % 14
		hi := r.words[wordIdx*2]
		lo := r.words[wordIdx*2+1]
		word14 := (uint32(hi)<<8 | uint32(lo)) & 0x3fff
		shift := 13 - uint(bitInWord)
		return (word14 >> shift) & 1

	case BS14LE:
		wordIdx := i / 14
		bitInWord := i % 14
		lo := r.words[wordIdx*2]
		hi := r.words[wordIdx*2+1]
		word14 := (uint32(hi)<<8 | uint32(lo)) & 0x3fff
		shift := 13 - uint(bitInWord)
		return (word14 >> shift) & 1

	default:
		return 0
	}
}

// Get reads n bits (1 <= n <= 32) and returns them right-justified in a
// uint32. It returns ErrShortRead if fewer than n bits remain.
func (r *Reader) Get(n int) (uint32, error) {
	if n < 1 || n > 32 {
		return 0, errors.Errorf("bits: invalid read width %d", n)
	}
	if r.pos+n > r.nbits {
		return 0, ErrShortRead
	}
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | r.bitAt(r.pos+i)
	}
	r.pos += n
	return v, nil
}

// GetBool reads a single bit and returns it as a bool.
func (r *Reader) GetBool() (bool, error) {
	v, err := r.Get(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Skip advances the read position by n bits without decoding them.
func (r *Reader) Skip(n int) error {
	if r.pos+n > r.nbits {
		return ErrShortRead
	}
	r.pos += n
	return nil
}

// Pos returns the current bit offset from the start of the buffer.
func (r *Reader) Pos() int { return r.pos }

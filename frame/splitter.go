/*
NAME
  splitter.go

DESCRIPTION
  splitter.go implements Splitter, the byte-aligned scanner that locates
  frame boundaries in an arbitrary input stream using a parser's SyncInfo,
  establishes sync after three mutually agreeing headers, and thereafter
  validates each frame at its expected offset.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

// Splitter drives a Parser against an accumulating byte buffer. Callers
// push bytes with Write and pull whole frames with NextFrame; a false
// return from NextFrame means "not enough data yet", not an error -- the
// caller should Write more and try again.
type Splitter struct {
	parser Parser
	info   SyncInfo
	buf    []byte
}

// NewSplitter returns a Splitter driving p. p's SyncInfo is read once; a
// parser that changes its SyncInfo mid-stream is not supported.
func NewSplitter(p Parser) *Splitter {
	return &Splitter{parser: p, info: p.SyncInfo()}
}

// Write appends data to the Splitter's internal buffer.
func (s *Splitter) Write(data []byte) {
	s.buf = append(s.buf, data...)
}

// Reset drops any buffered bytes and the parser's latched sync state.
func (s *Splitter) Reset() {
	s.buf = s.buf[:0]
	s.parser.Reset()
}

// Pending returns the number of unconsumed bytes held in the Splitter.
func (s *Splitter) Pending() int { return len(s.buf) }

// NextFrame attempts to extract one complete frame from the buffered
// bytes. It returns ok=false when more data is required; the caller should
// Write more bytes and call again. The returned frame slice is a copy owned
// by the caller; it does not alias the Splitter's internal buffer.
func (s *Splitter) NextFrame() (frameBytes []byte, info Info, ok bool) {
	if s.parser.InSync() {
		frameBytes, info, ok = s.tryInSync()
		if ok {
			return frameBytes, info, true
		}
		if s.parser.InSync() {
			// Not enough data yet; not a mismatch.
			return nil, Info{}, false
		}
		// NextFrame rejected the frame: fall through to resync.
	}
	return s.resync()
}

// tryInSync validates the frame at the expected offset (the latched frame
// size) against the parser's latched state.
func (s *Splitter) tryInSync() ([]byte, Info, bool) {
	latched := s.parser.FrameInfo()
	size := latched.FrameSize
	if size <= 0 {
		size = s.info.MaxFrameSize
	}
	if len(s.buf) < size {
		return nil, Info{}, false
	}
	frame := s.buf[:size]
	if !s.parser.NextFrame(frame) {
		return nil, Info{}, false
	}
	out := append([]byte(nil), frame...)
	s.consume(size)
	return out, s.parser.FrameInfo(), true
}

// resync scans for three mutually agreeing headers, starting at the front
// of the buffer, advancing one byte at a time on failure.
func (s *Splitter) resync() ([]byte, Info, bool) {
	hdrSize := s.parser.HeaderSize()
	for start := 0; start+hdrSize <= len(s.buf); start++ {
		if !s.trieMatch(start) {
			continue
		}
		h1, ok := s.parser.ParseHeader(s.buf[start : start+hdrSize])
		if !ok {
			continue
		}
		step1 := h1.FrameSize
		if step1 <= 0 {
			step1 = s.info.MaxFrameSize
		}
		pos2 := start + step1
		if pos2+hdrSize > len(s.buf) {
			continue
		}
		h2, ok := s.parser.ParseHeader(s.buf[pos2 : pos2+hdrSize])
		if !ok || !s.parser.CompareHeaders(h1, h2) {
			continue
		}
		step2 := h2.FrameSize
		if step2 <= 0 {
			step2 = s.info.MaxFrameSize
		}
		pos3 := pos2 + step2
		if pos3+hdrSize > len(s.buf) {
			continue
		}
		h3, ok := s.parser.ParseHeader(s.buf[pos3 : pos3+hdrSize])
		if !ok || !s.parser.CompareHeaders(h2, h3) {
			continue
		}

		if step1+start > len(s.buf) {
			continue
		}
		frame := s.buf[start : start+step1]
		if !s.parser.FirstFrame(frame) {
			continue
		}
		out := append([]byte(nil), frame...)
		s.consume(start + step1)
		return out, s.parser.FrameInfo(), true
	}
	// No candidate found (yet); drop bytes that can no longer participate
	// in a future match, bounded by MaxFrameSize so the buffer doesn't
	// grow without limit while scanning silence or noise.
	if len(s.buf) > s.info.MaxFrameSize*3 {
		s.consume(len(s.buf) - s.info.MaxFrameSize)
	}
	return nil, Info{}, false
}

// trieMatch checks whether the leading bytes at offset start in the
// buffer match the parser's sync trie. Up to 32 bits are presented
// regardless of the pattern's actual width; SyncTrie.Matches returns true
// as soon as a terminal node is reached along the walked path.
func (s *Splitter) trieMatch(start int) bool {
	var window uint32
	n := len(s.buf) - start
	if n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		window = window<<8 | uint32(s.buf[start+i])
	}
	return s.info.Trie.Matches(window, n*8)
}

func (s *Splitter) consume(n int) {
	s.buf = append(s.buf[:0], s.buf[n:]...)
}

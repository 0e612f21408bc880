/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reader.go
Description: Sequential word reader over an in-memory buffer. Reads strictly
left to right from a start offset, four bytes at a time, and treats a
truncated trailing word as a normal end of stream.
*/

package scan

import (
	"errors"
	"fmt"
)

// ErrSeekOutOfRange is returned when the requested start offset lies beyond the buffer
var ErrSeekOutOfRange = errors.New("start offset out of range")

// WordReader yields words from a byte buffer
// It is single use: once exhausted it stays exhausted.
type WordReader struct {
	buf    []byte
	cursor uint64
}

// NewWordReader creates a reader positioned at start.
// A start equal to the buffer length is valid and yields no words.
func NewWordReader(buf []byte, start uint64) (*WordReader, error) {
	if start > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: offset %d exceeds buffer length %d", ErrSeekOutOfRange, start, len(buf))
	}
	return &WordReader{buf: buf, cursor: start}, nil
}

// Next returns the next word and the offset it starts at.
// ok is false once fewer than WordSize bytes remain.
func (r *WordReader) Next() (w Word, offset uint64, ok bool) {
	if uint64(len(r.buf))-r.cursor < WordSize {
		return Word{}, r.cursor, false
	}
	offset = r.cursor
	copy(w[:], r.buf[offset:offset+WordSize])
	r.cursor += WordSize
	return w, offset, true
}

// Offset returns the current cursor position
func (r *WordReader) Offset() uint64 {
	return r.cursor
}

// Remaining returns the number of whole words left to read
func (r *WordReader) Remaining() uint64 {
	return (uint64(len(r.buf)) - r.cursor) / WordSize
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: word.go
Description: Word and endianness primitives for the blob scanner. A word is the
fixed 4-byte unit every scan operates on; endianness selects how those bytes
are decoded and never changes during a scan.
*/

package scan

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedEndian is returned for a byte order other than big or little
var ErrUnsupportedEndian = errors.New("unsupported endianness")

// WordSize is the number of bytes in a single word
const WordSize = 4

// Word is exactly four raw bytes read from the buffer
type Word [WordSize]byte

// IsZero reports whether every byte of the word is zero
func (w Word) IsZero() bool {
	return w == Word{}
}

// Endian represents the byte order used to decode words
type Endian string

const (
	EndianLittle Endian = "little"
	EndianBig    Endian = "big"
)

// ParseEndian converts a user-supplied string into an Endian value
func ParseEndian(s string) (Endian, error) {
	switch Endian(strings.ToLower(strings.TrimSpace(s))) {
	case EndianLittle:
		return EndianLittle, nil
	case EndianBig:
		return EndianBig, nil
	default:
		return "", fmt.Errorf("%w: %q (expected big or little)", ErrUnsupportedEndian, s)
	}
}

// Order returns the binary.ByteOrder matching the endianness
func (e Endian) Order() binary.ByteOrder {
	if e == EndianBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// String implements fmt.Stringer
func (e Endian) String() string {
	return string(e)
}

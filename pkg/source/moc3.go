/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: moc3.go
Description: Moc3 header sniffing. Only the fixed 64-byte preamble is read: magic,
format version and the endianness flag. Everything past it is left to the
scanner.
*/

package source

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/kleascm/blobscan/pkg/scan"
)

const (
	// MocHeaderSize is the size of the moc3 preamble
	MocHeaderSize = 64
	mocMagic      = "MOC3"
)

// ErrNotMoc is returned when a buffer does not start with the moc3 magic
var ErrNotMoc = errors.New("not a moc3 buffer")

var mocVersions = map[byte]string{
	1: "3.0.00",
	2: "3.3.00",
	3: "4.0.00",
	4: "4.2.00",
	5: "5.0.00",
}

// MocHeader is the parsed moc3 preamble
type MocHeader struct {
	Version   byte
	BigEndian bool
}

// ParseMocHeader reads the preamble of a moc3 buffer
func ParseMocHeader(data []byte) (*MocHeader, error) {
	if len(data) < MocHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrNotMoc, len(data))
	}
	if !bytes.Equal(data[:4], []byte(mocMagic)) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrNotMoc, data[:4])
	}
	return &MocHeader{
		Version:   data[4],
		BigEndian: data[5] != 0,
	}, nil
}

// Endian returns the byte order declared by the header
func (h *MocHeader) Endian() scan.Endian {
	if h.BigEndian {
		return scan.EndianBig
	}
	return scan.EndianLittle
}

// VersionName returns the SDK version string for the format version
func (h *MocHeader) VersionName() string {
	if name, ok := mocVersions[h.Version]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", h.Version)
}

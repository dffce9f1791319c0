// Package pefile parses just enough of the PE header chain to find the raw
// on-disk range of the .text section. Every multi-byte field is read through
// a bounds-checked little-endian helper; the buffer is never aliased as a
// header struct and never indexed past its end, so corrupt or truncated
// files fail instead of crashing.
package pefile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	dosSignature = 0x5A4D     // "MZ"
	ntSignature  = 0x00004550 // "PE\0\0"

	// Anything smaller cannot plausibly hold a parseable header chain.
	minFileSize = 0x1000

	sectionHeaderSize = 40
	sectionNameText   = ".text"
)

// ErrNoTextSection is returned when the section table holds no .text entry
// whose raw range fits inside the file.
var ErrNoTextSection = errors.New("no .text section")

// ErrBadHeader is returned for files that are too small or fail the DOS/PE
// signature and range checks.
var ErrBadHeader = errors.New("malformed PE header")

// Section is the raw on-disk range of a section. A Section produced by
// LocateTextSection always satisfies Offset+Size <= len(buffer).
type Section struct {
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
}

// End returns the first byte offset past the section.
func (s Section) End() int64 { return int64(s.Offset) + int64(s.Size) }

func readU16(buf []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(buf[off:]), true
}

func readU32(buf []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[off:]), true
}

// LocateTextSection walks the DOS header, PE signature and section table of
// buf and returns the raw file range of the .text section.
//
// Section name fields are not guaranteed to be null-terminated, so exactly
// the first five name bytes are compared. A .text record whose raw pointer
// and size reach past the end of the file is treated as absent rather than
// an error, as is a section table that runs off the buffer.
func LocateTextSection(buf []byte) (Section, error) {
	if len(buf) < minFileSize {
		return Section{}, fmt.Errorf("%w: file too small (%d bytes)", ErrBadHeader, len(buf))
	}
	if magic, ok := readU16(buf, 0); !ok || magic != dosSignature {
		return Section{}, fmt.Errorf("%w: missing MZ signature", ErrBadHeader)
	}
	lfanew, ok := readU32(buf, 0x3C)
	if !ok {
		return Section{}, fmt.Errorf("%w: truncated DOS header", ErrBadHeader)
	}
	peOff := int(lfanew)
	if int64(lfanew)+0x18 > int64(len(buf)) {
		return Section{}, fmt.Errorf("%w: e_lfanew out of range", ErrBadHeader)
	}
	if sig, ok := readU32(buf, peOff); !ok || sig != ntSignature {
		return Section{}, fmt.Errorf("%w: missing PE signature", ErrBadHeader)
	}
	numSections, _ := readU16(buf, peOff+6)
	optHeaderSize, _ := readU16(buf, peOff+20)

	tableOff := peOff + 24 + int(optHeaderSize)
	for i := 0; i < int(numSections); i++ {
		rec := tableOff + i*sectionHeaderSize
		if rec < 0 || rec+sectionHeaderSize > len(buf) {
			break
		}
		if string(buf[rec:rec+len(sectionNameText)]) != sectionNameText {
			continue
		}
		rawSize, _ := readU32(buf, rec+16)
		rawPtr, _ := readU32(buf, rec+20)
		if uint64(rawPtr)+uint64(rawSize) > uint64(len(buf)) {
			// Corrupt or truncated record; keep walking the table.
			continue
		}
		return Section{Offset: rawPtr, Size: rawSize}, nil
	}
	return Section{}, ErrNoTextSection
}

// ExtractTextSection locates the .text section of the file at src and writes
// exactly those bytes, verbatim, to dst. It returns the located range.
func ExtractTextSection(src, dst string) (Section, error) {
	buf, err := os.ReadFile(src)
	if err != nil {
		return Section{}, err
	}
	sec, err := LocateTextSection(buf)
	if err != nil {
		return Section{}, err
	}
	if err := os.WriteFile(dst, buf[sec.Offset:sec.End()], 0644); err != nil {
		return Section{}, err
	}
	return sec, nil
}

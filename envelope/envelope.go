// Package envelope implements the outer framing of the referee serial link:
// a CRC8-protected header followed by a command, its data and a CRC16 over
// the whole frame.
package envelope

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Start is the first byte of every frame
const Start = 0xa5

// CommandInteraction is the command carrying robot-to-client interaction data
const CommandInteraction uint16 = 0x0301

// Sizes of the fixed parts of a frame
const (
	HeaderSize   = 5
	CommandSize  = 2
	TrailerSize  = 2
	OverheadSize = HeaderSize + CommandSize + TrailerSize
)

// Errors returned by Open
var (
	ErrShort     = errors.New("frame too short")
	ErrStart     = errors.New("bad start byte")
	ErrHeaderCRC = errors.New("header CRC mismatch")
	ErrFrameCRC  = errors.New("frame CRC mismatch")
)

// Seal wraps data into a complete frame
func Seal(seq uint8, command uint16, data []byte) []byte {
	if len(data) > 0xffff {
		panic(fmt.Errorf("frame data too long: %d bytes", len(data)))
	}
	b := make([]byte, 0, OverheadSize+len(data))
	b = append(b, Start)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(data)))
	b = append(b, seq)
	b = append(b, CRC8(b))
	b = binary.LittleEndian.AppendUint16(b, command)
	b = append(b, data...)
	return binary.LittleEndian.AppendUint16(b, CRC16(b))
}

// Open validates a complete frame and returns its sequence number, command
// and data. The returned data aliases b.
func Open(b []byte) (seq uint8, command uint16, data []byte, err error) {
	if len(b) < OverheadSize {
		return 0, 0, nil, ErrShort
	}
	if b[0] != Start {
		return 0, 0, nil, ErrStart
	}
	if CRC8(b[:HeaderSize-1]) != b[HeaderSize-1] {
		return 0, 0, nil, ErrHeaderCRC
	}
	n := int(binary.LittleEndian.Uint16(b[1:]))
	if len(b) < OverheadSize+n {
		return 0, 0, nil, ErrShort
	}
	end := HeaderSize + CommandSize + n
	if CRC16(b[:end]) != binary.LittleEndian.Uint16(b[end:]) {
		return 0, 0, nil, ErrFrameCRC
	}
	return b[3], binary.LittleEndian.Uint16(b[HeaderSize:]), b[HeaderSize+CommandSize : end], nil
}

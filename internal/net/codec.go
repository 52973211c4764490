package net

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds the total length field of a frame.
const MaxFrameSize = 0xFFFF

// Frame is one decoded packet: an opcode and its payload.
type Frame struct {
	Opcode  byte
	Payload []byte
}

// ReadFrame reads one frame from r.
// Wire format: [2 bytes LE: total length including header][opcode][payload].
func ReadFrame(r io.Reader) (Frame, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, fmt.Errorf("read frame header: %w", err)
	}

	bodyLen := int(binary.LittleEndian.Uint16(header[:])) - 2
	if bodyLen < 1 {
		return Frame{}, fmt.Errorf("invalid frame length: %d", bodyLen+2)
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, fmt.Errorf("read frame body (%d bytes): %w", bodyLen, err)
	}
	return Frame{Opcode: body[0], Payload: body[1:]}, nil
}

// EncodeFrame returns the wire form of opcode and payload.
func EncodeFrame(opcode byte, payload []byte) ([]byte, error) {
	total := len(payload) + 3
	if total > MaxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes", total)
	}
	buf := make([]byte, total)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(total))
	buf[2] = opcode
	copy(buf[3:], payload)
	return buf, nil
}

// WriteFrame encodes and writes one frame to w.
func WriteFrame(w io.Writer, opcode byte, payload []byte) error {
	buf, err := EncodeFrame(opcode, payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

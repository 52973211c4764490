package packet

import (
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
)

// Writer builds a packet payload with the same field encodings Reader
// understands.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Put appends an integer field. Values are truncated to the width.
func (w *Writer) Put(width Width, order binary.ByteOrder, v int) *Writer {
	switch width {
	case Byte:
		w.buf = append(w.buf, byte(v))
	case Short:
		var b [2]byte
		order.PutUint16(b[:], uint16(v))
		w.buf = append(w.buf, b[:]...)
	default:
		var b [4]byte
		order.PutUint32(b[:], uint32(v))
		w.buf = append(w.buf, b[:]...)
	}
	return w
}

func (w *Writer) Byte(v int) *Writer  { return w.Put(Byte, BigEndian, v) }
func (w *Writer) Short(v int) *Writer { return w.Put(Short, BigEndian, v) }
func (w *Writer) Int(v int) *Writer   { return w.Put(Int, BigEndian, v) }

// String appends s encoded as Windows-1252 plus the terminator. Characters
// outside the code page are written as '?'.
func (w *Writer) String(s string) *Writer {
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		w.buf = append(w.buf, b)
	}
	w.buf = append(w.buf, StringTerminator)
	return w
}

func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the payload built so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

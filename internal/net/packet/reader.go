package packet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// ErrProtocol marks a packet that cannot be decoded: unknown opcode, wrong
// size, or a read past the end of the payload.
var ErrProtocol = errors.New("protocol error")

// StringTerminator ends every string field.
const StringTerminator byte = 10

// Width is the size of an integer field in bytes.
type Width int

const (
	Byte  Width = 1
	Short Width = 2
	Int   Width = 4
)

// Sign selects how a field's top bit is interpreted.
type Sign bool

const (
	Unsigned Sign = false
	Signed   Sign = true
)

var (
	BigEndian    binary.ByteOrder = binary.BigEndian
	LittleEndian binary.ByteOrder = binary.LittleEndian
)

// Reader reads fields from a packet payload (opcode already stripped).
// The first failed read is kept in Err and every later read returns 0.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Get reads one integer field.
func (r *Reader) Get(w Width, sign Sign, order binary.ByteOrder) int {
	if r.err != nil {
		return 0
	}
	n := int(w)
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: read %d bytes at offset %d of %d", ErrProtocol, n, r.off, len(r.data))
		r.off = len(r.data)
		return 0
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	switch w {
	case Byte:
		if sign == Signed {
			return int(int8(b[0]))
		}
		return int(b[0])
	case Short:
		v := order.Uint16(b)
		if sign == Signed {
			return int(int16(v))
		}
		return int(v)
	default:
		v := order.Uint32(b)
		if sign == Signed {
			return int(int32(v))
		}
		return int(v)
	}
}

// Byte reads one unsigned byte.
func (r *Reader) Byte() int { return r.Get(Byte, Unsigned, BigEndian) }

// Short reads an unsigned big-endian short, the default encoding.
func (r *Reader) Short() int { return r.Get(Short, Unsigned, BigEndian) }

func (r *Reader) Int() int { return r.Get(Int, Signed, BigEndian) }

// String reads a Windows-1252 string up to StringTerminator and returns it
// as UTF-8. A missing terminator is a protocol error.
func (r *Reader) String() string {
	if r.err != nil {
		return ""
	}
	start := r.off
	for r.off < len(r.data) {
		if r.data[r.off] == StringTerminator {
			raw := r.data[start:r.off]
			r.off++
			return decodeString(raw)
		}
		r.off++
	}
	r.err = fmt.Errorf("%w: unterminated string at offset %d", ErrProtocol, start)
	return ""
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: read %d bytes at offset %d of %d", ErrProtocol, n, r.off, len(r.data))
		r.off = len(r.data)
		return nil
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:r.off+n])
	r.off += n
	return b
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Err returns the first read failure, if any.
func (r *Reader) Err() error { return r.err }

func decodeString(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	ascii := true
	for _, b := range raw {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

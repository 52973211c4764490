package packet

import (
	"fmt"

	"github.com/l1jgo/worldcore/internal/entity"
	"go.uber.org/zap"
)

// VariableSize marks a decoder that accepts any payload length.
const VariableSize = -1

// HandlerFunc decodes one packet from player p. A returned error is logged;
// it never disconnects the player.
type HandlerFunc func(p *entity.Player, r *Reader) error

// Decoder describes an inbound packet type.
type Decoder struct {
	Opcode byte
	Name   string
	Size   int // payload bytes, or VariableSize
	Handle HandlerFunc
}

// Registry maps opcodes to decoders.
type Registry struct {
	decoders map[byte]*Decoder
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		decoders: make(map[byte]*Decoder),
		log:      log,
	}
}

// Register installs d, replacing any decoder with the same opcode.
func (reg *Registry) Register(d Decoder) {
	reg.decoders[d.Opcode] = &d
}

func (reg *Registry) Lookup(opcode byte) (*Decoder, bool) {
	d, ok := reg.decoders[opcode]
	return d, ok
}

// Dispatch decodes payload as opcode on behalf of p. Unknown opcodes, size
// mismatches, short reads and handler panics return ErrProtocol.
func (reg *Registry) Dispatch(p *entity.Player, opcode byte, payload []byte) error {
	d, ok := reg.decoders[opcode]
	if !ok {
		reg.log.Debug("unknown opcode", zap.Uint8("opcode", opcode), zap.Int("size", len(payload)))
		return fmt.Errorf("%w: unknown opcode %d", ErrProtocol, opcode)
	}
	if d.Size != VariableSize && len(payload) != d.Size {
		return fmt.Errorf("%w: %s expects %d bytes, got %d", ErrProtocol, d.Name, d.Size, len(payload))
	}

	r := NewReader(payload)
	if err := reg.safeCall(d, p, r); err != nil {
		return err
	}
	return nil
}

// safeCall runs a handler with panic recovery so one bad packet cannot
// take down the tick.
func (reg *Registry) safeCall(d *Decoder, p *entity.Player, r *Reader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("decoder panic recovered",
				zap.Uint8("opcode", d.Opcode),
				zap.String("decoder", d.Name),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("%w: %s panicked: %v", ErrProtocol, d.Name, rec)
		}
	}()
	if err := d.Handle(p, r); err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	if r.Err() != nil {
		return fmt.Errorf("%s: %w", d.Name, r.Err())
	}
	return nil
}

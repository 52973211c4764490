package gateway

import (
	"encoding/json"
	"time"

	coresys "github.com/l1jgo/worldcore/internal/core/system"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/outbound"
	"go.uber.org/zap"
)

// FrameSink encodes intents as JSON frames on the observer's session.
type FrameSink struct {
	dir *Directory
	log *zap.Logger
}

func NewFrameSink(dir *Directory, log *zap.Logger) *FrameSink {
	return &FrameSink{dir: dir, log: log}
}

func (s *FrameSink) Deliver(to *entity.Player, in outbound.Intent) {
	sess, ok := s.dir.Session(to)
	if !ok {
		return
	}
	data, err := json.Marshal(in)
	if err != nil {
		s.log.Error("encode intent", zap.Stringer("kind", in.Kind), zap.Error(err))
		return
	}
	sess.Send(OpIntent, data)
}

// OutputSystem flushes frames produced after the input phase. Phase 4 (Reset).
type OutputSystem struct {
	dir *Directory
}

func NewOutputSystem(dir *Directory) *OutputSystem {
	return &OutputSystem{dir: dir}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseReset }

func (s *OutputSystem) Update(_ time.Duration) {
	for _, sess := range s.dir.Sessions() {
		sess.FlushOutput()
	}
}

package messaging

import (
	"encoding/json"
	"strings"

	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/outbound"
	"go.uber.org/zap"
)

// Message is the payload published for every delivered intent.
type Message struct {
	Player string          `json:"player"`
	Tick   uint64          `json:"tick"`
	Intent outbound.Intent `json:"intent"`
}

// IntentSink publishes every intent to <prefix>.<username>. Fake players
// are not mirrored.
type IntentSink struct {
	pub    Publisher
	prefix string
	tick   func() uint64
	log    *zap.Logger
	failed int
}

func NewIntentSink(pub Publisher, prefix string, tick func() uint64, log *zap.Logger) *IntentSink {
	return &IntentSink{
		pub:    pub,
		prefix: prefix,
		tick:   tick,
		log:    log,
	}
}

// Subject returns the subject intents for username are published on.
func (s *IntentSink) Subject(username string) string {
	return s.prefix + "." + subjectToken(username)
}

func (s *IntentSink) Deliver(to *entity.Player, in outbound.Intent) {
	if to.Fake {
		return
	}
	data, err := json.Marshal(Message{Player: to.Username, Tick: s.tick(), Intent: in})
	if err != nil {
		s.log.Error("encode intent", zap.Stringer("kind", in.Kind), zap.Error(err))
		return
	}
	if err := s.pub.Publish(s.Subject(to.Username), data); err != nil {
		s.failed++
		// one line per burst of failures
		if s.failed == 1 {
			s.log.Warn("publish intent failed", zap.String("player", to.Username), zap.Error(err))
		}
		return
	}
	s.failed = 0
}

// subjectToken makes a username safe as a single NATS subject token.
func subjectToken(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '*', '>', '\t':
			return '_'
		}
		return r
	}, strings.ToLower(name))
}

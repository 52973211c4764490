package outbound

import (
	"github.com/l1jgo/worldcore/internal/entity"
	"go.uber.org/zap"
)

// Sink receives intents addressed to one observer. Deliver is called on the
// tick goroutine during the sync phase and must not block.
type Sink interface {
	Deliver(to *entity.Player, in Intent)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(to *entity.Player, in Intent)

func (f SinkFunc) Deliver(to *entity.Player, in Intent) { f(to, in) }

// MultiSink fans every intent out to each sink in order.
type MultiSink []Sink

func (m MultiSink) Deliver(to *entity.Player, in Intent) {
	for _, s := range m {
		s.Deliver(to, in)
	}
}

// LogSink writes intents at debug level.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) Deliver(to *entity.Player, in Intent) {
	s.Log.Debug("outbound",
		zap.String("to", to.Username),
		zap.Stringer("kind", in.Kind),
		zap.Stringer("position", in.Position),
	)
}

// Envelope is an addressed intent.
type Envelope struct {
	To     *entity.Player
	Intent Intent
}

// Queue is a double-buffered outbound queue. Intents pushed during tick N
// are delivered by the Flush of tick N's sync phase; anything pushed while
// flushing lands in the next batch.
type Queue struct {
	front []Envelope
	back  []Envelope
}

func NewQueue() *Queue {
	return &Queue{
		front: make([]Envelope, 0, 256),
		back:  make([]Envelope, 0, 256),
	}
}

func (q *Queue) Push(to *entity.Player, in Intent) {
	q.back = append(q.back, Envelope{To: to, Intent: in})
}

func (q *Queue) Pending() int { return len(q.back) }

// Flush delivers all queued intents in push order and returns how many
// were delivered.
func (q *Queue) Flush(s Sink) int {
	q.front, q.back = q.back, q.front[:0]
	for i := range q.front {
		e := &q.front[i]
		s.Deliver(e.To, e.Intent)
		e.To = nil
	}
	n := len(q.front)
	q.front = q.front[:0]
	return n
}

// Recorder is an in-memory Sink that keeps everything it receives.
type Recorder struct {
	Delivered []Envelope
}

func (r *Recorder) Deliver(to *entity.Player, in Intent) {
	r.Delivered = append(r.Delivered, Envelope{To: to, Intent: in})
}

// For returns the intents delivered to p, optionally filtered by kind.
func (r *Recorder) For(p *entity.Player, kinds ...Kind) []Intent {
	var out []Intent
	for _, e := range r.Delivered {
		if e.To != p {
			continue
		}
		if len(kinds) > 0 && !containsKind(kinds, e.Intent.Kind) {
			continue
		}
		out = append(out, e.Intent)
	}
	return out
}

func (r *Recorder) Reset() { r.Delivered = r.Delivered[:0] }

func containsKind(ks []Kind, k Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

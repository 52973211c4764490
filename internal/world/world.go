package world

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/core/arena"
	"github.com/l1jgo/worldcore/internal/core/clock"
	coresys "github.com/l1jgo/worldcore/internal/core/system"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/outbound"
	"github.com/l1jgo/worldcore/internal/spatial"
	"go.uber.org/zap"
)

// Defaults for Options fields left zero.
const (
	DefaultMaxPlayers       = 1000
	DefaultMaxNpcs          = 30000
	DefaultPrivateItemTicks = 100
	DefaultViewDistance     = 30
)

// ErrNoCapacity is returned by New when an arena would have no slots.
var ErrNoCapacity = errors.New("world has no entity capacity")

type Options struct {
	TickLength       time.Duration
	MaxPlayers       int
	MaxNpcs          int
	PrivateItemTicks int   // ticks before a private ground item becomes public
	ViewDistance     int   // side of the square observers see mobs in
	Seed             int64 // npc wander randomness; 0 = time based
	Clock            clock.Clock
}

func (o *Options) applyDefaults() {
	if o.TickLength <= 0 {
		o.TickLength = coresys.DefaultTickLength
	}
	if o.MaxPlayers == 0 {
		o.MaxPlayers = DefaultMaxPlayers
	}
	if o.MaxNpcs == 0 {
		o.MaxNpcs = DefaultMaxNpcs
	}
	if o.PrivateItemTicks <= 0 {
		o.PrivateItemTicks = DefaultPrivateItemTicks
	}
	if o.ViewDistance <= 0 {
		o.ViewDistance = DefaultViewDistance
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
}

// World is the simulation context: entity arenas, the chunk grid, the two
// proximity indices, the hook registry and the outbound queue. Everything
// except the timer mailbox is owned by the tick goroutine.
type World struct {
	log  *zap.Logger
	opts Options
	clk  clock.Clock

	Chunks  *chunk.Manager
	Actions *action.Registry

	players   *arena.Arena[*entity.Player]
	npcs      *arena.Arena[*entity.Npc]
	playerIdx *spatial.Index[*entity.Player]
	npcIdx    *spatial.Index[*entity.Npc]

	queue *outbound.Queue
	sink  outbound.Sink

	mail      mailbox
	timerMu   sync.Mutex
	timers    map[clock.Timer]struct{}
	scheduled []scheduledTask
	tick      uint64

	rng    *rand.Rand
	closed bool
}

func New(chunks *chunk.Manager, actions *action.Registry, sink outbound.Sink, opts Options, log *zap.Logger) (*World, error) {
	opts.applyDefaults()
	if opts.MaxPlayers < 0 || opts.MaxNpcs < 0 {
		return nil, fmt.Errorf("players=%d npcs=%d: %w", opts.MaxPlayers, opts.MaxNpcs, ErrNoCapacity)
	}
	if sink == nil {
		sink = outbound.LogSink{Log: log}
	}
	return &World{
		log:       log,
		opts:      opts,
		clk:       opts.Clock,
		Chunks:    chunks,
		Actions:   actions,
		players:   arena.New[*entity.Player](opts.MaxPlayers),
		npcs:      arena.New[*entity.Npc](opts.MaxNpcs),
		playerIdx: spatial.New[*entity.Player](),
		npcIdx:    spatial.New[*entity.Npc](),
		queue:     outbound.NewQueue(),
		sink:      sink,
		timers:    make(map[clock.Timer]struct{}),
		rng:       rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Close stops every outstanding wall-clock timer. Pending mailbox work is
// discarded.
func (w *World) Close() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	for t := range w.timers {
		t.Stop()
	}
	clear(w.timers)
	w.closed = true
}

func (w *World) Log() *zap.Logger          { return w.log }
func (w *World) TickLength() time.Duration { return w.opts.TickLength }

// Tick returns the number of ticks processed so far.
func (w *World) Tick() uint64 { return w.tick }

// Send queues an intent for delivery to p during the next sync phase.
func (w *World) Send(p *entity.Player, in outbound.Intent) {
	w.queue.Push(p, in)
}

func (w *World) SendMessage(p *entity.Player, msg string) {
	w.queue.Push(p, outbound.Text(msg))
}

// OpenWidget shows an interface to p.
func (w *World) OpenWidget(p *entity.Player, widgetID int, lines []string) {
	p.ActiveWidget = widgetID
	w.queue.Push(p, outbound.Intent{Kind: outbound.OpenWidget, WidgetID: widgetID, Lines: lines})
}

// CloseWidgets closes p's interfaces and cancels any pending input
// continuation. Safe to call when nothing is open.
func (w *World) CloseWidgets(p *entity.Player) {
	if p.HasWidget() {
		p.ActiveWidget = entity.NoWidget
		w.queue.Push(p, outbound.Intent{Kind: outbound.CloseWidgets})
	}
	p.Pipeline().CloseInteraction()
}

// Dispatch routes an inbound event to content hooks.
func (w *World) Dispatch(ev *action.Event) bool {
	return w.Actions.Dispatch(ev)
}

// notifyAround queues in for every player in the 5x5 chunk block around c.
func (w *World) notifyAround(c *chunk.Chunk, in outbound.Intent, skip func(*entity.Player) bool) {
	for _, nc := range w.Chunks.SurroundingChunks(c) {
		for _, p := range nc.Players() {
			if skip != nil && skip(p) {
				continue
			}
			w.queue.Push(p, in)
		}
	}
}

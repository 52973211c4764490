// Package gateway connects client sessions to the world: login, per-tick
// input draining, disconnect cleanup and outbound frame delivery.
package gateway

import (
	"context"
	"time"

	"github.com/l1jgo/worldcore/internal/coord"
	coresys "github.com/l1jgo/worldcore/internal/core/system"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/net"
	"github.com/l1jgo/worldcore/internal/net/packet"
	"github.com/l1jgo/worldcore/internal/persist"
	"go.uber.org/zap"
)

// Acceptor yields newly connected sessions.
type Acceptor interface {
	NewSessions() <-chan *net.Session
}

// World is the part of world.World the gateway drives.
type World interface {
	RegisterPlayer(p *entity.Player) error
	DeregisterPlayer(p *entity.Player) bool
	PlayerByName(name string) (*entity.Player, bool)
}

type Options struct {
	Spawn       coord.Position
	MaxPerTick  int // frames drained per session per tick
	AutoCreate  bool
	MaxAttempts int // failed logins before the session is dropped
	DBTimeout   time.Duration
}

func (o *Options) applyDefaults() {
	if o.MaxPerTick <= 0 {
		o.MaxPerTick = 16
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.DBTimeout <= 0 {
		o.DBTimeout = 5 * time.Second
	}
}

// Gateway is the input system. Phase 1 (Input).
type Gateway struct {
	acceptor Acceptor
	dir      *Directory
	world    World
	registry *packet.Registry
	accounts persist.Accounts
	saves    persist.Saves
	opts     Options
	log      *zap.Logger

	attempts map[uint64]int
}

func New(acceptor Acceptor, dir *Directory, w World, registry *packet.Registry, accounts persist.Accounts, saves persist.Saves, opts Options, log *zap.Logger) *Gateway {
	opts.applyDefaults()
	return &Gateway{
		acceptor: acceptor,
		dir:      dir,
		world:    w,
		registry: registry,
		accounts: accounts,
		saves:    saves,
		opts:     opts,
		log:      log,
		attempts: make(map[uint64]int),
	}
}

func (g *Gateway) Phase() coresys.Phase { return coresys.PhaseInput }

func (g *Gateway) Update(_ time.Duration) {
	g.accept()

	for _, sess := range g.dir.Sessions() {
		if sess.IsClosed() {
			g.drain(sess)
			g.disconnect(sess)
			continue
		}
		g.drain(sess)
	}

	// Early flush so login replies and echoes leave before the sync phase.
	for _, sess := range g.dir.Sessions() {
		sess.FlushOutput()
	}
}

func (g *Gateway) accept() {
	for {
		select {
		case sess := <-g.acceptor.NewSessions():
			g.dir.addSession(sess)
		default:
			return
		}
	}
}

func (g *Gateway) drain(sess *net.Session) {
	for i := 0; i < g.opts.MaxPerTick; i++ {
		select {
		case f := <-sess.InQueue:
			g.handle(sess, f)
		default:
			return
		}
	}
}

func (g *Gateway) handle(sess *net.Session, f net.Frame) {
	switch sess.State() {
	case net.StateLogin:
		if f.Opcode != OpLogin {
			g.log.Debug("frame before login ignored",
				zap.Uint64("session", sess.ID),
				zap.Uint8("opcode", f.Opcode),
			)
			return
		}
		g.login(sess, f.Payload)
	default:
		p, ok := g.dir.Player(sess)
		if !ok {
			return
		}
		if err := g.registry.Dispatch(p, f.Opcode, f.Payload); err != nil {
			g.log.Debug("packet dispatch error",
				zap.Uint64("session", sess.ID),
				zap.String("player", p.Username),
				zap.Error(err),
			)
		}
	}
}

// disconnect saves the player, frees its slot and forgets the session.
func (g *Gateway) disconnect(sess *net.Session) {
	delete(g.attempts, sess.ID)
	p, ok := g.dir.Player(sess)
	g.dir.removeSession(sess)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.opts.DBTimeout)
	defer cancel()
	if err := g.saves.Save(ctx, p.Snapshot()); err != nil {
		g.log.Error("save on disconnect failed", zap.String("player", p.Username), zap.Error(err))
	}
	g.world.DeregisterPlayer(p)
	if err := g.accounts.SetOnline(ctx, p.Username, false); err != nil {
		g.log.Warn("mark offline failed", zap.String("player", p.Username), zap.Error(err))
	}
	g.log.Info("player logged out", zap.String("player", p.Username), zap.Uint64("session", sess.ID))
}

// Shutdown closes every session. Players stay registered; callers save
// them through the autosave system first.
func (g *Gateway) Shutdown() {
	for _, sess := range g.dir.Sessions() {
		sess.FlushOutput()
		sess.Close()
	}
}

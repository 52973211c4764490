package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/l1jgo/worldcore/internal/core/arena"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/net"
	"github.com/l1jgo/worldcore/internal/net/packet"
	"github.com/l1jgo/worldcore/internal/persist"
	"go.uber.org/zap"
)

// Client opcodes handled by the gateway itself.
const OpLogin byte = 0

// Server opcodes.
const (
	OpLoginResponse byte = 1
	OpIntent        byte = 2
)

// Login response codes.
const (
	LoginOK            = 2
	LoginInvalid       = 3
	LoginBanned        = 4
	LoginAlreadyOnline = 5
	LoginWorldFull     = 7
	LoginServerError   = 8
)

const maxUsernameLen = 12

// NormalizeUsername lowercases and trims name and reports whether it is a
// legal username.
func NormalizeUsername(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || len(name) > maxUsernameLen {
		return "", false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '_':
		default:
			return "", false
		}
	}
	return name, true
}

func (g *Gateway) login(sess *net.Session, payload []byte) {
	r := packet.NewReader(payload)
	rawName := r.String()
	password := r.String()
	if r.Err() != nil {
		g.log.Debug("malformed login", zap.Uint64("session", sess.ID), zap.Error(r.Err()))
		g.reject(sess, LoginInvalid)
		return
	}
	username, ok := NormalizeUsername(rawName)
	if !ok || password == "" {
		g.reject(sess, LoginInvalid)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.opts.DBTimeout)
	defer cancel()

	if err := g.accounts.Authenticate(ctx, username, password, g.opts.AutoCreate); err != nil {
		switch {
		case errors.Is(err, persist.ErrBadCredentials):
			g.reject(sess, LoginInvalid)
		case errors.Is(err, persist.ErrBanned):
			g.reject(sess, LoginBanned)
		default:
			g.log.Error("authenticate failed", zap.String("username", username), zap.Error(err))
			g.reject(sess, LoginServerError)
		}
		return
	}
	if _, online := g.world.PlayerByName(username); online {
		g.reject(sess, LoginAlreadyOnline)
		return
	}

	p := entity.NewPlayer(username, g.opts.Spawn)
	save, found, err := g.saves.Load(ctx, username)
	if err != nil {
		g.log.Error("load save failed", zap.String("username", username), zap.Error(err))
		g.reject(sess, LoginServerError)
		return
	}
	if found {
		p.ApplySnapshot(save)
	}

	if err := g.world.RegisterPlayer(p); err != nil {
		if errors.Is(err, arena.ErrFull) {
			g.reject(sess, LoginWorldFull)
		} else {
			g.log.Error("register player failed", zap.String("username", username), zap.Error(err))
			g.reject(sess, LoginServerError)
		}
		return
	}

	sess.Username = username
	sess.SetState(net.StateInWorld)
	g.dir.bind(sess, p)
	delete(g.attempts, sess.ID)
	if err := g.accounts.SetOnline(ctx, username, true); err != nil {
		g.log.Warn("mark online failed", zap.String("username", username), zap.Error(err))
	}

	sess.Send(OpLoginResponse, packet.NewWriter().Byte(LoginOK).Short(p.Slot()).Bytes())
	g.log.Info("player logged in",
		zap.String("player", username),
		zap.Uint64("session", sess.ID),
		zap.Int("slot", p.Slot()),
		zap.Bool("new", !found),
	)
}

// reject answers a failed login and drops the session after too many.
func (g *Gateway) reject(sess *net.Session, code int) {
	sess.Send(OpLoginResponse, packet.NewWriter().Byte(code).Bytes())
	g.attempts[sess.ID]++
	if g.attempts[sess.ID] >= g.opts.MaxAttempts {
		g.log.Info("too many failed logins", zap.Uint64("session", sess.ID), zap.String("ip", sess.IP))
		sess.FlushOutput()
		sess.Close()
	}
}

package net

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Backoff bounds for transient accept failures.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Server accepts TCP connections and hands new Sessions to the tick loop
// over a channel. At most maxPerIP sessions per remote host are open at
// once; 0 disables the cap.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	newConns chan *Session
	cfg      SessionConfig
	maxPerIP int
	log      *zap.Logger
	closing  atomic.Bool

	mu    sync.Mutex
	perIP map[string]int
}

func NewServer(bindAddr string, cfg SessionConfig, maxPerIP int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		newConns: make(chan *Session, 64),
		cfg:      cfg,
		maxPerIP: maxPerIP,
		log:      log,
		perIP:    make(map[string]int),
	}, nil
}

// AcceptLoop runs in its own goroutine until Shutdown.
func (s *Server) AcceptLoop() {
	var backoff time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff = min(backoff*2, maxAcceptBackoff)
			}
			s.log.Error("accept failed", zap.Duration("retry_in", backoff), zap.Error(err))
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		s.admit(conn)
	}
}

func (s *Server) admit(conn net.Conn) {
	id := s.nextID.Add(1)
	sess := NewSession(conn, id, s.cfg, s.log)

	if !s.reserve(sess.IP) {
		s.log.Warn("too many connections from host",
			zap.String("ip", sess.IP),
			zap.Int("limit", s.maxPerIP),
		)
		conn.Close()
		return
	}
	sess.onClose = func() { s.release(sess.IP) }
	sess.Start()

	select {
	case s.newConns <- sess:
		s.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))
	default:
		s.log.Warn("connection queue full, rejecting client", zap.Uint64("session", id))
		sess.Close()
	}
}

func (s *Server) reserve(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxPerIP > 0 && s.perIP[ip] >= s.maxPerIP {
		return false
	}
	s.perIP[ip]++
	return true
}

func (s *Server) release(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perIP[ip] <= 1 {
		delete(s.perIP, ip)
		return
	}
	s.perIP[ip]--
}

// Connections reports open sessions from ip.
func (s *Server) Connections(ip string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perIP[ip]
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// Shutdown stops accepting new connections. Open sessions are left to the
// caller.
func (s *Server) Shutdown() {
	if s.closing.Swap(true) {
		return
	}
	s.listener.Close()
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

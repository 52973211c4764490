package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// SessionState gates which frames a session may send.
type SessionState int32

const (
	StateLogin SessionState = iota
	StateInWorld
	StateClosing
)

func (s SessionState) String() string {
	switch s {
	case StateLogin:
		return "login"
	case StateInWorld:
		return "in_world"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// SessionConfig sizes a session's queues and limits.
type SessionConfig struct {
	InQueueSize  int
	OutQueueSize int
	PktPerSec    int // 0 = unlimited
	WriteTimeout time.Duration
}

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; everything else is touched only by the tick loop.
type Session struct {
	ID   uint64
	conn net.Conn

	state atomic.Int32

	InQueue  chan Frame  // tick loop reads frames from here
	OutQueue chan []byte // writer goroutine reads encoded frames from here

	IP       string
	Username string

	outBuf [][]byte // tick loop only

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// readLoop goroutine only
	pktPerSec  int
	pktCount   int
	pktResetAt int64

	writeTimeout time.Duration
	onClose      func()
	log          *zap.Logger
}

// remoteHost strips the port from a connection's remote address.
func remoteHost(conn net.Conn) string {
	addr := conn.RemoteAddr().String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func NewSession(conn net.Conn, id uint64, cfg SessionConfig, log *zap.Logger) *Session {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan Frame, cfg.InQueueSize),
		OutQueue:     make(chan []byte, cfg.OutQueueSize),
		IP:           remoteHost(conn),
		closeCh:      make(chan struct{}),
		pktPerSec:    cfg.PktPerSec,
		writeTimeout: cfg.WriteTimeout,
		log:          log.With(zap.Uint64("session", id)),
	}
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) SetState(st SessionState) {
	s.state.Store(int32(st))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send encodes and buffers a frame. Nothing reaches the socket until
// FlushOutput. Tick loop only.
func (s *Session) Send(opcode byte, payload []byte) {
	if s.closed.Load() {
		return
	}
	buf, err := EncodeFrame(opcode, payload)
	if err != nil {
		s.log.Warn("drop outbound frame", zap.Uint8("opcode", opcode), zap.Error(err))
		return
	}
	s.outBuf = append(s.outBuf, buf)
}

// Pending reports frames buffered since the last flush.
func (s *Session) Pending() int { return len(s.outBuf) }

// FlushOutput hands buffered frames to the writer goroutine. A full
// OutQueue disconnects the client.
func (s *Session) FlushOutput() {
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("output queue full, dropping slow client")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(StateClosing)
		close(s.closeCh)
		s.conn.Close()
		if s.onClose != nil {
			s.onClose()
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) readLoop() {
	defer s.Close()

	for {
		f, err := ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		if s.pktPerSec > 0 {
			now := time.Now().Unix()
			if now != s.pktResetAt {
				s.pktCount = 0
				s.pktResetAt = now
			}
			s.pktCount++
			if s.pktCount > s.pktPerSec {
				s.log.Warn("packet rate exceeded, disconnecting", zap.Int("pps", s.pktCount))
				return
			}
		}

		// Blocks only this client when the tick loop falls behind.
		select {
		case s.InQueue <- f:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			if !s.write(data) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) write(data []byte) bool {
	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if _, err := s.conn.Write(data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}

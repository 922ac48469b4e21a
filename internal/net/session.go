package net

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is an inbound named event from a client.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutMessage is an outbound named event to a client.
type OutMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn *websocket.Conn

	InQueue  chan Message    // game loop reads inbound events from here
	OutQueue chan OutMessage // writer goroutine drains this

	IP       string
	Identity string // player identity, set by the join handler (game loop only)

	writeTimeout time.Duration

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	onClose   func(id uint64) // set by Server; reports the dead session

	log *zap.Logger
}

func NewSession(conn *websocket.Conn, id uint64, inSize, outSize int, writeTimeout time.Duration, log *zap.Logger) *Session {
	s := &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan Message, inSize),
		OutQueue:     make(chan OutMessage, outSize),
		writeTimeout: writeTimeout,
		closeCh:      make(chan struct{}),
		log:          log.With(zap.Uint64("session", id)),
	}
	if conn != nil {
		s.IP = conn.RemoteAddr().String()
	}
	return s
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send enqueues an outbound event. Non-blocking: if the queue is full the
// session is closed (backpressure — a client that cannot keep up is dropped).
// Called only from the game loop goroutine.
func (s *Session) Send(event string, data any) {
	if s.closed.Load() {
		return
	}
	select {
	case s.OutQueue <- OutMessage{Event: event, Data: data}:
	default:
		s.log.Warn("outbound queue full, dropping session")
		s.Close()
	}
}

func (s *Session) readLoop() {
	defer s.Close()
	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Event == "" {
			continue // malformed inbound events are ignored, never fatal
		}
		select {
		case s.InQueue <- msg:
		default:
			// Client is flooding faster than the game loop drains; drop it.
			s.log.Warn("inbound queue full, dropping session")
			return
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case msg := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.Close()
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// Close shuts the connection down and reports the session as dead exactly once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		if s.conn != nil {
			s.conn.Close()
		}
		if s.onClose != nil {
			s.onClose(s.ID)
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

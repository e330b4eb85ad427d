package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kobrakid/partsim/internal/sim"
)

const (
	maxClients = 100
	sendBuffer = 3

	// single-byte control opcodes from the client
	opPauseToggle byte = 0x01
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server steps a World on a fixed tick and broadcasts each frame to every
// connected websocket client. Slow clients drop frames rather than stall
// the tick.
type Server struct {
	world *sim.World
	log   *slog.Logger
	rate  time.Duration

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte

	framePool sync.Pool
}

func NewServer(world *sim.World, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		world:   world,
		log:     logger,
		rate:    time.Second / 60,
		clients: make(map[*websocket.Conn]chan []byte),
		framePool: sync.Pool{
			New: func() interface{} {
				return make([]byte, 0, 4096)
			},
		},
	}
}

// Run ticks the world and broadcasts frames until ctx is done.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.world.Step()
			s.broadcast()
		}
	}
}

func (s *Server) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) == 0 {
		return
	}

	buf := s.framePool.Get().([]byte)
	frame := EncodeFrame(buf[:0], s.world.Systems())

	for conn, ch := range s.clients {
		// each client gets its own copy; the pooled buffer is reused
		// on the next tick
		msg := make([]byte, len(frame))
		copy(msg, frame)
		select {
		case ch <- msg:
		default:
			s.log.Warn("client send queue full, dropping frame", "remote", conn.RemoteAddr())
		}
	}
	s.framePool.Put(frame[:0])
}

// ServeHTTP upgrades the request and runs the client's read loop until it
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	if len(s.clients) >= maxClients {
		s.mu.Unlock()
		s.log.Warn("max clients reached, refusing connection", "remote", conn.RemoteAddr())
		conn.Close()
		return
	}
	ch := make(chan []byte, sendBuffer)
	s.clients[conn] = ch
	s.mu.Unlock()

	s.log.Info("client connected", "remote", conn.RemoteAddr(), "clients", s.clientCount())

	go s.writePump(conn, ch)

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		close(ch)
		conn.Close()
		s.log.Info("client disconnected", "remote", conn.RemoteAddr())
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.BinaryMessage || len(message) == 0 {
			continue
		}
		switch message[0] {
		case opPauseToggle:
			if s.world.Paused() {
				s.world.Resume()
			} else {
				s.world.Pause()
			}
			s.log.Info("pause toggled", "paused", s.world.Paused())
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, ch <-chan []byte) {
	for message := range ch {
		if err := conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			s.log.Warn("write to client failed", "err", err)
			return
		}
	}
}

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ListenAndServe mounts the server at /ws and blocks until ctx is done or
// the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	srv := &http.Server{Addr: addr, Handler: mux}
	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("serving frames", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Package relay implements the rendezvous service: peers announce
// presence over websocket, receive roster updates, and pass transfer
// tickets to each other. File bytes never touch the relay.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dylan0804/mini-dropbox/internal/protocol"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Config struct {
	Addr   string
	DBPath string
	Logger *slog.Logger
}

type Server struct {
	config   Config
	logger   *slog.Logger
	codec    *protocol.Codec
	store    *ClientStore
	httpSrv  *http.Server
	listener net.Listener

	mu    sync.Mutex
	conns map[string]*peerConn
}

// peerConn serializes writes to one websocket connection; the read side
// stays exclusive to that connection's handler goroutine.
type peerConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (p *peerConn) write(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func NewServer(cfg Config) (*Server, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := NewDB(dbPath)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("relay listen %s: %w", cfg.Addr, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		codec:    protocol.NewCodec(),
		store:    NewClientStore(db),
		listener: listener,
		conns:    make(map[string]*peerConn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Handler: mux}

	return s, nil
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down relay server")
	return s.httpSrv.Close()
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Relay server started", "addr", s.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		_ = s.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.logger.Info("Peer connected", "remote", r.RemoteAddr)

	pc := &peerConn{conn: conn}
	var nickname string

	defer func() {
		_ = conn.Close()
		if nickname != "" {
			s.dropClient(nickname)
			s.broadcastRoster()
		}
		s.logger.Info("Peer disconnected", "remote", r.RemoteAddr, "nickname", nickname)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := s.codec.Decode(data)
		if err != nil {
			// Every inbound frame produces a visible effect; a bad one
			// is answered, never dropped.
			s.logger.Warn("Undecodable frame", "remote", r.RemoteAddr, "error", err)
			s.send(pc, &protocol.ErrorDeserializingJson{Reason: err.Error()})
			continue
		}

		switch m := msg.(type) {
		case *protocol.Register:
			nickname = m.Nickname
			s.addClient(nickname, pc, r.RemoteAddr)
			s.send(pc, &protocol.RegisterSuccess{})
			s.broadcastRoster()

		case *protocol.DisconnectUser:
			if nickname != "" && m.Nickname == nickname {
				s.dropClient(nickname)
				nickname = ""
				s.broadcastRoster()
			}

		case *protocol.GetActiveUsersList:
			s.send(pc, &protocol.ActiveUsersList{Users: s.roster()})

		case *protocol.SendFile:
			s.logger.Info("Ticket announced", "from", nickname)
			s.fanOut(nickname, &protocol.ReceiveFile{Ticket: m.Ticket})

		default:
			s.logger.Warn("Unhandled message type", "type", msg.Type().String())
		}
	}
}

func (s *Server) addClient(nickname string, pc *peerConn, remoteAddr string) {
	if err := s.store.CreateClient(nickname, remoteAddr); err != nil {
		s.logger.Error("Failed to store client", "nickname", nickname, "error", err)
	}

	s.mu.Lock()
	s.conns[nickname] = pc
	s.mu.Unlock()

	s.logger.Info("Peer registered", "nickname", nickname)
}

func (s *Server) dropClient(nickname string) {
	if err := s.store.DeleteClient(nickname); err != nil {
		s.logger.Error("Failed to delete client", "nickname", nickname, "error", err)
	}

	s.mu.Lock()
	delete(s.conns, nickname)
	s.mu.Unlock()
}

func (s *Server) roster() []string {
	nicknames, err := s.store.ListNicknames()
	if err != nil {
		s.logger.Error("Failed to list clients", "error", err)
		return nil
	}
	return nicknames
}

func (s *Server) broadcastRoster() {
	users := s.roster()

	s.mu.Lock()
	targets := make([]*peerConn, 0, len(s.conns))
	for _, pc := range s.conns {
		targets = append(targets, pc)
	}
	s.mu.Unlock()

	for _, pc := range targets {
		s.send(pc, &protocol.ActiveUsersList{Users: users})
	}
}

func (s *Server) fanOut(from string, msg protocol.Message) {
	s.mu.Lock()
	targets := make([]*peerConn, 0, len(s.conns))
	for nickname, pc := range s.conns {
		if nickname == from {
			continue
		}
		targets = append(targets, pc)
	}
	s.mu.Unlock()

	for _, pc := range targets {
		s.send(pc, msg)
	}
}

func (s *Server) send(pc *peerConn, msg protocol.Message) {
	data, err := s.codec.Encode(msg)
	if err != nil {
		s.logger.Error("Failed to encode message", "type", msg.Type().String(), "error", err)
		return
	}
	if err := pc.write(data); err != nil {
		s.logger.Debug("Failed to write message", "type", msg.Type().String(), "error", err)
	}
}

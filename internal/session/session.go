// Package session drives the peer presence lifecycle: concurrent
// bootstrap of the signaling channel and the blob endpoint, registration
// with the relay, roster tracking, and ticket exchange.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dylan0804/mini-dropbox/internal/blob"
	"github.com/dylan0804/mini-dropbox/internal/identity"
	"github.com/dylan0804/mini-dropbox/internal/protocol"
	"github.com/dylan0804/mini-dropbox/internal/signaling"
)

const defaultBacklog = 100

type Config struct {
	RelayURL     string
	BlobBindAddr string
	DownloadsDir string

	// Nickname overrides the generated display name. Empty means
	// generate one at startup.
	Nickname string

	// Backlog is the capacity of the event bus, the outbound queue, and
	// the command queue. Producers fail fast when a queue is full.
	Backlog int

	Logger *slog.Logger
}

// Session owns the single live state value. Background tasks never
// mutate it; they communicate through the event bus, and the update loop
// is the bus's only consumer and the outbound path's only producer.
type Session struct {
	config   Config
	logger   *slog.Logger
	nickname string

	state       State
	roster      []string
	pendingFile string

	codec    *protocol.Codec
	channel  *signaling.Channel
	endpoint *blob.Endpoint

	events        chan Event
	cmds          chan command
	outbound      chan protocol.Message
	notifications chan Notification
}

func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backlog := cfg.Backlog
	if backlog <= 0 {
		backlog = defaultBacklog
	}

	nickname := cfg.Nickname
	if nickname == "" {
		nickname = identity.Nickname()
	}

	return &Session{
		config:        cfg,
		logger:        logger,
		nickname:      nickname,
		state:         StateStarting,
		codec:         protocol.NewCodec(),
		events:        make(chan Event, backlog),
		cmds:          make(chan command, backlog),
		outbound:      make(chan protocol.Message, backlog),
		notifications: make(chan Notification, backlog),
	}
}

func (s *Session) Nickname() string {
	return s.nickname
}

// Notifications is the stream consumed by the presentation layer.
func (s *Session) Notifications() <-chan Notification {
	return s.notifications
}

// Run executes the session until ctx is cancelled. It is the sole
// consumer of the event bus and processes at most one event at a time,
// in arrival order.
func (s *Session) Run(ctx context.Context) {
	s.logger.Info("Session starting", "nickname", s.nickname)

	s.state = StateBootstrapping
	go s.bootstrap(ctx)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case ev := <-s.events:
			s.handleEvent(ctx, ev)
		case c := <-s.cmds:
			s.handleCommand(ctx, c)
		}
	}
}

// bootstrap brings up the signaling channel and the blob endpoint
// concurrently, failing fast on the first error. Either failure aborts
// the whole session: a transport is unusable without a signaling path
// and vice versa.
func (s *Session) bootstrap(ctx context.Context) {
	var (
		channel  *signaling.Channel
		endpoint *blob.Endpoint
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ch, err := signaling.Connect(gctx, s.config.RelayURL)
		if err != nil {
			return &BootstrapError{Stage: "signaling", Err: err}
		}
		channel = ch
		return nil
	})

	g.Go(func() error {
		ep, err := blob.NewEndpoint(blob.Config{
			BindAddr:     s.config.BlobBindAddr,
			DownloadsDir: s.config.DownloadsDir,
			Logger:       s.logger,
		})
		if err != nil {
			return &BootstrapError{Stage: "transport", Err: err}
		}
		endpoint = ep
		return nil
	})

	if err := g.Wait(); err != nil {
		if channel != nil {
			_ = channel.Close()
		}
		if endpoint != nil {
			_ = endpoint.Close()
		}
		s.emit(bootstrapFailed{Err: err})
		return
	}

	s.emit(bootstrapDone{Channel: channel, Endpoint: endpoint})
}

func (s *Session) handleEvent(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case bootstrapDone:
		if s.state != StateBootstrapping {
			return
		}
		s.channel = e.Channel
		s.endpoint = e.Endpoint

		go s.readLoop()
		go s.writeLoop()

		s.notify(ReadyToPublish{})

		s.state = StateRegistering
		s.enqueue(&protocol.Register{Nickname: s.nickname})
		s.state = StateAwaitingRegisterAck
		s.logger.Info("Registering with relay", "nickname", s.nickname)

	case bootstrapFailed:
		s.fail(e.Err)

	case registerAcked:
		if s.state != StateAwaitingRegisterAck {
			// A duplicate ack in Ready is a no-op.
			return
		}
		s.state = StateReady
		s.logger.Info("Registration acknowledged")
		s.notify(RegisterAccepted{})
		s.notify(SessionReady{})

	case rosterReplaced:
		if s.state != StateReady {
			return
		}
		s.roster = e.Users
		s.notify(RosterUpdated{Users: e.Users})

	case fileOffered:
		if s.state != StateReady {
			return
		}
		s.logger.Info("Incoming file offer", "ticket", e.Ticket)
		go s.resolve(ctx, e.Ticket)

	case publishDone:
		if s.state != StateReady {
			return
		}
		s.enqueue(&protocol.SendFile{Ticket: e.Ticket})
		s.notify(FilePublished{Ticket: e.Ticket})

	case publishFailed:
		s.notify(ErrorNotice{Err: e.Err})

	case resolveDone:
		s.notify(FileReceived{Path: e.Path})

	case resolveFailed:
		s.notify(ErrorNotice{Err: e.Err})

	case relayReportedError:
		s.notify(ErrorNotice{Err: errors.New(e.Reason)})

	case frameUndecodable:
		// Local to one frame; reported and the session continues.
		s.notify(ErrorNotice{Err: e.Err})

	case frameSendFailed:
		s.notify(ErrorNotice{Err: e.Err})

	case channelClosed:
		// Chosen policy: connection loss is fatal, no automatic
		// reconnection.
		s.fail(fmt.Errorf("signaling connection lost: %w", e.Err))
	}
}

func (s *Session) handleCommand(ctx context.Context, c command) {
	switch cmd := c.(type) {
	case cmdSelectFile:
		s.pendingFile = cmd.Path
		s.logger.Debug("File selected for transfer", "path", cmd.Path)

	case cmdRequestRoster:
		if s.state != StateReady {
			return
		}
		s.enqueue(&protocol.GetActiveUsersList{Nickname: s.nickname})

	case cmdPublish:
		if s.state != StateReady {
			return
		}
		if s.pendingFile == "" {
			s.notify(ErrorNotice{Err: errors.New("no file selected for transfer")})
			return
		}
		path := s.pendingFile
		s.pendingFile = ""
		s.logger.Info("Publishing file", "path", path, "to", cmd.Nickname)
		go s.publish(path)

	case cmdDisconnect:
		if s.channel == nil {
			return
		}
		s.enqueue(&protocol.DisconnectUser{Nickname: s.nickname})
	}
}

func (s *Session) fail(err error) {
	if s.state == StateFailed {
		return
	}
	s.state = StateFailed
	s.logger.Error("Session failed", "error", err)
	s.notify(FatalError{Err: err})
}

// readLoop forwards inbound frames to the event bus until the connection
// closes. It is the only reader of the signaling channel.
func (s *Session) readLoop() {
	for {
		data, err := s.channel.Read()
		if err != nil {
			s.emit(channelClosed{Err: err})
			return
		}

		msg, err := s.codec.Decode(data)
		if err != nil {
			s.emit(frameUndecodable{Err: err})
			continue
		}

		switch m := msg.(type) {
		case *protocol.RegisterSuccess:
			s.emit(registerAcked{})
		case *protocol.ActiveUsersList:
			s.emit(rosterReplaced{Users: m.Users})
		case *protocol.ReceiveFile:
			s.emit(fileOffered{Ticket: m.Ticket})
		case *protocol.ErrorDeserializingJson:
			s.emit(relayReportedError{Reason: m.Reason})
		default:
			s.logger.Debug("Ignoring unexpected relay frame", "type", msg.Type().String())
		}
	}
}

// writeLoop drains the outbound queue in FIFO order. It exits when the
// queue is closed, then closes the connection.
func (s *Session) writeLoop() {
	for msg := range s.outbound {
		data, err := s.codec.Encode(msg)
		if err != nil {
			s.emit(frameSendFailed{Err: err})
			continue
		}
		if err := s.channel.Send(data); err != nil {
			s.emit(frameSendFailed{Err: err})
		}
	}
	_ = s.channel.Close()
}

func (s *Session) publish(path string) {
	ticket, err := s.endpoint.Publish(path)
	if err != nil {
		s.emit(publishFailed{Err: err})
		return
	}
	s.emit(publishDone{Ticket: ticket})
}

func (s *Session) resolve(ctx context.Context, ticket string) {
	path, err := s.endpoint.Resolve(ctx, ticket)
	if err != nil {
		s.emit(resolveFailed{Err: err})
		return
	}
	s.emit(resolveDone{Path: path})
}

// enqueue places a message on the outbound queue. Only the update loop
// calls it; a full queue drops the message and reports it rather than
// blocking.
func (s *Session) enqueue(msg protocol.Message) {
	if s.state == StateFailed {
		return
	}
	select {
	case s.outbound <- msg:
	default:
		s.notify(ErrorNotice{Err: fmt.Errorf("outbound queue full, dropped %s", msg.Type())})
	}
}

// emit places an event on the bus without blocking. A full bus drops the
// event; background tasks must never stall on the orchestrator.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("Event bus full, dropping event", "event", fmt.Sprintf("%T", ev))
	}
}

func (s *Session) notify(n Notification) {
	select {
	case s.notifications <- n:
	default:
		s.logger.Warn("Notification stream full, dropping", "notification", fmt.Sprintf("%T", n))
	}
}

// shutdown best-effort announces the leave and lets the writer drain.
// Already-spawned tasks are not torn down beyond closing the outbound
// path.
func (s *Session) shutdown() {
	if s.channel != nil {
		select {
		case s.outbound <- &protocol.DisconnectUser{Nickname: s.nickname}:
		default:
			s.notify(ErrorNotice{Err: errors.New("could not enqueue disconnect, queue full")})
		}
	}
	close(s.outbound)
	if s.endpoint != nil {
		_ = s.endpoint.Close()
	}
	s.logger.Info("Session stopped", "nickname", s.nickname)
}

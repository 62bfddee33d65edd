// Package blob wraps a content-addressed peer-to-peer blob transport:
// publish a local file as an addressable object, hand out a ticket for
// it, and resolve tickets received from other peers.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
)

// TransferError reports a failed publish or resolve. Transfer failures
// never affect session state; they are surfaced and the session stays
// live.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransferError) Unwrap() error { return e.Err }

var ErrNotFound = errors.New("object not found on remote peer")

// Endpoint is a node in the blob transport: it serves the objects it has
// published and fetches objects named by tickets. Publish and Resolve
// may take time proportional to file size and network conditions; no
// timeout is imposed at this layer.
type Endpoint struct {
	id           string
	store        *Store
	listener     *quic.Listener
	downloadsDir string
	logger       *slog.Logger
}

func NewEndpoint(cfg Config) (*Endpoint, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tlsConf, err := serverTLSConfig()
	if err != nil {
		return nil, fmt.Errorf("endpoint tls setup: %w", err)
	}

	listener, err := quic.ListenAddr(cfg.BindAddr, tlsConf, defaultQUICConfig())
	if err != nil {
		return nil, fmt.Errorf("endpoint listen %s: %w", cfg.BindAddr, err)
	}

	e := &Endpoint{
		id:           uuid.NewString(),
		store:        NewStore(),
		listener:     listener,
		downloadsDir: cfg.DownloadsDir,
		logger:       logger,
	}

	go e.acceptLoop()

	logger.Info("Blob endpoint listening", "node", e.id, "addr", e.Addr())
	return e, nil
}

func (e *Endpoint) NodeID() string {
	return e.id
}

func (e *Endpoint) Addr() string {
	return e.listener.Addr().String()
}

func (e *Endpoint) Close() error {
	return e.listener.Close()
}

// Publish reads the file at path fully, stores it under its content
// address, and returns a ticket a remote peer can resolve.
func (e *Endpoint) Publish(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &TransferError{Op: "publish", Err: err}
	}

	hash := e.store.Put(data)
	ticket := Ticket{
		NodeID: e.id,
		Addr:   e.Addr(),
		Hash:   hash,
		Format: "raw",
	}

	e.logger.Debug("Published blob", "hash", hash, "size", len(data))
	return ticket.String(), nil
}

// Resolve fetches the object named by the ticket into the downloads
// directory and returns the local path.
func (e *Endpoint) Resolve(ctx context.Context, ticket string) (string, error) {
	t, err := ParseTicket(ticket)
	if err != nil {
		return "", &TransferError{Op: "resolve", Err: err}
	}

	if err := os.MkdirAll(e.downloadsDir, 0o755); err != nil {
		return "", &TransferError{Op: "resolve", Err: err}
	}

	path := filepath.Join(e.downloadsDir, t.Hash)
	f, err := os.Create(path)
	if err != nil {
		return "", &TransferError{Op: "resolve", Err: err}
	}
	defer func() { _ = f.Close() }()

	if _, err := e.resolveTo(ctx, t, f); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// ResolveTo fetches the object named by the ticket and writes its bytes
// to w, returning the object size.
func (e *Endpoint) ResolveTo(ctx context.Context, ticket string, w io.Writer) (int64, error) {
	t, err := ParseTicket(ticket)
	if err != nil {
		return 0, &TransferError{Op: "resolve", Err: err}
	}
	return e.resolveTo(ctx, t, w)
}

func (e *Endpoint) resolveTo(ctx context.Context, t Ticket, w io.Writer) (int64, error) {
	conn, err := quic.DialAddr(ctx, t.Addr, clientTLSConfig(), defaultQUICConfig())
	if err != nil {
		return 0, &TransferError{Op: "resolve", Err: fmt.Errorf("dial %s: %w", t.Addr, err)}
	}
	defer func() { _ = conn.CloseWithError(0, "") }()

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return 0, &TransferError{Op: "resolve", Err: err}
	}

	req := &fetchRequest{RequestID: uuid.NewString(), Hash: t.Hash}
	if err := writeFetchRequest(stream, req); err != nil {
		return 0, &TransferError{Op: "resolve", Err: err}
	}

	res, err := readFetchResponse(stream)
	if err != nil {
		return 0, &TransferError{Op: "resolve", Err: err}
	}
	_ = stream.Close()

	if !res.Found {
		return 0, &TransferError{Op: "resolve", Err: ErrNotFound}
	}
	if HashBytes(res.Data) != t.Hash {
		return 0, &TransferError{Op: "resolve", Err: errors.New("content hash mismatch")}
	}

	n, err := io.Copy(w, bytes.NewReader(res.Data))
	if err != nil {
		return 0, &TransferError{Op: "resolve", Err: err}
	}

	e.logger.Debug("Resolved blob", "hash", t.Hash, "size", n)
	return n, nil
}

func (e *Endpoint) acceptLoop() {
	for {
		conn, err := e.listener.Accept(context.Background())
		if err != nil {
			return
		}
		go e.handleConn(conn)
	}
}

func (e *Endpoint) handleConn(conn quic.Connection) {
	defer func() { _ = conn.CloseWithError(0, "") }()

	for {
		stream, err := conn.AcceptStream(context.Background())
		if err != nil {
			return
		}
		go e.handleStream(stream)
	}
}

func (e *Endpoint) handleStream(stream quic.Stream) {
	defer func() { _ = stream.Close() }()

	req, err := readFetchRequest(stream)
	if err != nil {
		e.logger.Debug("Failed to read fetch request", "error", err)
		return
	}

	data, found := e.store.Get(req.Hash)
	res := &fetchResponse{Found: found, Data: data}

	if err := writeFetchResponse(stream, res); err != nil {
		e.logger.Debug("Failed to write fetch response", "request", req.RequestID, "error", err)
	}
}

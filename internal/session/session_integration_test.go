package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dylan0804/mini-dropbox/internal/relay"
)

func startRelay(t *testing.T) *relay.Server {
	t.Helper()

	srv, err := relay.NewServer(relay.Config{
		Addr:   "127.0.0.1:0",
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = srv.Start(ctx) }()

	t.Cleanup(func() {
		cancel()
		_ = srv.Shutdown()
	})

	return srv
}

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func runSession(t *testing.T, nickname, relayURL string) *Session {
	t.Helper()

	s := New(Config{
		RelayURL:     relayURL,
		BlobBindAddr: "127.0.0.1:0",
		DownloadsDir: t.TempDir(),
		Nickname:     nickname,
		Logger:       quietLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(cancel)

	return s
}

func awaitNotification(t *testing.T, s *Session, match func(Notification) bool) Notification {
	t.Helper()

	deadline := time.After(15 * time.Second)
	for {
		select {
		case n := <-s.Notifications():
			if match(n) {
				return n
			}
		case <-deadline:
			t.Fatal("Timeout waiting for notification")
			return nil
		}
	}
}

func TestSessionRegistersWithRelay(t *testing.T) {
	srv := startRelay(t)
	s := runSession(t, "guest42", "ws://"+srv.Addr()+"/ws")

	awaitNotification(t, s, func(n Notification) bool {
		_, ok := n.(RegisterAccepted)
		return ok
	})
	awaitNotification(t, s, func(n Notification) bool {
		_, ok := n.(SessionReady)
		return ok
	})

	roster := awaitNotification(t, s, func(n Notification) bool {
		_, ok := n.(RosterUpdated)
		return ok
	}).(RosterUpdated)

	if len(roster.Users) != 1 || roster.Users[0] != "guest42" {
		t.Errorf("Expected roster [guest42], got %v", roster.Users)
	}
}

func TestSessionSignalingBootstrapFailure(t *testing.T) {
	s := runSession(t, "guest42", "ws://127.0.0.1:1/ws")

	fatal := awaitNotification(t, s, func(n Notification) bool {
		_, ok := n.(FatalError)
		return ok
	}).(FatalError)

	var bootErr *BootstrapError
	if !errors.As(fatal.Err, &bootErr) {
		t.Fatalf("Expected *BootstrapError, got %v", fatal.Err)
	}
	if bootErr.Stage != "signaling" {
		t.Errorf("Expected signaling stage, got %q", bootErr.Stage)
	}
}

func TestSessionTransportBootstrapFailure(t *testing.T) {
	srv := startRelay(t)

	s := New(Config{
		RelayURL:     "ws://" + srv.Addr() + "/ws",
		BlobBindAddr: "999.999.999.999:0",
		DownloadsDir: t.TempDir(),
		Nickname:     "guest42",
		Logger:       quietLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(cancel)

	fatal := awaitNotification(t, s, func(n Notification) bool {
		_, ok := n.(FatalError)
		return ok
	}).(FatalError)

	var bootErr *BootstrapError
	if !errors.As(fatal.Err, &bootErr) {
		t.Fatalf("Expected *BootstrapError, got %v", fatal.Err)
	}
	if bootErr.Stage != "transport" {
		t.Errorf("Expected transport stage, got %q", bootErr.Stage)
	}
}

func TestEndToEndFileTransfer(t *testing.T) {
	srv := startRelay(t)
	relayURL := "ws://" + srv.Addr() + "/ws"

	sender := runSession(t, "sender", relayURL)
	receiver := runSession(t, "receiver", relayURL)

	for _, s := range []*Session{sender, receiver} {
		awaitNotification(t, s, func(n Notification) bool {
			_, ok := n.(SessionReady)
			return ok
		})
	}

	content := []byte("bytes that travel peer to peer")
	path := writeTempFile(t, content)

	if err := sender.SelectFileForTransfer(path); err != nil {
		t.Fatalf("SelectFileForTransfer failed: %v", err)
	}
	if err := sender.PublishToPeer("receiver"); err != nil {
		t.Fatalf("PublishToPeer failed: %v", err)
	}

	published := awaitNotification(t, sender, func(n Notification) bool {
		_, ok := n.(FilePublished)
		return ok
	}).(FilePublished)
	if published.Ticket == "" {
		t.Fatal("Expected non-empty ticket")
	}

	received := awaitNotification(t, receiver, func(n Notification) bool {
		_, ok := n.(FileReceived)
		return ok
	}).(FileReceived)

	got, err := os.ReadFile(received.Path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Transferred content mismatch: got %q, want %q", got, content)
	}
}

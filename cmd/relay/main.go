package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dylan0804/mini-dropbox/internal/logger"
	"github.com/dylan0804/mini-dropbox/internal/relay"
)

func main() {
	addr := flag.String("addr", ":4001", "listen address")
	dbPath := flag.String("db", "relay.sqlite3", "client database path")
	flag.Parse()

	log := logger.NewLogger()

	srv, err := relay.NewServer(relay.Config{
		Addr:   *addr,
		DBPath: *dbPath,
		Logger: log,
	})
	if err != nil {
		log.Error("Failed to start relay", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error("Relay server error", "error", err)
		os.Exit(1)
	}
}

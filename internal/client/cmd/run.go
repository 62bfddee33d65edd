package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dylan0804/mini-dropbox/internal/config"
	"github.com/dylan0804/mini-dropbox/internal/logger"
	"github.com/dylan0804/mini-dropbox/internal/session"
)

var sendPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "connect to the relay and exchange files",
	Long:  `run registers with the signaling relay, keeps the roster up to date, and serves published files to peers until interrupted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log := logger.NewLogger()
		if cfg.Verbose {
			log = logger.NewDebugLogger()
		}

		s := session.New(session.Config{
			RelayURL:     cfg.RelayURL,
			BlobBindAddr: cfg.BlobBindAddr,
			DownloadsDir: cfg.DownloadsDir,
			Logger:       log,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go watchNotifications(s, log)

		s.Run(ctx)
		return nil
	},
}

func watchNotifications(s *session.Session, log *slog.Logger) {
	for n := range s.Notifications() {
		switch v := n.(type) {
		case session.ReadyToPublish:
			log.Info("Connected, registering", "nickname", s.Nickname())
		case session.RegisterAccepted:
			log.Info("Register success")
		case session.SessionReady:
			if sendPath != "" {
				if err := s.SelectFileForTransfer(sendPath); err != nil {
					log.Error("Failed to queue file", "error", err)
					continue
				}
				if err := s.PublishToPeer(""); err != nil {
					log.Error("Failed to publish file", "error", err)
				}
			}
		case session.RosterUpdated:
			log.Info("Active peers", "users", v.Users)
		case session.FilePublished:
			log.Info("File published", "ticket", v.Ticket)
		case session.FileReceived:
			log.Info("File received", "path", v.Path)
		case session.ErrorNotice:
			log.Warn("Session error", "error", v.Err)
		case session.FatalError:
			log.Error("Session failed", "error", v.Err)
		}
	}
}

func init() {
	runCmd.Flags().StringVar(&sendPath, "send", "", "publish this file once the session is ready")
}

package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dylan0804/mini-dropbox/internal/blob"
	"github.com/dylan0804/mini-dropbox/internal/config"
	"github.com/dylan0804/mini-dropbox/internal/logger"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch ticket [output-path]",
	Short: "fetch a file by its transfer ticket",
	Long:  `fetch dials the peer named in the ticket and downloads the referenced object directly, verifying its content hash`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log := logger.NewLogger()

		ticket, err := blob.ParseTicket(args[0])
		if err != nil {
			return err
		}

		outPath := filepath.Join(cfg.DownloadsDir, ticket.Hash)
		if len(args) == 2 {
			outPath = args[1]
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		endpoint, err := blob.NewEndpoint(blob.Config{
			BindAddr:     cfg.BlobBindAddr,
			DownloadsDir: cfg.DownloadsDir,
			Logger:       log,
		})
		if err != nil {
			return err
		}
		defer func() { _ = endpoint.Close() }()

		out, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer func() { _ = out.Close() }()

		bar := progressbar.DefaultBytes(-1, "fetching")
		n, err := endpoint.ResolveTo(cmd.Context(), args[0], io.MultiWriter(out, bar))
		if err != nil {
			_ = os.Remove(outPath)
			return err
		}
		_ = bar.Finish()

		log.Info("Fetch complete", "bytes", n, "path", outPath, "peer", ticket.NodeID)
		return nil
	},
}

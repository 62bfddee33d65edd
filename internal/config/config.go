// Package config loads the client configuration: defaults, an optional
// config file, and environment overrides. Values are read once at
// startup and not re-read afterward.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	// RelayURL is the websocket address of the signaling relay.
	RelayURL string `mapstructure:"relay_url"`
	// BlobBindAddr is the local bind address of the blob endpoint.
	BlobBindAddr string `mapstructure:"blob_bind_addr"`
	// DownloadsDir is where resolved objects are written.
	DownloadsDir string `mapstructure:"downloads_dir"`
	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("relay_url", "ws://127.0.0.1:4001/ws")
	v.SetDefault("blob_bind_addr", "127.0.0.1:0")
	v.SetDefault("downloads_dir", "downloads")
	v.SetDefault("verbose", false)

	v.SetConfigName("mini-dropbox")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/mini-dropbox")

	v.SetEnvPrefix("MINI_DROPBOX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"ubloxd/internal/config"
	"ubloxd/internal/logging"
	"ubloxd/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML or TOML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logs := web.NewLogBuffer(2000)
	logging.InitWriter("ubloxd", cfg.Log, os.Stderr, logs)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Str("config", configPath).Msg("ubloxd starting")
	if err := run(ctx, cfg, logs); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("ubloxd failed")
		os.Exit(1)
	}
	log.Info().Msg("ubloxd stopping")
}

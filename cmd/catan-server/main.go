// catan-server runs the HTTP game service: REST endpoints for creating
// games and submitting actions, a websocket event stream per game, and an
// optional sqlite archive of finished games.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"catan/engine"
	"catan/record"
	"catan/server"
)

// Config is the server's yaml configuration. Every field has a usable
// default so the config file is optional.
type Config struct {
	Addr        string `yaml:"addr"`
	ArchivePath string `yaml:"archive_path"`
	LogLevel    string `yaml:"log_level"`
	LogPretty   bool   `yaml:"log_pretty"`
}

func defaultConfig() Config {
	return Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogPretty: true,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupLogging(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "path to yaml config (optional)")
		addr       = flag.String("addr", "", "listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("loading config failed")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	setupLogging(cfg)

	var store *record.Store
	if cfg.ArchivePath != "" {
		store, err = record.Open(cfg.ArchivePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ArchivePath).Msg("opening archive failed")
		}
		defer store.Close()
	}

	srv := server.New(engine.NewManager(), store)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}

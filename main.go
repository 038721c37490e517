// main.go
//
// Entry point for the guess server.
// Loads config, the word list and the optional history db, then serves HTTP
// until SIGINT/SIGTERM and shuts down gracefully.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/guess-server/internal/config"
	"github.com/robalobadob/wordle/apps/guess-server/internal/history"
	"github.com/robalobadob/wordle/apps/guess-server/internal/httpserver"
	"github.com/robalobadob/wordle/apps/guess-server/internal/session"
	"github.com/robalobadob/wordle/apps/guess-server/internal/store"
	"github.com/robalobadob/wordle/apps/guess-server/internal/words"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("guess-server stopped")
		os.Exit(1)
	}
}

// run wires the server and blocks until a signal or a listener failure.
// Every resource it opens is closed before it returns.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	setupLogging(cfg)

	dict, err := words.Load(cfg.WordsFile, cfg.WordLength)
	if err != nil {
		return fmt.Errorf("load word list: %w", err)
	}
	log.Info().Int("words", dict.Len()).Int("length", dict.WordLength()).Msg("word list loaded")

	var (
		opts    []session.Option
		srvOpts = httpserver.Options{ClientOrigin: cfg.ClientOrigin, RequestTimeout: cfg.RequestTimeout}
	)
	if cfg.HistoryDB != "" {
		hist, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("open history db %s: %w", cfg.HistoryDB, err)
		}
		defer func() {
			if err := hist.Close(); err != nil {
				log.Warn().Err(err).Msg("close history db")
			}
		}()
		opts = append(opts, session.WithRecorder(hist))
		srvOpts.History = hist
	}

	games, err := session.NewManager(store.NewMemoryStore(), dict, session.Config{
		MaxAttempts: cfg.MaxAttempts,
		DailySalt:   cfg.DailySalt,
	}, opts...)
	if err != nil {
		return fmt.Errorf("build game manager: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.New(games, srvOpts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Int("maxAttempts", cfg.MaxAttempts).Msg("starting guess-server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping default")
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if strings.EqualFold(cfg.LogFormat, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

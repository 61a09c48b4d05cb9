package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessbot/bots"
	"chessbot/config"
	"chessbot/game"
	"chessbot/server"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	registry, err := bots.Registry(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("building bots")
	}
	session, err := game.NewSession(registry, cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("creating session")
	}
	srv := server.New(session, config.NewStore(cfg), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx.Done())

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Routes(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	logger.Info().Str("addr", cfg.HTTPAddr).Str("bot", cfg.Bot).Int("depth", cfg.Depth).Msg("listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		_ = httpServer.Close()
	}
	cancel()

	if runErr != nil {
		logger.Fatal().Err(runErr).Msg("server error")
	}
}

// Command stateroom serves replicated countdown sessions over Connect RPC.
// Each session is an independent countdown program driven authoritatively on
// the server; clients submit player events and follow the ordered stream.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/stateroom/stateroom/observability"
	"github.com/stateroom/stateroom/programs/countdown"
	"github.com/stateroom/stateroom/session"
	"github.com/stateroom/stateroom/transport"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to server config JSON file")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
		start      = flag.Int("start", 0, "Countdown start value (overrides config)")
		wakeDelay  = flag.Duration("wake", 0, "Tick interval (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configFile != "" {
		loaded, err := loadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *start > 0 {
		cfg.CountdownStart = *start
	}
	if *wakeDelay > 0 {
		cfg.Session.Driver.WakeDelay = *wakeDelay
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	observer := observability.NewSlogObserver(logger)

	factory := &countdown.Factory{Start: cfg.CountdownStart}
	manager := session.NewManager[countdown.Transition](factory, &cfg.Session,
		session.WithObserver[countdown.Transition](observer),
	)

	svc := transport.NewService[countdown.Transition](manager, nil)
	path, handler := transport.NewSyncServiceHandler(svc)

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stateroom listening",
			slog.String("addr", cfg.Addr),
			slog.Int("countdown_start", cfg.CountdownStart),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	manager.CloseAll()
}

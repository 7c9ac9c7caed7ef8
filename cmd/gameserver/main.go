package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"penaltyshot/internal/arena"
	"penaltyshot/internal/config"
	"penaltyshot/internal/shared/logger"
	"penaltyshot/internal/telemetry"
)

func main() {
	boot := logger.New("gameserver")
	cfg, err := config.Load(getEnv("SHOOTOUT_CONFIG", ""))
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.NewWithWriter(os.Stdout, "gameserver", cfg.Log.Level)

	store := telemetry.NewStore(cfg.Telemetry.Capacity)
	recorder, err := telemetry.NewRecorder(store, telemetry.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("create telemetry recorder")
	}
	mgr := arena.NewManager(cfg.Server.FrameBuffer,
		arena.WithLogger(log),
		arena.WithRecorder(recorder),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go mgr.Run(ctx, cfg.Server.TickInterval())

	s := newServer(cfg, log, mgr, store)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           telemetry.WithCORS(s.routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.Server.Addr).
		Int("tick_hz", cfg.Server.TickHz).
		Float64("field_w", cfg.Field.Width).
		Float64("field_h", cfg.Field.Height).
		Msg("shootout server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

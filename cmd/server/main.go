package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	router "github.com/tr3ndy661/BootLeg-Gartic/internal/adapters/http"
	wsignal "github.com/tr3ndy661/BootLeg-Gartic/internal/adapters/signal"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/app"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/config"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	prompts := core.DefaultPrompts
	if cfg.PromptsFile != "" {
		prompts, err = core.LoadPromptsFile(cfg.PromptsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load prompts")
		}
	}
	pool, err := core.NewPromptPool(prompts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build prompt pool")
	}
	log.Info().Int("prompts", pool.Len()).Msg("prompt pool ready")

	registry := app.NewRegistry(rate.Limit(cfg.ChatRate), cfg.ChatBurst)
	rooms := core.NewStore(pool)
	ctl := wsignal.NewController(registry, rooms, cfg)

	r := router.SetupRouter(ctx, cfg, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Gartic server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	registry.CancelAll()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

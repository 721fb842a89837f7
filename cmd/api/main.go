package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"audio-insight-go/internal/config"
	"audio-insight-go/internal/extractor"
	"audio-insight-go/internal/logger"
	"audio-insight-go/internal/session"
	"audio-insight-go/internal/web"
)

func main() {
	cfg := config.Load() // loads .env

	log := logger.New()
	log.WithField("service", "audio-insight-go").Info("starting service")
	log.WithFields(map[string]interface{}{
		"backend":     cfg.Backend,
		"model":       cfg.GeminiModel,
		"mock_llm":    cfg.UseMockLLM,
		"session_ttl": cfg.SessionTTL.String(),
	}).Info("configuration loaded")

	analyzer := extractor.New(cfg, log.Entry)
	store := session.NewStore(cfg.SessionTTL, func() *session.Controller {
		return session.NewController(analyzer, cfg.CSVHeader, log.Entry)
	}, log.Entry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go store.Run(ctx, time.Minute)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      web.NewServer(store, log, cfg.MaxUploadBytes).Routes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown incomplete")
		}
	}()

	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
	// let in-flight analyses settle before exit
	store.Wait()
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/prepground/mockview/backend/internal/config"
	"github.com/prepground/mockview/backend/internal/handler"
	"github.com/prepground/mockview/backend/internal/model/persona"
	"github.com/prepground/mockview/backend/internal/service/ai"
	"github.com/prepground/mockview/backend/internal/service/analyzer"
	"github.com/prepground/mockview/backend/internal/service/extract"
	interviewservice "github.com/prepground/mockview/backend/internal/service/interview"
	reportservice "github.com/prepground/mockview/backend/internal/service/report"
	"github.com/prepground/mockview/backend/internal/service/session"
	"github.com/prepground/mockview/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())

	store := session.NewMemoryStore(cfg.Session.TTL)
	store.StartSweeper(ctx, cfg.Session.SweepInterval)

	var analyzerSvc *analyzer.Service
	var interviewSvc *interviewservice.Service
	var reportSvc *reportservice.Service
	if cfg.LLM.Enabled() {
		gateway, err := ai.NewService(ctx, cfg.LLM)
		if err != nil {
			log.Fatalf("failed to initialize llm gateway: %v", err)
		}
		analyzerSvc = analyzer.NewService(gateway, extract.NewPDFExtractor(), store)
		interviewSvc = interviewservice.NewService(gateway, personaStore)
		reportSvc = reportservice.NewService(gateway, store)
		log.Printf("llm gateway initialized (provider=%s, model=%s)", cfg.LLM.Provider, cfg.LLM.Model)
	} else {
		log.Println("llm credentials not configured, interview endpoints will answer unavailable")
	}

	var synth speech.Synthesizer
	if cfg.Speech.Enabled {
		synth = speech.NewService(cfg.Speech)
		log.Println("speech synthesis initialized")
	} else {
		log.Println("speech credentials not configured, interviews will be text-only")
	}

	router := handler.NewRouter(store, personaStore, analyzerSvc, interviewSvc, reportSvc, synth)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("mockview backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

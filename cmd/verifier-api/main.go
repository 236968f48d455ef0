package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourorg/invoice-verifier/internal/dupstore"
	"github.com/yourorg/invoice-verifier/internal/pdftext"
	"github.com/yourorg/invoice-verifier/internal/verify"
)

func main() {
	_ = godotenv.Load()

	logger := slog.Default()
	cfg := verify.LoadConfig()

	var store verify.DuplicateStore
	if cfg.DuplicateDBPath != "" {
		s, err := dupstore.Open(cfg.DuplicateDBPath)
		if err != nil {
			logger.Error("open duplicate store failed", "path", cfg.DuplicateDBPath, "error", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	} else {
		store = verify.NewInMemoryDuplicateStore()
	}

	engine := verify.NewEngine(cfg, store, logger)
	svc := verify.NewService(cfg, engine, store, pdftext.New(), verify.NewMemoryAuditRecorder(), verify.NewMetrics(), logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", svc.Routes())

	logger.Info("invoice verifier api listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Error("server stopped", "error", err)
	}
}

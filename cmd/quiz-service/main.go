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

	"trivia-quiz/internal/config"
	"trivia-quiz/internal/httpapi"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/quiz"
	"trivia-quiz/internal/storage"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	driver := flag.String("db-driver", cfg.Database.Driver, "database driver (sqlite3 or postgres)")
	dsn := flag.String("db-dsn", cfg.Database.DSN, "SQLite file path or Postgres DSN")
	totalTime := flag.Duration("total-time", cfg.TotalTime, "time limit per game")
	flag.Parse()

	log := logger.Init(cfg.LogLevel, cfg.LogFormat)

	store, err := storage.Open(config.DatabaseConfig{Driver: *driver, DSN: *dsn})
	if err != nil {
		log.Error("open store failed", "driver", *driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	service := quiz.NewService(store, store, store, quiz.Options{
		TotalTime:      *totalTime,
		PersistTimeout: cfg.PersistTimeout,
		Logger:         log,
	})
	defer service.Close()

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set; trusting the " + httpapi.UserIDHeader + " header")
	}

	server := &http.Server{
		Addr: *addr,
		Handler: httpapi.NewRouter(service, store, httpapi.RouterConfig{
			JWTSecret:   cfg.JWTSecret,
			CORSOrigins: cfg.CORSOrigins,
			Logger:      log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("quiz-service listening", "addr", *addr, "driver", *driver, "total_time", totalTime.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"trivia-quiz/internal/cli"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/quiz"
	"trivia-quiz/internal/storage"
	"trivia-quiz/internal/userclient"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	user := flag.String("user", os.Getenv("QUIZ_USER"), "player id; with -token the server uses the token subject instead")
	category := flag.String("category", quiz.CategoryAll, "category tag ("+strings.Join(quiz.Categories, ", ")+")")
	server := flag.String("server", "", "quiz-service URL; empty plays against the local database")
	token := flag.String("token", os.Getenv("QUIZ_TOKEN"), "bearer token for -server")
	driver := flag.String("db-driver", cfg.Database.Driver, "database driver for local play")
	dsn := flag.String("db-dsn", cfg.Database.DSN, "database DSN for local play")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runCfg := cli.Config{
		UserID:   *user,
		Category: *category,
		NoColor:  *noColor,
	}

	if strings.TrimSpace(*server) != "" {
		client := userclient.NewHTTPClient(*server, nil, userclient.Credentials{Token: *token, UserID: *user})
		runCfg.Engine = client
		return describeClientError(cli.Run(ctx, os.Stdin, os.Stdout, runCfg), client.BaseURL())
	}

	// Local play keeps service logs off the terminal.
	log := logger.New(io.Discard, cfg.LogLevel, cfg.LogFormat)
	store, err := storage.Open(config.DatabaseConfig{Driver: *driver, DSN: *dsn})
	if err != nil {
		return err
	}
	defer store.Close()

	service := quiz.NewService(store, store, store, quiz.Options{
		TotalTime:      cfg.TotalTime,
		PersistTimeout: cfg.PersistTimeout,
		Logger:         log,
	})
	defer service.Close()

	runCfg.Engine = cli.Local{Service: service}
	return cli.Run(ctx, os.Stdin, os.Stdout, runCfg)
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, userclient.ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}

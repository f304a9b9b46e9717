package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"trivia-quiz/internal/config"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/questionbank"
	"trivia-quiz/internal/quiz"
	"trivia-quiz/internal/storage"
)

func main() {
	cfg := config.Load()

	file := flag.String("file", "", "question bank file (.yaml, .yml or .json)")
	fetch := flag.Int("opentdb", 0, "number of questions to fetch from OpenTriviaDB")
	category := flag.String("category", "", "category tag for fetched questions")
	categoryID := flag.Int("opentdb-category", 0, "OpenTriviaDB numeric category filter")
	difficulty := flag.String("difficulty", "", "difficulty filter for fetched questions")
	driver := flag.String("db-driver", cfg.Database.Driver, "database driver (sqlite3 or postgres)")
	dsn := flag.String("db-dsn", cfg.Database.DSN, "SQLite file path or Postgres DSN")
	flag.Parse()

	log := logger.Init(cfg.LogLevel, cfg.LogFormat)

	if *file == "" && *fetch <= 0 {
		fmt.Fprintln(os.Stderr, "usage: quiz-import -file questions.yaml | -opentdb N -category TAG")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var questions []quiz.Question
	if *file != "" {
		loaded, err := questionbank.Load(*file)
		if err != nil {
			log.Error("load question bank failed", "file", *file, "error", err)
			os.Exit(1)
		}
		questions = append(questions, loaded...)
	}
	if *fetch > 0 {
		fetched, err := fetchOpenTDB(ctx, *fetch, *categoryID, *category, *difficulty)
		if err != nil {
			log.Error("fetch from opentdb failed", "error", err)
			os.Exit(1)
		}
		questions = append(questions, fetched...)
	}

	store, err := storage.Open(config.DatabaseConfig{Driver: *driver, DSN: *dsn})
	if err != nil {
		log.Error("open store failed", "driver", *driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	written, err := store.AddQuestions(ctx, questions)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	counts, err := store.CategoryCounts(ctx)
	if err != nil {
		log.Warn("category counts failed", "error", err)
	}
	log.Info("questions imported", "written", written, "categories", counts)
}

func fetchOpenTDB(ctx context.Context, amount, categoryID int, category, difficulty string) ([]quiz.Question, error) {
	if quiz.IsAllCategories(category) {
		return nil, errors.New("-category is required with -opentdb")
	}
	category, ok := quiz.CanonicalCategory(category)
	if !ok {
		return nil, fmt.Errorf("-category: %w %q", quiz.ErrUnknownCategory, category)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	raw, err := opentdb.NewClient(nil).FetchQuestions(ctx, opentdb.Params{
		Amount:     amount,
		Difficulty: quiz.Difficulty(strings.ToLower(strings.TrimSpace(difficulty))),
		CategoryID: categoryID,
	})
	if err != nil {
		return nil, err
	}

	questions := make([]quiz.Question, 0, len(raw))
	for _, item := range raw {
		questions = append(questions, item.Question(category))
	}
	return questions, nil
}

package questionbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"trivia-quiz/internal/quiz"
)

// questionNamespace seeds ids for entries that do not carry one, so
// re-importing the same file upserts instead of duplicating.
var questionNamespace = uuid.MustParse("8f0c2d4e-5b1a-4c7e-9a36-2f1d7b6e4a90")

// Load reads, parses and validates a question bank file.
func Load(path string) ([]quiz.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	file, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	return Normalize(file)
}

// Normalize trims every field, fills defaults and validates each question.
// Categories are stored with their listed spelling.
func Normalize(file File) ([]quiz.Question, error) {
	if file.Version != 0 && file.Version != 1 {
		return nil, fmt.Errorf("unsupported question bank version %d", file.Version)
	}
	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("question bank has no questions")
	}

	questions := make([]quiz.Question, 0, len(file.Questions))
	seen := make(map[string]int, len(file.Questions))
	for idx, entry := range file.Questions {
		question := quiz.Question{
			ID:            strings.TrimSpace(entry.ID),
			Category:      strings.TrimSpace(entry.Category),
			Difficulty:    quiz.Difficulty(strings.ToLower(strings.TrimSpace(entry.Difficulty))),
			Text:          strings.TrimSpace(entry.Text),
			CorrectAnswer: strings.TrimSpace(entry.CorrectAnswer),
			Description:   strings.TrimSpace(entry.Description),
			CreatedBy:     strings.TrimSpace(file.CreatedBy),
		}
		if question.Category == "" {
			question.Category = strings.TrimSpace(file.Category)
		}
		if question.Category == "" || quiz.IsAllCategories(question.Category) {
			return nil, fmt.Errorf("question %d: a concrete category is required", idx+1)
		}
		category, ok := quiz.CanonicalCategory(question.Category)
		if !ok {
			return nil, fmt.Errorf("question %d: %w %q", idx+1, quiz.ErrUnknownCategory, question.Category)
		}
		question.Category = category
		for _, option := range entry.Options {
			question.Options = append(question.Options, strings.TrimSpace(option))
		}
		if question.ID == "" {
			question.ID = StableID(question.Category, question.Text)
		}
		if err := question.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", idx+1, err)
		}
		if prev, ok := seen[question.ID]; ok {
			return nil, fmt.Errorf("question %d: duplicate id %s (first seen at %d)", idx+1, question.ID, prev)
		}
		seen[question.ID] = idx + 1
		questions = append(questions, question)
	}
	return questions, nil
}

// StableID derives a question id from its category and text.
func StableID(category, text string) string {
	return uuid.NewSHA1(questionNamespace, []byte(category+"\x00"+text)).String()
}

func parse(data []byte, path string) (File, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (File, error) {
	var file File
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	return file, nil
}

func parseYAML(data []byte) (File, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	return file, nil
}

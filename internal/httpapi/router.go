package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"trivia-quiz/internal/quiz"
)

type RouterConfig struct {
	JWTSecret   string
	CORSOrigins []string
	Logger      *slog.Logger
}

func NewRouter(service *quiz.Service, counts CategoryCounter, cfg RouterConfig) http.Handler {
	api := NewAPI(service, counts, cfg.Logger)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(api.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", UserIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", api.HandleHealth)
	r.Get("/categories", api.HandleCategories)
	r.Get("/leaderboard", api.HandleLeaderboard)

	r.Group(func(r chi.Router) {
		r.Use(authenticate(cfg.JWTSecret))

		r.Route("/games", func(r chi.Router) {
			r.Post("/", api.HandleStartGame)
			r.Get("/{id}", api.HandleGetGame)
			r.Post("/{id}/answers", api.HandleSubmitAnswer)
			r.Post("/{id}/finish", api.HandleFinishGame)
			r.Delete("/{id}", api.HandleResetGame)
		})
		r.Get("/results/{id}", api.HandleGetResult)
	})

	return r
}

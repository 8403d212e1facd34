package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/just-nibble/repo-analytics/internal/http/handlers"
	"github.com/just-nibble/repo-analytics/internal/http/middleware"
	"github.com/just-nibble/repo-analytics/pkg/response"
)

type Handlers struct {
	Repository *handlers.RepositoryHandler
	Commit     *handlers.CommitHandler
	Period     *handlers.PeriodHandler
	Stat       *handlers.StatHandler

	// Ping reports whether the store is reachable; /health skips it when nil.
	Ping func(ctx context.Context) error
}

func NewRouter(h Handlers) chi.Router {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logging(log.Logger))
	router.Use(chimiddleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if h.Ping != nil {
			if err := h.Ping(r.Context()); err != nil {
				log.Error().Err(err).Msg("health check failed")
				response.ErrorResponse(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		response.SuccessResponse(w, http.StatusOK, "ok")
	})

	router.Route("/repositories", func(r chi.Router) {
		r.Post("/", h.Repository.AddRepository)
		r.Get("/", h.Repository.FetchAllRepositories)
		r.Get("/{id}", h.Repository.FetchRepositoryByID)

		r.Route("/{owner}/{name}", func(r chi.Router) {
			r.Get("/", h.Repository.FetchRepository)
			r.Get("/contributors/top", h.Repository.TopContributors)
			r.Get("/commits", h.Commit.GetCommitsByRepoName)
			r.Get("/commits/{sha}", h.Commit.GetCommit)
			r.Get("/pull-requests", h.Repository.PullRequests)
			r.Get("/critical-files", h.Commit.CriticalFiles)
			r.Get("/bus-factor", h.Commit.BusFactor)
			r.Post("/periods", h.Period.Aggregate)
			r.Get("/periods", h.Period.ListPeriods)
			r.Post("/snapshots", h.Stat.TakeSnapshot)
			r.Get("/stats", h.Stat.Stats)
		})
	})

	router.Route("/periods/{id}", func(r chi.Router) {
		r.Get("/contributions", h.Period.Contributions)
		r.Get("/summary", h.Period.Summary)
	})

	// Serve Swagger documentation
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	return router
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/usertask-api/internal/api"
	apiMiddleware "github.com/phrazzld/usertask-api/internal/api/middleware"
	"github.com/phrazzld/usertask-api/internal/cache"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	itemPolicy := cache.NewPolicy(app.config.Cache.DefaultTTL, cache.SortedQueryKey)
	listPolicy := cache.NewPolicy(app.config.Cache.ListTTL, cache.RawQueryKey)

	r.Route("/api", func(r chi.Router) {
		r.Get("/usertasks_bysorting", taskHandler.GetSorted)
		r.Get("/usertasks_grouping", taskHandler.GetGrouped)

		r.With(apiMiddleware.ResponseCache(app.cacheBackend, listPolicy)).
			Get("/usertasks", taskHandler.ListTasks)

		r.Post("/usertask", taskHandler.CreateTask)
		r.Get("/usertask/{id}",
			apiMiddleware.CacheAside(app.cacheService, itemPolicy, taskHandler.FindTask, taskHandler.WriteError))
		r.Put("/usertask/{id}", taskHandler.UpdateTask)
		r.Delete("/usertask/{id}", taskHandler.DeleteTask)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

package hc

import (
	"context"
	"net/http"
	"time"

	"lending/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Check a named readiness probe, e.g. a database ping
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Handle handle hc request
func Handle(ver string, checks ...Check) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, checks))
	return r
}

func handle(version string, checks []Check) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		for _, c := range checks {
			if err := c.Fn(r.Context()); err != nil {
				render.Error(w, err)
				return
			}
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
		})
	}
}

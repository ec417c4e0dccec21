package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "job_tracker/internal/lib/api/response"
	sl "job_tracker/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	OK bool `json:"ok"`
}

// New reports liveness.
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} health.Response
// @Router /health [get]
func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Response{OK: true})
	}
}

// Ready reports whether the database answers.
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health/ready [get]
func Ready(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.Ready"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Error("database is not reachable",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("database unavailable"))

			return
		}

		render.JSON(w, r, resp.OK())
	}
}

package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Get returns one of the caller's jobs.
// @Summary Get a job
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Job
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /jobs/{id} [get]
func Get(log *slog.Logger, svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.Get"

		user, ok := caller(w, r)
		if !ok {
			return
		}

		id, ok := jobID(w, r)
		if !ok {
			return
		}

		job, err := svc.Get(r.Context(), user.ID, id)
		if err != nil {
			fail(log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			), w, r, err)
			return
		}

		render.JSON(w, r, job)
	}
}

package jobs

import (
	"log/slog"
	"net/http"

	resp "job_tracker/internal/lib/api/response"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Delete removes one of the caller's jobs.
// @Summary Delete a job
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /jobs/{id} [delete]
func Delete(log *slog.Logger, svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.Delete"

		user, ok := caller(w, r)
		if !ok {
			return
		}

		id, ok := jobID(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), user.ID, id); err != nil {
			fail(log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			), w, r, err)
			return
		}

		render.JSON(w, r, resp.OK())
	}
}

package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// List returns the caller's jobs.
// @Summary List jobs
// @Tags jobs
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Job
// @Failure 401 {object} response.Response
// @Router /jobs [get]
func List(log *slog.Logger, svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.List"

		user, ok := caller(w, r)
		if !ok {
			return
		}

		list, err := svc.List(r.Context(), user.ID)
		if err != nil {
			fail(log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			), w, r, err)
			return
		}

		render.JSON(w, r, list)
	}
}

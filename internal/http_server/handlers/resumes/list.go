package resumes

import (
	"context"
	"log/slog"
	"net/http"

	resp "job_tracker/internal/lib/api/response"
	"job_tracker/internal/lib/api/status"
	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/middleware/authn"
	"job_tracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Lister interface {
	List(ctx context.Context, ownerID int64) ([]models.Resume, error)
}

// List returns the caller's resumes, newest first.
// @Summary List resumes
// @Tags resumes
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Resume
// @Failure 401 {object} response.Response
// @Router /resumes [get]
func List(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resumes.List"

		user, ok := authn.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("not authenticated"))
			return
		}

		list, err := lister.List(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to list resumes",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)
			status.Render(w, r, err)

			return
		}

		render.JSON(w, r, list)
	}
}

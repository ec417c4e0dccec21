package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	resp "job_tracker/internal/lib/api/response"
	"job_tracker/internal/lib/api/status"
	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/middleware/authn"
	"job_tracker/internal/models"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type JobService interface {
	Create(ctx context.Context, ownerID int64, job models.Job) (models.Job, error)
	List(ctx context.Context, ownerID int64) ([]models.Job, error)
	Get(ctx context.Context, ownerID, id int64) (models.Job, error)
	Update(ctx context.Context, ownerID, id int64, patch models.JobPatch) (models.Job, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

func caller(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := authn.UserFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Error("not authenticated"))
	}

	return user, ok
}

// jobID reads {id}. Anything that is not a positive integer cannot name a job
// and is reported as not found.
func jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, resp.Error("job not found"))
		return 0, false
	}

	return id, true
}

// decode reads and validates the JSON body into req.
func decode(log *slog.Logger, validate *validator.Validate, w http.ResponseWriter, r *http.Request, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		log.Info("Failed to decode request body", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Error("Failed to decode request"))

		return false
	}

	if err := validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		if !errors.As(err, &validateErr) {
			log.Error("failed to validate request", sl.Err(err))
			status.Render(w, r, err)
			return false
		}

		log.Info("Invalid request", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.ValidationError(validateErr))

		return false
	}

	return true
}

func fail(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if code, _ := status.From(err); code >= http.StatusInternalServerError {
		log.Error("job request failed", sl.Err(err))
	} else {
		log.Info("job request rejected", sl.Err(err))
	}

	status.Render(w, r, err)
}

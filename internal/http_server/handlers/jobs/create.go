package jobs

import (
	"log/slog"
	"net/http"
	"time"

	"job_tracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type CreateRequest struct {
	Company   string     `json:"company" validate:"required,max=120"`
	Role      string     `json:"role" validate:"required,max=120"`
	Link      *string    `json:"link" validate:"omitnil,max=255"`
	Status    string     `json:"status"`
	AppliedAt *time.Time `json:"applied_at"`
	Notes     *string    `json:"notes"`
}

// Create adds a job for the caller.
// @Summary Create a job
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body jobs.CreateRequest true "Job"
// @Success 201 {object} models.Job
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /jobs [post]
func Create(log *slog.Logger, validate *validator.Validate, svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.Create"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := caller(w, r)
		if !ok {
			return
		}

		var req CreateRequest
		if !decode(log, validate, w, r, &req) {
			return
		}

		job, err := svc.Create(r.Context(), user.ID, models.Job{
			Company:   req.Company,
			Role:      req.Role,
			Link:      req.Link,
			Status:    models.JobStatus(req.Status),
			AppliedAt: req.AppliedAt,
			Notes:     req.Notes,
		})
		if err != nil {
			fail(log, w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, job)
	}
}

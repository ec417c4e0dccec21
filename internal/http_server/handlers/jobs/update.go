package jobs

import (
	"log/slog"
	"net/http"
	"time"

	jobsvc "job_tracker/internal/jobs"
	"job_tracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// UpdateRequest holds the fields to change. Omitted fields keep their value;
// an empty link or notes clears it.
type UpdateRequest struct {
	Company   *string    `json:"company" validate:"omitnil,min=1,max=120"`
	Role      *string    `json:"role" validate:"omitnil,min=1,max=120"`
	Link      *string    `json:"link" validate:"omitnil,max=255"`
	Status    *string    `json:"status"`
	AppliedAt *time.Time `json:"applied_at"`
	Notes     *string    `json:"notes"`
}

// Update changes the given fields of one of the caller's jobs.
// @Summary Update a job
// @Tags jobs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param body body jobs.UpdateRequest true "Fields to change"
// @Success 200 {object} models.Job
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /jobs/{id} [put]
func Update(log *slog.Logger, validate *validator.Validate, svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.Update"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := caller(w, r)
		if !ok {
			return
		}

		id, ok := jobID(w, r)
		if !ok {
			return
		}

		var req UpdateRequest
		if !decode(log, validate, w, r, &req) {
			return
		}

		patch := models.JobPatch{
			Company:   req.Company,
			Role:      req.Role,
			Link:      req.Link,
			AppliedAt: req.AppliedAt,
			Notes:     req.Notes,
		}

		if req.Status != nil {
			st, err := jobsvc.ParseStatus(*req.Status)
			if err != nil {
				fail(log, w, r, err)
				return
			}
			patch.Status = &st
		}

		job, err := svc.Update(r.Context(), user.ID, id, patch)
		if err != nil {
			fail(log, w, r, err)
			return
		}

		render.JSON(w, r, job)
	}
}

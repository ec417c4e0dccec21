package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "job_tracker/internal/lib/api/response"
	"job_tracker/internal/lib/api/status"
	sl "job_tracker/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Pass  string `json:"password" validate:"required,max=72"`
}

type Response struct {
	resp.Response
	AccessToken string `json:"access_token"`
}

type Signer interface {
	Signup(ctx context.Context, email, pass string) (string, error)
}

// New creates an account and returns an access token for it.
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signup.Request true "Credentials"
// @Success 200 {object} signup.Response
// @Failure 400 {object} response.Response
// @Router /auth/signup [post]
func New(log *slog.Logger, validate *validator.Validate, signer Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signup.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if !errors.As(err, &validateErr) {
				log.Error("failed to validate request", sl.Err(err))
				status.Render(w, r, err)
				return
			}

			log.Info("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		token, err := signer.Signup(ctx, req.Email, req.Pass)
		if err != nil {
			log.Info("signup failed", sl.Err(err))
			status.Render(w, r, err)

			return
		}

		render.JSON(w, r, Response{
			Response:    resp.OK(),
			AccessToken: token,
		})
	}
}
